package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/payments"
	"github.com/theirongolddev/runway/internal/store"
)

var (
	flagTxID          string
	flagWallet        string
	flagAmount        string
	flagInvestor      string
	flagEquity        float64
	flagAllInvestment bool
)

var investmentsCmd = &cobra.Command{
	Use:     "investments",
	Aliases: []string{"inv"},
	Short:   "List recorded investments",
	RunE:    runInvestmentsList,
}

var investmentsRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a successful wallet payment as a pending investment",
	RunE:  runInvestmentsRecord,
}

func init() {
	investmentsCmd.Flags().BoolVar(&flagAllInvestment, "all", false, "List investments for every startup")

	f := investmentsRecordCmd.Flags()
	f.StringVar(&flagTxID, "tx", "", "Transaction id reported by the wallet")
	f.StringVar(&flagWallet, "wallet", "", "Wallet that signed the payment (metamask, pera)")
	f.StringVar(&flagAmount, "amount", "", "Amount in USD")
	f.StringVar(&flagInvestor, "investor", "", "Investor id")
	f.Float64Var(&flagEquity, "equity", 0, "Equity share bought (0-1)")
	_ = investmentsRecordCmd.MarkFlagRequired("tx")
	_ = investmentsRecordCmd.MarkFlagRequired("wallet")
	_ = investmentsRecordCmd.MarkFlagRequired("amount")

	investmentsCmd.AddCommand(investmentsRecordCmd)
	rootCmd.AddCommand(investmentsCmd)
}

func runInvestmentsList(_ *cobra.Command, _ []string) error {
	st, err := requireStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id := startupID()
	if flagAllInvestment {
		id = ""
	}
	invs, err := st.ListInvestments(id)
	if err != nil {
		return err
	}
	if len(invs) == 0 {
		fmt.Println("\n  No investments recorded.")
		return nil
	}

	total, err := st.TotalInvested(id)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(investmentTable(invs)))
	fmt.Printf("\n  Total invested: %s\n", cli.FormatDecimal(total))
	return nil
}

func investmentTable(invs []model.Investment) cli.Table {
	t := cli.Table{
		Title:   "Investments",
		Headers: []string{"Date", "Startup", "Investor", "Wallet", "Amount", "Equity", "Status", "Tx"},
	}
	for _, inv := range invs {
		investor := inv.InvestorID
		if investor == "" {
			investor = "-"
		}
		t.Rows = append(t.Rows, []string{
			inv.CreatedAt.Local().Format("2006-01-02"),
			inv.StartupID,
			investor,
			string(inv.Wallet),
			cli.FormatDecimal(inv.AmountUSD),
			cli.FormatPercent(inv.Equity),
			string(inv.Status),
			shortTx(inv.TxID),
		})
	}
	return t
}

func shortTx(tx string) string {
	if len(tx) > 14 {
		return tx[:8] + "..." + tx[len(tx)-4:]
	}
	return tx
}

func runInvestmentsRecord(_ *cobra.Command, _ []string) error {
	amount, err := decimal.NewFromString(flagAmount)
	if err != nil {
		return fmt.Errorf("--amount: %w", err)
	}
	wallet, err := model.ParseWallet(flagWallet)
	if err != nil {
		return err
	}

	n := payments.Notification{
		TxID:       flagTxID,
		Wallet:     wallet,
		AmountUSD:  amount,
		StartupID:  startupID(),
		InvestorID: flagInvestor,
		Equity:     flagEquity,
	}
	inv, err := n.ToInvestment(time.Now())
	if err != nil {
		return err
	}

	st, err := requireStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.SaveInvestment(inv); err != nil {
		if errors.Is(err, store.ErrDuplicateTx) {
			return fmt.Errorf("transaction %s is already recorded", inv.TxID)
		}
		return err
	}

	fmt.Printf("  Recorded %s from %s for %s (%s, id %s)\n",
		cli.FormatDecimal(inv.AmountUSD), inv.Wallet, inv.StartupID, inv.Status, inv.ID)
	return nil
}
