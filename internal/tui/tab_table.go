package tui

import (
	"github.com/theirongolddev/runway/internal/cli"
)

// refreshTable re-renders the monthly table into the viewport.
func (a *App) refreshTable() {
	if a.run == nil {
		return
	}
	a.table.SetContent(cli.RenderTable(cli.MonthlyTable("", a.run.Results)))
	a.table.GotoTop()
}

// resizeTable fits the viewport to the content area.
func (a *App) resizeTable() {
	a.table.Width = a.contentWidth()
	a.table.Height = a.contentHeight() - 1
}

func (a App) renderTableTab(_ int) string {
	hint := cli.RenderMuted(" j/k scroll · * forecast month")
	return a.table.View() + "\n" + hint
}
