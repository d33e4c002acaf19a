// Package daemon provides the long-running local simulation service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/payments"
	"github.com/theirongolddev/runway/internal/pipeline"
	"github.com/theirongolddev/runway/internal/source"
	"github.com/theirongolddev/runway/internal/store"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Store is the persistence the service needs. A nil Store keeps the service
// stateless: simulate still works, months and payments are rejected.
type Store interface {
	LoadMonths(startupID string) ([]model.MonthlyRecord, error)
	AppendMonth(startupID string, rec model.MonthlyRecord) (int, error)
	Startups() ([]store.StartupHistory, error)
	SaveRun(r store.RunRecord) error
	SaveInvestment(inv model.Investment) error
}

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
	// Interval is how often stored startups are re-simulated. Zero disables
	// the refresh loop.
	Interval       time.Duration
	Defaults       model.InitialState
	ForecastMonths int
	Sim            config.Simulation
	Constraints    config.InputConstraints
	Store          Store
	Logger         *zap.Logger
}

// Snapshot is a compact view of one startup's latest simulated outcome.
type Snapshot struct {
	At         time.Time   `json:"at"`
	StartupID  string      `json:"startupId"`
	Months     int         `json:"months"`
	FinalUsers int64       `json:"finalUsers"`
	FinalCash  int64       `json:"finalCash"`
	LTVCAC     model.Ratio `json:"ltvCacRatio"`
	Runway     model.Ratio `json:"runway"`
	PMFScore   float64     `json:"pmfScore"`
	Terminated bool        `json:"terminated"`
}

// Delta captures snapshot changes between refreshes.
type Delta struct {
	Months     int     `json:"months"`
	FinalUsers int64   `json:"finalUsers"`
	FinalCash  int64   `json:"finalCash"`
	PMFScore   float64 `json:"pmfScore"`
}

func (d Delta) isZero() bool {
	return d.Months == 0 &&
		d.FinalUsers == 0 &&
		d.FinalCash == 0 &&
		d.PMFScore == 0
}

// Event types.
const (
	EventRun        = "run"
	EventSnapshot   = "snapshot"
	EventDelta      = "forecast_delta"
	EventMonth      = "month_added"
	EventInvestment = "investment"
)

// Event is published for every run, stored month, payment and changed forecast.
type Event struct {
	ID         int64                `json:"id"`
	Type       string               `json:"type"`
	Timestamp  time.Time            `json:"timestamp"`
	StartupID  string               `json:"startupId,omitempty"`
	RunID      string               `json:"runId,omitempty"`
	Snapshot   *Snapshot            `json:"snapshot,omitempty"`
	Delta      *Delta               `json:"delta,omitempty"`
	Month      *model.MonthlyRecord `json:"month,omitempty"`
	Investment *model.Investment    `json:"investment,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time  `json:"startedAt"`
	LastPollAt      time.Time  `json:"lastPollAt"`
	PollIntervalSec int        `json:"pollIntervalSec"`
	PollCount       int64      `json:"pollCount"`
	Persistent      bool       `json:"persistent"`
	Runs            int64      `json:"runs"`
	Investments     int64      `json:"investments"`
	Startups        []Snapshot `json:"startups"`
	LastError       string     `json:"lastError,omitempty"`
	EventCount      int        `json:"eventCount"`
	SubscriberCount int        `json:"subscriberCount"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	log *zap.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	runs        int64
	investments int64
	lastError   string
	snapshots   map[string]Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = config.DefaultConfig().Daemon.Addr
	}
	if cfg.ForecastMonths <= 0 {
		cfg.ForecastMonths = config.DefaultConfig().General.ForecastMonths
	}
	if cfg.Sim.FundingRounds == nil {
		cfg.Sim = config.DefaultSimulation()
	}
	if cfg.Constraints.TeamSize.Max == 0 {
		cfg.Constraints = config.DefaultConstraints
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		log:       logger,
		startedAt: time.Now(),
		snapshots: make(map[string]Snapshot),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	router := chi.NewRouter()
	router.Get("/healthz", s.handleHealth)
	router.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/simulate", s.handleSimulate)
		r.Get("/startups/{id}/months", s.handleListMonths)
		r.Post("/startups/{id}/months", s.handleAppendMonth)
		r.Post("/payments", s.handlePayment)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
	})
	return router
}

// Run serves the HTTP API and refreshes stored startups until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("listening", zap.String("addr", s.cfg.Addr), zap.Bool("persistent", s.cfg.Store != nil))

	// Seed snapshots so status is useful immediately.
	s.pollOnce()

	var tick <-chan time.Time
	if s.cfg.Interval > 0 {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-tick:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// pollOnce re-simulates every stored startup with the service defaults and
// publishes the snapshots that changed.
func (s *Service) pollOnce() {
	if s.cfg.Store == nil {
		return
	}
	startups, err := s.cfg.Store.Startups()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = time.Now()
		s.pollCount++
		s.mu.Unlock()
		s.log.Warn("listing startups", zap.Error(err))
		return
	}

	for _, h := range startups {
		history, err := s.cfg.Store.LoadMonths(h.StartupID)
		if err != nil {
			s.log.Warn("loading months", zap.String("startup", h.StartupID), zap.Error(err))
			continue
		}
		run, err := pipeline.Run(pipeline.Request{
			StartupID:      h.StartupID,
			History:        history,
			Initial:        s.cfg.Defaults,
			ForecastMonths: s.cfg.ForecastMonths,
			Sim:            s.cfg.Sim,
		})
		if err != nil {
			s.log.Warn("simulating", zap.String("startup", h.StartupID), zap.Error(err))
			continue
		}
		s.recordSnapshot(snapshotFromRun(run, time.Now()))
	}

	s.mu.Lock()
	s.lastPollAt = time.Now()
	s.pollCount++
	s.lastError = ""
	s.mu.Unlock()
}

// recordSnapshot stores snap and publishes a snapshot or delta event when it
// is new or differs from the previous one.
func (s *Service) recordSnapshot(snap Snapshot) {
	s.mu.Lock()
	prev, existed := s.snapshots[snap.StartupID]
	s.snapshots[snap.StartupID] = snap
	s.mu.Unlock()

	if !existed {
		s.publish(Event{Type: EventSnapshot, StartupID: snap.StartupID, Snapshot: &snap})
		return
	}
	if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.publish(Event{Type: EventDelta, StartupID: snap.StartupID, Snapshot: &snap, Delta: &delta})
	}
}

func snapshotFromRun(run *pipeline.RunResult, at time.Time) Snapshot {
	sum := run.Summary
	return Snapshot{
		At:         at,
		StartupID:  run.StartupID,
		Months:     sum.Months,
		FinalUsers: sum.FinalUsers,
		FinalCash:  sum.FinalCash,
		LTVCAC:     sum.FinalLTVCACRatio,
		Runway:     sum.FinalRunway,
		PMFScore:   sum.FinalPMFScore,
		Terminated: run.Terminated,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Months:     curr.Months - prev.Months,
		FinalUsers: curr.FinalUsers - prev.FinalUsers,
		FinalCash:  curr.FinalCash - prev.FinalCash,
		PMFScore:   model.RoundTo(curr.PMFScore-prev.PMFScore, 2),
	}
}

// publish assigns the next event id, appends to the ring buffer and fans out
// to stream subscribers without blocking.
func (s *Service) publish(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	startups := make([]Snapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		startups = append(startups, snap)
	}
	sort.Slice(startups, func(i, j int) bool {
		return startups[i].StartupID < startups[j].StartupID
	})

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Persistent:      s.cfg.Store != nil,
		Runs:            s.runs,
		Investments:     s.investments,
		Startups:        startups,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

// SimulateRequest is the body of POST /v1/simulate. Omitted scalars take the
// service defaults; every scalar is clamped to the input constraints.
type SimulateRequest struct {
	StartupID       string          `json:"startupId,omitempty"`
	// MonthlyData uses the history wire format, so numeric strings are accepted.
	MonthlyData     json.RawMessage `json:"monthlyData,omitempty"`
	InitialUsers    *float64        `json:"initialUsers,omitempty"`
	InitialCash     *float64        `json:"initialCash,omitempty"`
	MarketSize      *float64        `json:"marketSize,omitempty"`
	InitialTeamSize *int            `json:"initialTeamSize,omitempty"`
	ForecastMonths  *int            `json:"forecastMonths,omitempty"`
}

// request resolves req into a pipeline request using cfg for omitted values.
func (req SimulateRequest) request(cfg Config) (pipeline.Request, error) {
	var history []model.MonthlyRecord
	if len(req.MonthlyData) > 0 && string(req.MonthlyData) != "null" {
		var err error
		history, err = source.DecodeJSON(req.MonthlyData)
		if err != nil {
			return pipeline.Request{}, fmt.Errorf("monthlyData: %w", err)
		}
	}

	c := cfg.Constraints
	initial := cfg.Defaults
	if req.InitialUsers != nil {
		initial.Users = *req.InitialUsers
	}
	if req.InitialCash != nil {
		initial.Cash = *req.InitialCash
	}
	if req.MarketSize != nil {
		initial.MarketSize = *req.MarketSize
	}
	if req.InitialTeamSize != nil {
		initial.TeamSize = *req.InitialTeamSize
	}
	months := cfg.ForecastMonths
	if req.ForecastMonths != nil {
		months = *req.ForecastMonths
	}

	initial.Users = c.Users.Clamp(initial.Users)
	initial.Cash = c.Cash.Clamp(initial.Cash)
	initial.MarketSize = c.MarketSize.Clamp(initial.MarketSize)
	initial.TeamSize = c.TeamSize.ClampInt(initial.TeamSize)

	return pipeline.Request{
		StartupID:      req.StartupID,
		History:        history,
		Initial:        initial,
		ForecastMonths: c.Forecast.ClampInt(months),
		Sim:            cfg.Sim,
	}, nil
}

func (s *Service) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var body SimulateRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	req, err := body.request(s.cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.History) == 0 && req.StartupID != "" && s.cfg.Store != nil {
		history, err := s.cfg.Store.LoadMonths(req.StartupID)
		if err != nil {
			s.log.Error("loading months", zap.String("startup", req.StartupID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		req.History = history
	}
	if len(req.History) == 0 {
		req.History = source.SeedHistory()
	}

	run, err := pipeline.Run(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if s.cfg.Store != nil {
		if err := s.cfg.Store.SaveRun(run.Record()); err != nil {
			s.log.Warn("saving run", zap.String("run", run.RunID), zap.Error(err))
		}
	}

	s.mu.Lock()
	s.runs++
	s.mu.Unlock()

	snap := snapshotFromRun(run, run.CreatedAt)
	s.publish(Event{Type: EventRun, StartupID: run.StartupID, RunID: run.RunID, Snapshot: &snap})
	s.log.Info("simulated",
		zap.String("run", run.RunID),
		zap.String("startup", run.StartupID),
		zap.Int("months", run.Summary.Months),
		zap.Bool("terminated", run.Terminated),
	)

	writeJSON(w, http.StatusOK, run)
}

func (s *Service) handleListMonths(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Store == nil {
		writeError(w, http.StatusServiceUnavailable, errNoStore)
		return
	}
	id := chi.URLParam(r, "id")
	months, err := s.cfg.Store.LoadMonths(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if months == nil {
		months = []model.MonthlyRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"startupId": id, "monthlyData": months})
}

func (s *Service) handleAppendMonth(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Store == nil {
		writeError(w, http.StatusServiceUnavailable, errNoStore)
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("startup id is required"))
		return
	}

	data, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rec, err := source.DecodeRecord(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding body: %w", err))
		return
	}

	seq, err := s.cfg.Store.AppendMonth(id, rec)
	if err != nil {
		s.log.Error("appending month", zap.String("startup", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if rec.MonthName == "" {
		rec.MonthName = fmt.Sprintf("Month %d", seq)
	}

	s.publish(Event{Type: EventMonth, StartupID: id, Month: &rec})
	s.log.Info("month added", zap.String("startup", id), zap.Int("seq", seq))
	writeJSON(w, http.StatusCreated, map[string]any{"startupId": id, "month": seq})
}

func (s *Service) handlePayment(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Store == nil {
		writeError(w, http.StatusServiceUnavailable, errNoStore)
		return
	}

	var n payments.Notification
	if err := decodeBody(w, r, &n); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	inv, err := n.ToInvestment(time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.cfg.Store.SaveInvestment(inv); err != nil {
		if errors.Is(err, store.ErrDuplicateTx) {
			writeError(w, http.StatusConflict, err)
			return
		}
		s.log.Error("saving investment", zap.String("tx", inv.TxID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.mu.Lock()
	s.investments++
	s.mu.Unlock()

	s.publish(Event{Type: EventInvestment, StartupID: inv.StartupID, Investment: &inv})
	s.log.Info("investment recorded",
		zap.String("id", inv.ID),
		zap.String("startup", inv.StartupID),
		zap.String("wallet", string(inv.Wallet)),
		zap.String("amount_usd", inv.AmountUSD.StringFixed(2)),
	)
	writeJSON(w, http.StatusCreated, inv)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send a comment line so clients see the stream open immediately.
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

var errNoStore = errors.New("service started without a store")

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
