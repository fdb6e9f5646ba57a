package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"repair-insights-go/internal/dataset"
	"repair-insights-go/internal/retention"
	"repair-insights-go/internal/source"
)

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusEmpty   Status = "empty"
	StatusError   Status = "error"
)

// State is what /api/status reports.
type State struct {
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
	Records   int       `json:"records"`
	Customers int       `json:"customers"`
}

// Fetcher is satisfied by *source.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (source.Payload, error)
}

// Store holds the current snapshot. A failed reload keeps serving the
// previous one.
type Store struct {
	fetcher  Fetcher
	parser   *dataset.Parser
	engine   *retention.Engine
	location string
	log      *logrus.Entry
	now      func() time.Time

	mu    sync.RWMutex
	snap  *Snapshot
	state State
}

func NewStore(f Fetcher, p *dataset.Parser, e *retention.Engine, location string, log *logrus.Entry) *Store {
	return &Store{
		fetcher:  f,
		parser:   p,
		engine:   e,
		location: location,
		log:      log,
		now:      time.Now,
		state:    State{Status: StatusEmpty, Source: location},
	}
}

// Load fetches the configured source and replaces the snapshot. An empty
// feed installs an empty snapshot and returns dataset.ErrNoRecords.
func (s *Store) Load(ctx context.Context) error {
	s.setStatus(StatusLoading, "")
	p, err := s.fetcher.Fetch(ctx, s.location)
	if err != nil {
		s.fail(err)
		return err
	}
	return s.install(p)
}

// Replace parses an uploaded file in place of the configured source.
func (s *Store) Replace(name string, data []byte) error {
	s.setStatus(StatusLoading, "")
	return s.install(source.Sniff(name, data, s.now()))
}

func (s *Store) install(p source.Payload) error {
	var (
		res dataset.Result
		err error
	)
	switch p.Kind {
	case source.KindXLSX:
		res, err = s.parser.ParseXLSX(p.Data)
	default:
		res = s.parser.ParseCSV(p.Text())
	}
	if err != nil {
		s.fail(err)
		return err
	}

	snap := Build(res, s.engine, p.Location, s.now())
	status := StatusReady
	if snap.Empty() {
		status = StatusEmpty
	}

	s.mu.Lock()
	s.snap = snap
	s.state = State{
		Status:    status,
		Source:    p.Location,
		UpdatedAt: snap.LoadedAt,
		Records:   len(snap.Records),
		Customers: len(snap.Profiles),
	}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"source":        p.Location,
		"rows":          res.Stats.Rows,
		"kept":          res.Stats.Kept,
		"dropped_date":  res.Stats.DroppedDate,
		"dropped_blank": res.Stats.DroppedBlank,
		"dropped_phone": res.Stats.DroppedPhone,
		"customers":     len(snap.Profiles),
		"duration_ms":   snap.DurationMs,
	}).Info("dataset loaded")

	if status == StatusEmpty {
		return fmt.Errorf("%s: %w", p.Location, dataset.ErrNoRecords)
	}
	return nil
}

// Snapshot returns the current data, or false before the first load
// succeeds.
func (s *Store) Snapshot() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.snap != nil
}

// Engine is the retention engine snapshots are built with.
func (s *Store) Engine() *retention.Engine { return s.engine }

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) setStatus(st Status, msg string) {
	s.mu.Lock()
	s.state.Status = st
	s.state.Error = msg
	s.state.UpdatedAt = s.now()
	s.mu.Unlock()
}

func (s *Store) fail(err error) {
	s.setStatus(StatusError, err.Error())
	entry := s.log.WithError(err)
	if errors.Is(err, source.ErrTransport) {
		entry.Warn("dataset source unreachable")
		return
	}
	entry.Error("dataset load failed")
}
