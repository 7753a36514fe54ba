// Package optimistic keeps the client-side investment list and reconciles
// local, tentative creates with the store's answers.
//
// A Manager is the single owner of the list. Presentation code reads copied
// Snapshots (directly or through Subscribe) and relays intent through Load,
// Refresh, Create and Submit. At most one create is in flight at a time.
package optimistic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sheikh-saqib/farminvest/internal/apperrors"
	interfaces "github.com/sheikh-saqib/farminvest/internal/interfaces"
	"github.com/sheikh-saqib/farminvest/internal/logging"
	"github.com/sheikh-saqib/farminvest/internal/models"
	"github.com/sheikh-saqib/farminvest/internal/validation"
)

const (
	msgFetchFailed  = "failed to fetch investments"
	msgCreateFailed = "failed to create investment"
)

// Phase is the list's loading state as shown to the user.
type Phase int

const (
	PhaseUnloaded Phase = iota
	PhaseLoading
	PhaseRefreshing
	PhaseReady
	PhaseLoadFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseUnloaded:
		return "unloaded"
	case PhaseLoading:
		return "loading"
	case PhaseRefreshing:
		return "refreshing"
	case PhaseReady:
		return "ready"
	case PhaseLoadFailed:
		return "load_failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Snapshot is a copy of the manager's state at one transition.
type Snapshot struct {
	Records    []models.Record
	Phase      Phase
	LoadErr    error // last load/refresh failure, cleared by the next attempt
	CreateErr  error // last create failure, cleared by the next create
	Submitting bool  // a create is in flight
}

// IDSource issues tentative ids. Ids must never repeat within a session.
type IDSource interface {
	Next() string
}

type sessionIDs struct {
	session string
	counter atomic.Uint64
}

// NewSessionIDs returns ids of the form tmp-<session>-<n>, where session is
// random per call and n counts up from 1.
func NewSessionIDs() IDSource {
	return &sessionIDs{session: uuid.NewString()[:8]}
}

func (s *sessionIDs) Next() string {
	return fmt.Sprintf("tmp-%s-%d", s.session, s.counter.Add(1))
}

// Manager owns the visible list of investments.
type Manager struct {
	remote interfaces.RemoteStore
	now    func() time.Time
	ids    IDSource
	logger *slog.Logger

	mu        sync.Mutex
	records   []models.Record
	inFlight  string // tentative id of the outstanding create
	phase     Phase
	loading   int // outstanding loads
	loadErr   error
	createErr error

	observers    map[int]func(Snapshot)
	nextObserver int
	queue        []Snapshot
	delivering   bool
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithIDSource(ids IDSource) Option {
	return func(m *Manager) { m.ids = ids }
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// New creates a manager reconciling against remote.
func New(remote interfaces.RemoteStore, opts ...Option) *Manager {
	m := &Manager{
		remote:    remote,
		now:       time.Now,
		ids:       NewSessionIDs(),
		logger:    logging.Discard(),
		records:   []models.Record{},
		observers: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every transition, in
// transition order. fn runs outside the manager's lock and may call back
// into the manager. The returned func unregisters it.
func (m *Manager) Subscribe(fn func(Snapshot)) (cancel func()) {
	m.mu.Lock()
	id := m.nextObserver
	m.nextObserver++
	m.observers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

// Load replaces the list with the store's current contents.
func (m *Manager) Load(ctx context.Context) error {
	return m.fetch(ctx, PhaseLoading)
}

// Refresh is Load behind the pull-to-refresh affordance.
func (m *Manager) Refresh(ctx context.Context) error {
	return m.fetch(ctx, PhaseRefreshing)
}

// fetch reconciles the list with the store. On failure the previous records
// are kept. Racing fetches resolve as last response wins.
func (m *Manager) fetch(ctx context.Context, phase Phase) error {
	m.mu.Lock()
	m.loading++
	m.phase = phase
	m.loadErr = nil
	m.commitLocked()
	m.mu.Unlock()
	m.flush()

	investments, err := m.remote.ListInvestments(ctx)

	m.mu.Lock()
	m.loading--
	if err != nil {
		if !apperrors.Is(err, apperrors.CodeFetch) {
			err = apperrors.Wrap(apperrors.CodeFetch, msgFetchFailed, err)
		}
		m.loadErr = err
		if m.loading == 0 {
			m.phase = PhaseLoadFailed
		}
		m.commitLocked()
		m.mu.Unlock()
		m.flush()

		m.logger.WarnContext(ctx, "load investments failed", "phase", phase.String(), "error", err)
		return err
	}

	records := make([]models.Record, 0, len(investments)+1)
	// only the current attempt's tentative record survives a reload
	if m.inFlight != "" {
		if i := m.indexLocked(models.TentativeID(m.inFlight)); i >= 0 {
			records = append(records, m.records[i])
		}
	}
	for _, inv := range investments {
		records = append(records, models.RecordFromInvestment(inv))
	}
	sortRecords(records)
	m.records = records
	if m.loading == 0 {
		m.phase = PhaseReady
	}
	m.commitLocked()
	m.mu.Unlock()
	m.flush()

	m.logger.DebugContext(ctx, "investments loaded", "count", len(investments))
	return nil
}

// Submit runs the validation gate and, if the candidate passes, Create.
// A rejected candidate never reaches the network.
func (m *Manager) Submit(ctx context.Context, c validation.Candidate) error {
	in, err := validation.Validate(c)
	if err != nil {
		return err
	}
	return m.Create(ctx, in)
}

// Create inserts a tentative record at the head of the list, submits in to
// the store and then either swaps the tentative record for the durable one
// or removes it. It refuses to start while another create is pending.
//
// The store call is not cancelled with ctx: once submitted, an attempt runs
// to settlement, bounded by the adapter's timeout.
func (m *Manager) Create(ctx context.Context, in models.Input) error {
	m.mu.Lock()
	if m.inFlight != "" {
		m.mu.Unlock()
		return apperrors.ConcurrentMutation()
	}

	id := m.ids.Next()
	tentative := models.Record{
		ID:         models.TentativeID(id),
		FarmerName: in.FarmerName,
		Crop:       in.Crop,
		Amount:     in.Amount,
		RecordedAt: m.now(),
		Pending:    true,
	}
	m.records = slices.Insert(m.records, 0, tentative)
	m.inFlight = id
	m.createErr = nil
	m.commitLocked()
	m.mu.Unlock()
	m.flush()

	m.logger.DebugContext(ctx, "investment submitted", "tentative_id", id)

	inv, err := m.remote.CreateInvestment(context.WithoutCancel(ctx), in)

	m.mu.Lock()
	m.removeLocked(models.TentativeID(id))
	m.inFlight = ""

	if err != nil {
		createErr := createError(err)
		m.createErr = createErr
		m.commitLocked()
		m.mu.Unlock()
		m.flush()

		m.logger.WarnContext(ctx, "investment rolled back", "tentative_id", id, "error", err)
		return createErr
	}

	durable := models.RecordFromInvestment(inv)
	// a reload racing this create may already have brought the durable record in
	if m.indexLocked(durable.ID) < 0 {
		m.records = append(m.records, durable)
	}
	sortRecords(m.records)
	m.commitLocked()
	m.mu.Unlock()
	m.flush()

	m.logger.InfoContext(ctx, "investment confirmed", "tentative_id", id, "id", inv.ID)
	return nil
}

// createError turns a store failure into the user-facing CreateError,
// preferring the reason the store gave. Validation rejections read the same
// as the local gate's.
func createError(err error) error {
	msg := msgCreateFailed
	var reasonErr interfaces.ReasonError
	if errors.As(err, &reasonErr) {
		if reason, ok := reasonErr.Reason(); ok {
			if local, known := apperrors.ReasonFromWire(reason); known {
				reason = local
			}
			return apperrors.Wrap(apperrors.CodeCreate, reason, err)
		}
	}
	if apperrors.Is(err, apperrors.CodeCreate) {
		msg = apperrors.Message(err)
	}
	return apperrors.Wrap(apperrors.CodeCreate, msg, err)
}

func (m *Manager) indexLocked(id models.Identity) int {
	for i, r := range m.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) removeLocked(id models.Identity) {
	m.records = slices.DeleteFunc(m.records, func(r models.Record) bool {
		return r.ID == id
	})
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		Records:    slices.Clone(m.records),
		Phase:      m.phase,
		LoadErr:    m.loadErr,
		CreateErr:  m.createErr,
		Submitting: m.inFlight != "",
	}
}

// commitLocked queues the current state for observers.
func (m *Manager) commitLocked() {
	if len(m.observers) == 0 {
		return
	}
	m.queue = append(m.queue, m.snapshotLocked())
}

// flush delivers queued snapshots. Only one goroutine delivers at a time,
// so observers see transitions in order even when they re-enter.
func (m *Manager) flush() {
	m.mu.Lock()
	if m.delivering {
		m.mu.Unlock()
		return
	}
	m.delivering = true
	for len(m.queue) > 0 {
		snap := m.queue[0]
		m.queue = m.queue[1:]

		ids := make([]int, 0, len(m.observers))
		for id := range m.observers {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		observers := make([]func(Snapshot), 0, len(ids))
		for _, id := range ids {
			observers = append(observers, m.observers[id])
		}

		m.mu.Unlock()
		for _, fn := range observers {
			fn(snap)
		}
		m.mu.Lock()
	}
	m.delivering = false
	m.mu.Unlock()
}

// sortRecords orders pending records first, then by RecordedAt descending.
// The sort is stable so equal timestamps keep the store's order.
func sortRecords(records []models.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Pending != records[j].Pending {
			return records[i].Pending
		}
		return records[i].RecordedAt.After(records[j].RecordedAt)
	})
}
