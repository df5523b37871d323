package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"financeiro/internal/cache"
	"financeiro/internal/core"
	"financeiro/internal/log"
	"financeiro/internal/metrics"
	"financeiro/internal/persistence"
	"financeiro/internal/state"
	"financeiro/internal/syncstatus"
)

var (
	ErrNothingToSweep = errors.New("month has no surplus to move")
	ErrNotLoaded      = errors.New("document not loaded yet")
)

// SessionConfig holds the session's tunables.
type SessionConfig struct {
	// Path is the logical document path (default: persistence.DefaultPath).
	Path string

	// WriteTimeout bounds every background push (default: 10s).
	WriteTimeout time.Duration
}

// Session is the single writer of the household document. Mutations are
// applied to the in-memory store first and pushed to the backend in the
// background; documents delivered by the backend replace local state.
type Session struct {
	store   *state.Store
	reducer *state.Reducer
	backend persistence.Store
	status  *syncstatus.Tracker
	metrics *metrics.Metrics
	logger  *log.Logger
	cfg     SessionConfig

	ready     chan struct{}
	readyOnce sync.Once

	// applyMu orders local mutations against adoption of deliveries.
	applyMu sync.Mutex
	writeMu sync.Mutex
	pushSeq atomic.Uint64
	writes  pendingWrites
}

// pendingWrites counts background pushes and lets callers wait for the
// count to drop to zero.
type pendingWrites struct {
	mu   sync.Mutex
	n    int
	idle chan struct{}
}

func (p *pendingWrites) add() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.n == 0 {
		p.idle = make(chan struct{})
	}
	p.n++
}

func (p *pendingWrites) done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n--
	if p.n == 0 {
		close(p.idle)
	}
}

func (p *pendingWrites) wait(ctx context.Context) error {
	p.mu.Lock()
	if p.n == 0 {
		p.mu.Unlock()
		return nil
	}
	idle := p.idle
	p.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewSession wires a session. m may be nil.
func NewSession(
	backend persistence.Store,
	reducer *state.Reducer,
	status *syncstatus.Tracker,
	m *metrics.Metrics,
	logger *log.Logger,
	cfg SessionConfig,
) *Session {
	if cfg.Path == "" {
		cfg.Path = persistence.DefaultPath
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if status == nil {
		status = syncstatus.New(0)
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Session{
		store:   state.NewStore(),
		reducer: reducer,
		backend: backend,
		status:  status,
		metrics: m,
		logger:  logger.WithComponent(log.ComponentSession),
		cfg:     cfg,
		ready:   make(chan struct{}),
	}
}

// Run follows the backend until ctx is done. The first delivery decides the
// initial document.
func (s *Session) Run(ctx context.Context) error {
	err := s.backend.Watch(ctx, s.cfg.Path, func(d persistence.Delivery) {
		s.adopt(ctx, d)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch %s: %w", s.cfg.Path, err)
	}
	return nil
}

// Ready is closed once the first document has been adopted.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// Loaded reports whether the initial load decision has been made.
func (s *Session) Loaded() bool {
	return s.store.Loaded()
}

// Status returns the background write status.
func (s *Session) Status() syncstatus.Status {
	return s.status.Status()
}

// Flush waits for background pushes to finish or ctx to end.
func (s *Session) Flush(ctx context.Context) error {
	return s.writes.wait(ctx)
}

// adopt replaces local state with a delivered document, last write wins.
// Once loaded, the delivery only signals a change: adopt waits for this
// session's own pushes and takes whatever the store holds afterwards, so a
// delivery overtaken by a newer local write never rolls local state back.
func (s *Session) adopt(ctx context.Context, d persistence.Delivery) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	if s.store.Loaded() {
		var ok bool
		if d, ok = s.latest(ctx, d); !ok {
			return
		}
		if d.Present && s.matchesSnapshot(d.Doc) {
			s.logger.DebugContext(ctx, "Delivery matches local state", log.FieldBytes, len(d.Doc))
			return
		}
	}
	res := s.reducer.Resolve(d.Doc, d.Present)
	if res.Err != nil {
		s.logger.WarnContext(ctx, "Stored document unreadable, using default",
			log.FieldShape, res.Shape, log.FieldBytes, len(d.Doc), log.FieldError, res.Err)
	}
	s.store.Adopt(res.State)
	if s.metrics != nil {
		s.metrics.Adoptions.Inc()
		s.metrics.LoadShapes.WithLabelValues(string(res.Shape)).Inc()
	}
	s.observe(res.State)
	s.logger.DebugContext(ctx, "Adopted document",
		log.FieldShape, res.Shape, log.FieldRevision, s.store.Revision())

	// A default document only exists in memory; store it so every reader
	// converges on the same ids.
	if res.Shape == state.ShapeDefault {
		s.push(res.State)
	}
	s.readyOnce.Do(func() { close(s.ready) })
}

// mutate applies fn to the current document and pushes the result.
func (s *Session) mutate(ctx context.Context, op string, year, month int, fn func(core.AppState) (core.AppState, error)) (core.AppState, error) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	if !s.store.Loaded() {
		return core.AppState{}, ErrNotLoaded
	}
	doc, err := s.store.Apply(fn)
	if err != nil {
		return core.AppState{}, err
	}
	if s.metrics != nil {
		s.metrics.Mutations.WithLabelValues(op).Inc()
	}
	s.observe(doc)
	log.NewStructuredLogger(s.logger).LogMutation(ctx, op, year, month)

	s.push(doc)
	return doc, nil
}

// push writes doc in the background. A push that has been superseded by a
// newer one before it got the write lock is dropped; failures are reported
// through the sync status only.
func (s *Session) push(doc core.AppState) {
	if len(doc.Years) == 0 {
		return
	}
	body, err := json.Marshal(doc)
	if err != nil {
		s.logger.Error("Failed to encode document", log.FieldError, err)
		return
	}

	seq := s.pushSeq.Add(1)
	s.status.Begin()
	s.writes.add()
	go func() {
		defer s.writes.done()
		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		if seq != s.pushSeq.Load() {
			s.status.Done(nil)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
		defer cancel()

		start := time.Now()
		err := s.backend.Put(ctx, s.cfg.Path, body)
		s.status.Done(err)
		if s.metrics != nil {
			s.metrics.WriteDuration.Observe(time.Since(start).Seconds())
			result := metrics.ResultOK
			if err != nil {
				result = metrics.ResultError
			}
			s.metrics.Writes.WithLabelValues(result).Inc()
		}
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to write document",
				log.FieldDocPath, s.cfg.Path, log.FieldOperation, log.OpWrite, log.FieldError, err)
		}
	}()
}

// latest waits for pending pushes and re-reads the stored document. A
// failed read falls back to the delivery.
func (s *Session) latest(ctx context.Context, d persistence.Delivery) (persistence.Delivery, bool) {
	if err := s.writes.wait(ctx); err != nil {
		return d, false
	}
	doc, ok, err := s.backend.Get(ctx, s.cfg.Path)
	if err != nil {
		s.logger.WarnContext(ctx, "Re-read of delivered document failed",
			log.FieldDocPath, s.cfg.Path, log.FieldError, err)
		return d, true
	}
	return persistence.Delivery{Doc: doc, Present: ok}, true
}

// matchesSnapshot reports whether raw encodes exactly the current local
// document, in which case adopting it would change nothing.
func (s *Session) matchesSnapshot(raw []byte) bool {
	local, err := json.Marshal(s.store.Snapshot())
	if err != nil {
		return false
	}
	return cache.Digest(local) == cache.Digest(raw)
}

func (s *Session) observe(doc core.AppState) {
	if s.metrics == nil {
		return
	}
	s.metrics.Reserve.Set(doc.Reserve)
	s.metrics.Years.Set(float64(len(doc.Years)))
}
