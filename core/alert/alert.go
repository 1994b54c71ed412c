// Package alert is the process-wide notification service: transient toasts and a single
// modal confirmation.
package alert

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/events"
)

type Severity string

// Severities
const (
	Info    Severity = "info"
	Success Severity = "success"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// auto-close delays
const (
	DefaultDuration = 4 * time.Second
	ErrorDuration   = 6 * time.Second
)

var (
	ErrConfirmationActive = errors.New("ya hay una confirmación abierta")
	ErrClosed             = errors.New("servicio de alertas cerrado")
)

type Toast struct {
	ID        uint64
	Title     string
	Body      string
	Severity  Severity
	Duration  time.Duration
	AutoClose bool
	CreatedAt time.Time
}

type Option func(*Toast)

// WithDuration overrides the auto-close delay.
func WithDuration(d time.Duration) Option {
	return func(t *Toast) { t.Duration = d }
}

// WithoutAutoClose keeps the toast until it is dismissed.
func WithoutAutoClose() Option {
	return func(t *Toast) { t.AutoClose = false }
}

type Service struct {
	mu       sync.Mutex
	nextID   uint64
	toasts   []Toast
	timers   map[uint64]*time.Timer
	pending  *pendingConfirm
	closed   bool
	block    BlockState
	blockers []Blocker
	bus      *events.Bus
}

type ServiceOption func(*Service)

// WithBlocker adds b to the blockers acquired while a confirmation is open.
func WithBlocker(b Blocker) ServiceOption {
	return func(s *Service) { s.blockers = append(s.blockers, b) }
}

func New(bus *events.Bus, opts ...ServiceOption) *Service {
	s := &Service{
		timers: make(map[uint64]*time.Timer),
		bus:    bus,
	}
	s.blockers = []Blocker{&s.block}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify enqueues a toast and returns its id. Unless disabled, the toast is removed after
// its duration (4s, 6s for errors).
func (s *Service) Notify(title, body string, sev Severity, opts ...Option) uint64 {
	t := Toast{
		Title:     title,
		Body:      body,
		Severity:  sev,
		Duration:  DefaultDuration,
		AutoClose: true,
		CreatedAt: time.Now(),
	}
	if sev == Error {
		t.Duration = ErrorDuration
	}
	for _, opt := range opts {
		opt(&t)
	}

	s.mu.Lock()
	s.nextID++
	t.ID = s.nextID
	s.toasts = append(s.toasts, t)
	if t.AutoClose && !s.closed {
		id := t.ID
		s.timers[id] = time.AfterFunc(t.Duration, func() { s.Dismiss(id) })
	}
	s.mu.Unlock()

	s.publish("notify")
	return t.ID
}

// Dismiss removes the toast id now. It reports whether the toast was still shown.
func (s *Service) Dismiss(id uint64) bool {
	s.mu.Lock()
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
	idx := -1
	for i, t := range s.toasts {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.toasts = append(s.toasts[:idx], s.toasts[idx+1:]...)
	s.mu.Unlock()

	s.publish("dismiss")
	return true
}

// Toasts returns the shown toasts in insertion order.
func (s *Service) Toasts() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Toast(nil), s.toasts...)
}

// Close stops every pending timer and cancels the open confirmation, if any.
// Toasts shown at that point stay until dismissed.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	p := s.pending
	s.mu.Unlock()

	if p != nil {
		s.resolve(p, false)
	}
}

func (s *Service) publish(detail string) {
	s.bus.Publish(events.Event{Source: events.Alerts, Detail: detail})
}
