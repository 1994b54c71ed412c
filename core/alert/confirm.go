package alert

import (
	"context"
	"sync"
)

type ConfirmRequest struct {
	Title        string
	Body         string
	ConfirmLabel string
	CancelLabel  string
	Danger       bool
}

type ConfirmOption func(*ConfirmRequest)

func WithLabels(confirm, cancel string) ConfirmOption {
	return func(r *ConfirmRequest) {
		if confirm != "" {
			r.ConfirmLabel = confirm
		}
		if cancel != "" {
			r.CancelLabel = cancel
		}
	}
}

// Dangerous marks destructive confirmations (eg. deletes).
func Dangerous() ConfirmOption {
	return func(r *ConfirmRequest) { r.Danger = true }
}

type pendingConfirm struct {
	req      ConfirmRequest
	answer   chan bool
	resolved bool
}

// Confirm opens the confirmation modal and waits for the user's answer: true when confirmed,
// false when cancelled or dismissed, or when ctx ends first. Only one confirmation may be open;
// other requests fail with ErrConfirmationActive.
func (s *Service) Confirm(ctx context.Context, title, body string, opts ...ConfirmOption) (bool, error) {
	req := ConfirmRequest{Title: title, Body: body, ConfirmLabel: "Confirmar", CancelLabel: "Cancelar"}
	for _, opt := range opts {
		opt(&req)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrClosed
	}
	if s.pending != nil {
		s.mu.Unlock()
		return false, ErrConfirmationActive
	}
	p := &pendingConfirm{req: req, answer: make(chan bool, 1)}
	s.pending = p
	s.mu.Unlock()

	release := s.acquire()
	defer release()
	defer s.finish(p)
	s.publish("confirm")

	select {
	case ok := <-p.answer:
		return ok, nil
	case <-ctx.Done():
		if !s.resolve(p, false) {
			return <-p.answer, nil
		}
		<-p.answer
		return false, nil
	}
}

// Pending returns the open confirmation, if any.
func (s *Service) Pending() (ConfirmRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return ConfirmRequest{}, false
	}
	return s.pending.req, true
}

// Resolve answers the open confirmation. Only the first answer counts.
func (s *Service) Resolve(ok bool) bool {
	s.mu.Lock()
	p := s.pending
	s.mu.Unlock()
	if p == nil {
		return false
	}
	return s.resolve(p, ok)
}

// Cancel answers false: Escape key, backdrop click or programmatic close.
func (s *Service) Cancel() bool {
	return s.Resolve(false)
}

// Blocked reports whether the underlying view is blocked by the modal.
func (s *Service) Blocked() bool {
	return s.block.Blocked()
}

func (s *Service) resolve(p *pendingConfirm, ok bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.resolved {
		return false
	}
	p.resolved = true
	p.answer <- ok
	return true
}

func (s *Service) finish(p *pendingConfirm) {
	s.mu.Lock()
	if s.pending == p {
		s.pending = nil
	}
	s.mu.Unlock()
	s.publish("confirm closed")
}

func (s *Service) acquire() func() {
	releases := make([]func(), 0, len(s.blockers))
	for _, b := range s.blockers {
		releases = append(releases, b.Acquire())
	}
	return func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
}

// Blocker is a scoped resource held while the modal is open (blocked view, scroll lock).
// The returned release func must be safe to call more than once.
type Blocker interface {
	Acquire() (release func())
}

// BlockState is a counting Blocker.
type BlockState struct {
	mu    sync.Mutex
	count int
}

func (b *BlockState) Acquire() func() {
	b.mu.Lock()
	b.count++
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			b.count--
			b.mu.Unlock()
		})
	}
}

func (b *BlockState) Blocked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count > 0
}
