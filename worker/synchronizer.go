package worker

import "sync"

// Synchronizer is the rendezvous object shared by a group of Workers. It
// counts participants as they come up, collects one clean/unclean vote per
// participant at shutdown, and provides the two barriers of the
// graceful-shutdown rendezvous: all-voted-clean and all-ready-to-stop.
//
// The participant count is not fixed up front; whichever workers are
// started against the synchronizer before shutdown are the group. The
// synchronizer must outlive every participant. Reset is legal only while
// no participant goroutine is alive.
//
// All state lives behind one mutex. The barriers wait on a broadcast
// channel that is recycled on every mutation, so waiters wake exactly when
// the state they are watching can have changed.
type Synchronizer struct {
	mu      sync.Mutex
	started int
	ready   int
	votes   []bool
	changed chan struct{}
}

// NewSynchronizer creates an empty Synchronizer.
func NewSynchronizer() *Synchronizer {
	return &Synchronizer{changed: make(chan struct{})}
}

// broadcast wakes every barrier waiter. Callers must hold mu.
func (s *Synchronizer) broadcast() {
	close(s.changed)
	s.changed = make(chan struct{})
}

// Reset clears both counts and the vote list for a fresh run. The caller
// is responsible for ensuring no participant goroutine is alive.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = 0
	s.ready = 0
	s.votes = nil
	s.broadcast()
}

// AnnounceStarted records one participant reaching its running phase.
// Each participant announces exactly once, before it can vote; every
// announced participant must eventually vote, or the vote barrier has no
// way to complete.
func (s *Synchronizer) AnnounceStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
	s.broadcast()
}

// SubmitCleanVote appends one participant's shutdown vote: true for a clean
// stop (stop signal observed), false for an unclean one. Returns
// ErrVoteOverflow if every announced participant has already voted.
func (s *Synchronizer) SubmitCleanVote(clean bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.votes) >= s.started {
		return ErrVoteOverflow
	}
	s.votes = append(s.votes, clean)
	s.broadcast()
	return nil
}

// AwaitAllCleanVotes blocks until the vote is decided. It returns false as
// soon as any recorded vote is unclean, without waiting for the remaining
// voters; this is what keeps a clean worker from blocking forever in a
// graceful shutdown a peer has already declined. It returns true once every
// announced participant has voted clean.
func (s *Synchronizer) AwaitAllCleanVotes() bool {
	for {
		s.mu.Lock()
		for _, clean := range s.votes {
			if !clean {
				s.mu.Unlock()
				return false
			}
		}
		if len(s.votes) == s.started {
			s.mu.Unlock()
			return true
		}
		ch := s.changed
		s.mu.Unlock()
		<-ch
	}
}

// AnnounceReadyToStop records one participant reaching the second barrier.
// Returns ErrReadyOverflow if every announced participant is already ready.
func (s *Synchronizer) AnnounceReadyToStop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready >= s.started {
		return ErrReadyOverflow
	}
	s.ready++
	s.broadcast()
	return nil
}

// AwaitAllReadyToStop blocks until every announced participant has
// announced ready.
func (s *Synchronizer) AwaitAllReadyToStop() {
	for {
		s.mu.Lock()
		if s.ready == s.started {
			s.mu.Unlock()
			return
		}
		ch := s.changed
		s.mu.Unlock()
		<-ch
	}
}

// Counts returns the current started and ready counts. Primarily for tests.
func (s *Synchronizer) Counts() (started, ready int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started, s.ready
}

// Votes returns a copy of the recorded votes in submission order.
// Primarily for tests.
func (s *Synchronizer) Votes() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bool, len(s.votes))
	copy(out, s.votes)
	return out
}
