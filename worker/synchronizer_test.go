package worker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchronizer_AllCleanVotes(t *testing.T) {
	s := NewSynchronizer()
	s.AnnounceStarted()
	s.AnnounceStarted()

	require.NoError(t, s.SubmitCleanVote(true))

	done := make(chan bool, 1)
	go func() { done <- s.AwaitAllCleanVotes() }()

	// The barrier must hold while one vote is outstanding.
	select {
	case <-done:
		t.Fatal("barrier released before all votes were in")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, s.SubmitCleanVote(true))
	select {
	case allClean := <-done:
		assert.True(t, allClean)
	case <-time.After(waitLimit):
		t.Fatal("barrier did not release")
	}
}

func TestSynchronizer_EarlyFalseOnUncleanVote(t *testing.T) {
	s := NewSynchronizer()
	s.AnnounceStarted()
	s.AnnounceStarted()
	s.AnnounceStarted()

	require.NoError(t, s.SubmitCleanVote(true))
	require.NoError(t, s.SubmitCleanVote(false))

	// One vote still outstanding, but the unclean vote decides the barrier.
	done := make(chan bool, 1)
	go func() { done <- s.AwaitAllCleanVotes() }()
	select {
	case allClean := <-done:
		assert.False(t, allClean)
	case <-time.After(waitLimit):
		t.Fatal("barrier did not release early on unclean vote")
	}
}

func TestSynchronizer_VoteOverflow(t *testing.T) {
	s := NewSynchronizer()
	s.AnnounceStarted()

	require.NoError(t, s.SubmitCleanVote(true))
	assert.ErrorIs(t, s.SubmitCleanVote(true), ErrVoteOverflow)
}

func TestSynchronizer_ReadyBarrier(t *testing.T) {
	s := NewSynchronizer()
	s.AnnounceStarted()
	s.AnnounceStarted()

	require.NoError(t, s.AnnounceReadyToStop())

	done := make(chan struct{})
	go func() {
		s.AwaitAllReadyToStop()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("ready barrier released before all participants announced")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, s.AnnounceReadyToStop())
	select {
	case <-done:
	case <-time.After(waitLimit):
		t.Fatal("ready barrier did not release")
	}

	assert.ErrorIs(t, s.AnnounceReadyToStop(), ErrReadyOverflow)
}

func TestSynchronizer_Reset(t *testing.T) {
	s := NewSynchronizer()
	s.AnnounceStarted()
	require.NoError(t, s.SubmitCleanVote(false))
	require.NoError(t, s.AnnounceReadyToStop())

	s.Reset()
	started, ready := s.Counts()
	assert.Zero(t, started)
	assert.Zero(t, ready)
	assert.Empty(t, s.Votes())

	// A fresh run over the reset synchronizer behaves like a first run.
	s.AnnounceStarted()
	require.NoError(t, s.SubmitCleanVote(true))
	assert.True(t, s.AwaitAllCleanVotes())
}

// Two workers sharing a synchronizer, both looping, external flag raised:
// both vote clean, both pass the graceful phase, both tear down.
func TestGroup_CleanShutdown(t *testing.T) {
	s := NewSynchronizer()
	var stop Flag

	a := &FuncRunner{RunnerName: "a"}
	b := &FuncRunner{RunnerName: "b"}
	wa := New(a, TestOptions(nil)...)
	wb := New(b, TestOptions(nil)...)

	require.NoError(t, wa.Start(&stop, s))
	require.NoError(t, wb.Start(&stop, s))

	started, _ := s.Counts()
	assert.Equal(t, 2, started)

	stop.Set()
	RequireStoppedWithin(t, wa, waitLimit)
	RequireStoppedWithin(t, wb, waitLimit)
	wa.Stop()
	wb.Stop()

	assert.Equal(t, []bool{true, true}, s.Votes())
	assert.Equal(t, int32(1), a.StopImminentCalls.Load())
	assert.Equal(t, int32(1), b.StopImminentCalls.Load())
	assert.Equal(t, int32(1), a.TeardownCalls.Load())
	assert.Equal(t, int32(1), b.TeardownCalls.Load())

	_, ready := s.Counts()
	assert.Equal(t, 2, ready)
}

// One worker exits uncleanly mid-run: the clean peer's barrier returns
// false, the graceful phase is skipped for everyone, both tear down.
func TestGroup_UncleanPeerSkipsGracefulPhase(t *testing.T) {
	s := NewSynchronizer()
	var stop Flag

	a := &FuncRunner{RunnerName: "a"}
	a.TickFunc = func() bool { return a.TickCalls.Load() < 2 }
	b := &FuncRunner{RunnerName: "b"}

	wa := New(a, TestOptions(nil)...)
	wb := New(b, TestOptions(nil)...)
	require.NoError(t, wa.Start(&stop, s))
	require.NoError(t, wb.Start(&stop, s))

	// A exits on its own; B keeps running until the external flag rises.
	RequireStoppedWithin(t, wa, waitLimit)
	time.Sleep(20 * time.Millisecond)
	stop.Set()
	RequireStoppedWithin(t, wb, waitLimit)
	wa.Stop()
	wb.Stop()

	votes := s.Votes()
	require.Len(t, votes, 2)
	assert.Contains(t, votes, false)
	assert.Contains(t, votes, true)

	assert.Zero(t, a.StopImminentCalls.Load())
	assert.Zero(t, b.StopImminentCalls.Load())
	assert.Equal(t, int32(1), a.TeardownCalls.Load())
	assert.Equal(t, int32(1), b.TeardownCalls.Load())

	_, ready := s.Counts()
	assert.Zero(t, ready)
}

// A worker whose Setup fails never becomes a participant, so a peer that
// reaches the vote barrier afterwards is not left waiting on a vote that
// will never arrive.
func TestGroup_SetupFailureDoesNotStarveBarrier(t *testing.T) {
	s := NewSynchronizer()
	var stop Flag

	good := &FuncRunner{RunnerName: "good"}
	bad := &FuncRunner{
		RunnerName: "bad",
		SetupFunc:  func() error { return errors.New("no descriptor") },
	}

	wg := New(good, TestOptions(nil)...)
	wb := New(bad, TestOptions(nil)...)
	require.NoError(t, wg.Start(&stop, s))
	require.ErrorIs(t, wb.Start(&stop, s), ErrSetupFailed)

	started, _ := s.Counts()
	assert.Equal(t, 1, started)

	stop.Set()
	RequireStoppedWithin(t, wg, waitLimit)
	wg.Stop()

	assert.Equal(t, []bool{true}, s.Votes())
	assert.Equal(t, int32(1), good.StopImminentCalls.Load())
	assert.Equal(t, int32(1), good.TeardownCalls.Load())
}

// A reset synchronizer drives a second run identically to the first.
func TestGroup_ResetBetweenRuns(t *testing.T) {
	s := NewSynchronizer()

	for run := 0; run < 2; run++ {
		var stop Flag
		r := &FuncRunner{RunnerName: "looper"}
		w := New(r, TestOptions(nil)...)
		require.NoError(t, w.Start(&stop, s))

		stop.Set()
		RequireStoppedWithin(t, w, waitLimit)
		w.Stop()

		assert.Equal(t, []bool{true}, s.Votes())
		assert.Equal(t, int32(1), r.StopImminentCalls.Load())
		s.Reset()
	}
}
