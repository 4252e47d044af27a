package ticker

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func collect() (func(time.Time), chan time.Time) {
	ch := make(chan time.Time, 16)
	return func(now time.Time) { ch <- now }, ch
}

func expectTick(t *testing.T, ch <-chan time.Time) time.Time {
	t.Helper()
	select {
	case now := <-ch:
		return now
	case <-time.After(2 * time.Second):
		t.Fatal("expected a tick")
	}
	return time.Time{}
}

func expectNoTick(t *testing.T, ch <-chan time.Time) {
	t.Helper()
	select {
	case now := <-ch:
		t.Fatalf("unexpected tick at %v", now)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSourceTicksAtInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	onTick, ticks := collect()
	src := New(clock, onTick)
	defer src.Stop()

	src.SetInterval(50 * time.Millisecond)
	clock.Advance(50 * time.Millisecond)

	got := expectTick(t, ticks)
	if !got.Equal(clock.Now()) {
		t.Errorf("tick at %v, want %v", got, clock.Now())
	}
	if !src.Last().Equal(got) {
		t.Errorf("Last() = %v, want %v", src.Last(), got)
	}
}

func TestSourceNoIntervalStopsTicking(t *testing.T) {
	clock := clockwork.NewFakeClock()
	onTick, ticks := collect()
	src := New(clock, onTick)
	defer src.Stop()

	src.SetInterval(50 * time.Millisecond)
	clock.Advance(50 * time.Millisecond)
	last := expectTick(t, ticks)

	src.SetInterval(0)
	clock.Advance(time.Second)
	expectNoTick(t, ticks)

	if got := src.Interval(); got != 0 {
		t.Errorf("Interval() = %v, want 0", got)
	}
	if !src.Last().Equal(last) {
		t.Errorf("Last() = %v, want final reading %v", src.Last(), last)
	}
}

func TestSourceSameIntervalKeepsCadence(t *testing.T) {
	clock := clockwork.NewFakeClock()
	onTick, ticks := collect()
	src := New(clock, onTick)
	defer src.Stop()

	src.SetInterval(50 * time.Millisecond)
	clock.Advance(30 * time.Millisecond)
	src.SetInterval(50 * time.Millisecond)
	clock.Advance(20 * time.Millisecond)

	expectTick(t, ticks)
}

func TestSourceIntervalChangeTakesEffect(t *testing.T) {
	clock := clockwork.NewFakeClock()
	onTick, ticks := collect()
	src := New(clock, onTick)
	defer src.Stop()

	src.SetInterval(50 * time.Millisecond)
	src.SetInterval(200 * time.Millisecond)

	clock.Advance(50 * time.Millisecond)
	expectNoTick(t, ticks)

	clock.Advance(150 * time.Millisecond)
	expectTick(t, ticks)
}

func TestSourceNowUpdatesLast(t *testing.T) {
	clock := clockwork.NewFakeClock()
	src := New(clock, nil)

	clock.Advance(3 * time.Second)
	now := src.Now()

	if !now.Equal(clock.Now()) {
		t.Errorf("Now() = %v, want %v", now, clock.Now())
	}
	if !src.Last().Equal(now) {
		t.Errorf("Last() = %v, want %v", src.Last(), now)
	}
}

func TestSourceStopIsFinal(t *testing.T) {
	clock := clockwork.NewFakeClock()
	onTick, ticks := collect()
	src := New(clock, onTick)

	src.SetInterval(50 * time.Millisecond)
	src.Stop()
	src.SetInterval(50 * time.Millisecond)

	clock.Advance(time.Second)
	expectNoTick(t, ticks)
}
