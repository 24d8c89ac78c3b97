package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"medita/internal/modules/reminder/domain"
	"medita/internal/modules/reminder/service"
	"medita/internal/platform/clock"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent int
	err  error
}

func (f *fakeNotifier) Notify(string, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent++
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent
}

type fakeProbe struct {
	meditated bool
	from, to  time.Time
}

func (f *fakeProbe) MeditatedBetween(_ context.Context, from, to time.Time) (bool, error) {
	f.from, f.to = from, to
	return f.meditated, nil
}

type memoryState struct {
	last string
}

func (m *memoryState) LastFired(context.Context) (string, error) { return m.last, nil }
func (m *memoryState) MarkFired(_ context.Context, day string) error {
	m.last = day
	return nil
}

var evening = time.Date(2024, 3, 15, 20, 15, 0, 0, time.UTC)

func newService(enabled bool, notifier *fakeNotifier, probe *fakeProbe, state *memoryState) *service.ReminderService {
	schedule := domain.Schedule{Enabled: enabled, Hour: 20, Minute: 0}
	return service.NewReminderService(schedule, time.UTC, clock.Fixed{At: evening}, notifier, probe, state, zerolog.Nop())
}

func TestCheckFiresOncePerDay(t *testing.T) {
	t.Parallel()
	notifier, probe, state := &fakeNotifier{}, &fakeProbe{}, &memoryState{}
	svc := newService(true, notifier, probe, state)

	fired, reason, err := svc.Check(context.Background())
	if err != nil || !fired || reason != domain.ReasonDue {
		t.Fatalf("expected reminder to fire, got %v %s %v", fired, reason, err)
	}
	if state.last != "2024-03-15" || notifier.sent != 1 {
		t.Fatalf("unexpected state %q / sent %d", state.last, notifier.sent)
	}
	if !probe.from.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) || !probe.to.Equal(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("probe should cover the local day, got %s..%s", probe.from, probe.to)
	}

	fired, reason, _ = svc.Check(context.Background())
	if fired || reason != domain.ReasonAlreadyFired || notifier.sent != 1 {
		t.Fatalf("second check must not fire again: %v %s", fired, reason)
	}
}

func TestCheckSkipsWhenMeditatedOrDisabled(t *testing.T) {
	t.Parallel()
	notifier := &fakeNotifier{}
	svc := newService(true, notifier, &fakeProbe{meditated: true}, &memoryState{})
	if fired, reason, _ := svc.Check(context.Background()); fired || reason != domain.ReasonMeditated {
		t.Fatalf("expected meditated skip, got %v %s", fired, reason)
	}
	off := newService(false, notifier, &fakeProbe{}, &memoryState{})
	if fired, reason, _ := off.Check(context.Background()); fired || reason != domain.ReasonDisabled {
		t.Fatalf("expected disabled skip, got %v %s", fired, reason)
	}
	if notifier.sent != 0 {
		t.Fatalf("nothing should be sent")
	}
}

func TestCheckDoesNotMarkStateWhenNotifyFails(t *testing.T) {
	t.Parallel()
	state := &memoryState{}
	svc := newService(true, &fakeNotifier{err: errors.New("no dbus")}, &fakeProbe{}, state)
	if _, _, err := svc.Check(context.Background()); err == nil {
		t.Fatalf("notify failure must surface")
	}
	if state.last != "" {
		t.Fatalf("failed reminder must be retried, state=%q", state.last)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()
	notifier := &fakeNotifier{}
	svc := newService(true, notifier, &fakeProbe{}, &memoryState{}).WithRecheck(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	deadline := time.After(5 * time.Second)
	for notifier.count() == 0 {
		select {
		case <-deadline:
			t.Fatalf("run never checked")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not stop after cancel")
	}
}

func TestRunReturnsImmediatelyWhenDisabled(t *testing.T) {
	t.Parallel()
	svc := newService(false, &fakeNotifier{}, &fakeProbe{}, &memoryState{})
	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("disabled run: %v", err)
	}
}
