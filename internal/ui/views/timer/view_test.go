package timer_test

import (
	"context"
	"strings"
	"testing"
	"time"

	sessiondto "medita/internal/modules/session/dto"
	timerview "medita/internal/ui/views/timer"
)

type stubTimerPort struct{}

func (stubTimerPort) GetActive(context.Context) (sessiondto.ActiveSessionOutput, error) {
	return sessiondto.ActiveSessionOutput{}, nil
}

func TestStartTimeRendersInConfiguredZone(t *testing.T) {
	t.Parallel()
	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	m := timerview.New(stubTimerPort{}, 20, plusTwo)
	m, _ = m.Update(timerview.ActiveLoadedMsg{Active: sessiondto.ActiveSessionOutput{
		SessionID:      "s1",
		StartedAt:      time.Date(2024, 3, 14, 6, 5, 0, 0, time.UTC),
		PlannedSeconds: 1200,
	}})
	if !m.HasActive() {
		t.Fatalf("expected a running timer")
	}
	view := m.View()
	if !strings.Contains(view, "08:05") {
		t.Fatalf("start time not shown in configured zone:\n%s", view)
	}
}
