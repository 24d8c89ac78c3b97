package out

import (
	"context"
	"time"

	reminderout "medita/internal/modules/reminder/port/out"
	sessiondto "medita/internal/modules/session/dto"
	sessionin "medita/internal/modules/session/port/in"
)

type SessionProbe struct {
	sessions sessionin.Usecase
}

func NewSessionProbe(sessions sessionin.Usecase) reminderout.ActivityProbe {
	return &SessionProbe{sessions: sessions}
}

func (p *SessionProbe) MeditatedBetween(ctx context.Context, from, to time.Time) (bool, error) {
	items, err := p.sessions.List(ctx, sessiondto.ListInput{From: from, To: to})
	if err != nil {
		return false, err
	}
	return len(items) > 0, nil
}
