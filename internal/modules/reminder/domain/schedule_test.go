package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medita/internal/modules/reminder/domain"
	apperrors "medita/internal/platform/errors"
)

func TestParseSchedule(t *testing.T) {
	t.Parallel()
	s, err := domain.ParseSchedule(true, " 07:05 ")
	require.NoError(t, err)
	assert.Equal(t, domain.Schedule{Enabled: true, Hour: 7, Minute: 5}, s)
	assert.Equal(t, "07:05", s.String())

	for _, bad := range []string{"", "7", "24:00", "12:60", "ab:cd", "12:5", "1:2:3"} {
		_, err := domain.ParseSchedule(true, bad)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), bad)
	}
}

func TestNextFire(t *testing.T) {
	t.Parallel()
	s := domain.Schedule{Enabled: true, Hour: 20, Minute: 30}
	morning := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 20, 30, 0, 0, time.UTC), s.NextFire(morning, time.UTC))

	exactly := time.Date(2024, 3, 15, 20, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 16, 20, 30, 0, 0, time.UTC), s.NextFire(exactly, time.UTC))

	newYearsEve := time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 1, 20, 30, 0, 0, time.UTC), s.NextFire(newYearsEve, time.UTC))
}

func TestNextFireUsesLocalDate(t *testing.T) {
	t.Parallel()
	tokyo := time.FixedZone("JST", 9*3600)
	s := domain.Schedule{Enabled: true, Hour: 7, Minute: 0}
	// 23:00 UTC on the 14th is 08:00 on the 15th in Tokyo, past today's fire time.
	now := time.Date(2024, 3, 14, 23, 0, 0, 0, time.UTC)
	next := s.NextFire(now, tokyo)
	assert.True(t, next.Equal(time.Date(2024, 3, 16, 7, 0, 0, 0, tokyo)))
	assert.Equal(t, "2024-03-15", domain.DayKey(now, tokyo))
}

func TestDecide(t *testing.T) {
	t.Parallel()
	s := domain.Schedule{Enabled: true, Hour: 20, Minute: 0}
	evening := time.Date(2024, 3, 15, 21, 0, 0, 0, time.UTC)
	morning := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, domain.ReasonDue, s.Decide(evening, "2024-03-14", false, time.UTC))
	assert.True(t, s.Due(evening, "", false, time.UTC))
	assert.Equal(t, domain.ReasonTooEarly, s.Decide(morning, "", false, time.UTC))
	assert.Equal(t, domain.ReasonAlreadyFired, s.Decide(evening, "2024-03-15", false, time.UTC))
	assert.Equal(t, domain.ReasonMeditated, s.Decide(evening, "", true, time.UTC))

	off := domain.Schedule{Hour: 20}
	assert.Equal(t, domain.ReasonDisabled, off.Decide(evening, "", false, time.UTC))
	assert.False(t, off.Due(evening, "", false, time.UTC))
}
