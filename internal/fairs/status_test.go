package fairs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestEvaluateStatusManualFlagWins(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// Window is entirely in the past; the flag still wins.
	fair := &models.Fair{
		Name:      "Spring Fair",
		IsLive:    true,
		StartTime: timePtr(now.Add(-48 * time.Hour)),
		EndTime:   timePtr(now.Add(-24 * time.Hour)),
	}

	status := EvaluateStatus(fair, now)
	require.True(t, status.IsLive)
	require.Equal(t, models.StatusSourceManual, status.Source)
}

func TestEvaluateStatusScheduleWindow(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	fair := &models.Fair{Name: "Fair", StartTime: &start, EndTime: &end}

	cases := []struct {
		name string
		now  time.Time
		live bool
	}{
		{"before window", start.Add(-time.Second), false},
		{"at start", start, true},
		{"inside", start.Add(30 * time.Minute), true},
		{"at end", end, true},
		{"after window", end.Add(time.Second), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status := EvaluateStatus(fair, tc.now)
			require.Equal(t, tc.live, status.IsLive)
			if tc.live {
				require.Equal(t, models.StatusSourceSchedule, status.Source)
			} else {
				require.Equal(t, models.StatusSourceManual, status.Source)
			}
		})
	}
}

func TestEvaluateStatusNoSchedule(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fair := &models.Fair{Name: "Fair"}
	status := EvaluateStatus(fair, now)
	require.False(t, status.IsLive)
	require.Equal(t, models.StatusSourceManual, status.Source)

	// A half-specified window never makes the fair live.
	fair.StartTime = timePtr(now.Add(-time.Hour))
	status = EvaluateStatus(fair, now)
	require.False(t, status.IsLive)
}

func TestEvaluateStatusCarriesFairFields(t *testing.T) {
	fair := &models.Fair{Name: "Autumn Fair", Description: "hiring season"}
	status := EvaluateStatus(fair, time.Now())
	require.Equal(t, "Autumn Fair", status.Name)
	require.Equal(t, "hiring season", status.Description)
}
