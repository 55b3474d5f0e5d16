package fairs

import (
	"time"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
)

// Clock supplies "now" for the liveness window check; injected so tests
// can pin time.
type Clock func() time.Time

// EvaluateStatus computes whether a fair is currently live. Strict
// precedence: the manual isLive flag wins unconditionally, even outside
// any scheduled window; otherwise a fully specified [start, end] window
// containing now (inclusive on both ends) makes the fair live with
// source "schedule". The not-live source stays "manual" for
// compatibility with existing clients; it means "no rule made the fair
// live", not that a human toggled it off.
func EvaluateStatus(fair *models.Fair, now time.Time) models.FairStatus {
	status := models.FairStatus{
		Name:        fair.Name,
		Description: fair.Description,
		Source:      models.StatusSourceManual,
	}
	if fair.IsLive {
		status.IsLive = true
		return status
	}
	if fair.StartTime != nil && fair.EndTime != nil &&
		!now.Before(*fair.StartTime) && !now.After(*fair.EndTime) {
		status.IsLive = true
		status.Source = models.StatusSourceSchedule
	}
	return status
}
