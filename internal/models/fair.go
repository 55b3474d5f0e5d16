package models

import "time"

// Fair is a career fair: the top-level scoping entity. It becomes
// visible to non-administrators when live, either by the manual flag or
// by falling inside the scheduled window.
type Fair struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	IsLive      bool       `json:"isLive"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	InviteCode  string     `json:"inviteCode,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedBy   string     `json:"createdBy"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	UpdatedBy   string     `json:"updatedBy"`
}

// Public returns a copy safe for non-administrator responses: the
// invite code is the enrollment credential and never leaves admin
// surfaces.
func (f Fair) Public() Fair {
	f.InviteCode = ""
	return f
}

// StatusSource says which rule made a fair live.
const (
	StatusSourceManual   = "manual"
	StatusSourceSchedule = "schedule"
)

// FairStatus is the liveness evaluation result.
type FairStatus struct {
	IsLive      bool   `json:"isLive"`
	Source      string `json:"source"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
