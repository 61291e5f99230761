package types

import "fmt"

// MilestoneStatus tracks an owner's work on one roadmap milestone.
type MilestoneStatus string

const (
	StatusNotStarted MilestoneStatus = "not_started"
	StatusInProgress MilestoneStatus = "in_progress"
	StatusCompleted  MilestoneStatus = "completed"
)

// ParseMilestoneStatus validates a status name.
func ParseMilestoneStatus(s string) (MilestoneStatus, error) {
	switch st := MilestoneStatus(s); st {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("invalid status %q: must be one of not_started, in_progress, completed", s)
}

// MilestoneState is the stored progress on one milestone. Timestamps are
// RFC 3339 and empty when unset.
type MilestoneState struct {
	Status      MilestoneStatus `json:"status" yaml:"status"`
	StartedAt   string          `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	CompletedAt string          `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}
