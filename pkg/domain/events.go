package domain

import "time"

// UpdateKind defines the category of an update.
type UpdateKind string

const (
	UpdateRunStarted      UpdateKind = "run_started"
	UpdateRunEmpty        UpdateKind = "run_empty"
	UpdateStepStarted     UpdateKind = "step_started"
	UpdateStepFinished    UpdateKind = "step_finished"
	UpdateRunCompleted    UpdateKind = "run_completed"
	UpdateOptionToggled   UpdateKind = "option_toggled"
	UpdateCategoryToggled UpdateKind = "category_toggled"
	UpdateThemeToggled    UpdateKind = "theme_toggled"
)

// Update describes one atomic state change of a session.
// Run fields (Progress, TotalSteps, Running, LogLength) always reflect the state
// right after the change, so observers never see a log line without its progress.
type Update struct {
	Seq       int        `json:"seq"`
	SessionID string     `json:"session_id,omitempty"`
	RunID     string     `json:"run_id,omitempty"`
	Kind      UpdateKind `json:"kind"`
	Timestamp time.Time  `json:"timestamp"`

	Line       string `json:"line,omitempty"`
	LogLength  int    `json:"log_length"`
	Progress   int    `json:"progress"`
	TotalSteps int    `json:"total_steps"`
	Running    bool   `json:"is_running"`

	// Step is 1-based and only set for step updates.
	Step     int         `json:"step,omitempty"`
	OptionID string      `json:"option_id,omitempty"`
	Result   *StepResult `json:"result,omitempty"`

	// Toggle payloads.
	CategoryID string `json:"category_id,omitempty"`
	Enabled    *bool  `json:"enabled,omitempty"`
	Collapsed  *bool  `json:"collapsed,omitempty"`
	Theme      string `json:"theme,omitempty"`
}

// Terminal reports whether the update ends a run.
func (u Update) Terminal() bool {
	return u.Kind == UpdateRunCompleted || u.Kind == UpdateRunEmpty
}
