package domain

import "time"

// StepResult is the outcome of executing one command.
// Failures are ordinary values: a failed step never aborts the run.
type StepResult struct {
	OK       bool          `json:"ok"`
	Output   string        `json:"output"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
}

// Text is the user-visible result: the output on success, the prefixed error on failure.
func (r StepResult) Text() string {
	if r.OK {
		if r.Output == "" {
			return MsgStepSucceeded
		}
		return r.Output
	}
	if r.Output == "" {
		return ErrorPrefix + MsgUnknownFailure
	}
	return ErrorPrefix + r.Output
}

// Succeeded builds a successful result from trimmed stdout.
func Succeeded(stdout string) StepResult {
	return StepResult{OK: true, Output: stdout}
}

// Failed builds a failed result from trimmed stderr (or a spawn error message).
func Failed(exitCode int, stderr string) StepResult {
	return StepResult{OK: false, Output: stderr, ExitCode: exitCode}
}
