package domain

// RestorePointID is the option that is always moved to the front of a plan when selected,
// so the restore point exists before any destructive tweak runs.
const RestorePointID = "restore_point"

// Themes understood by the presentation layer.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Log lines shown to the user.
const (
	MsgWelcome         = "Welcome to the debloat tool."
	MsgWelcomeHint     = "Select the options and start the process."
	MsgRunBanner       = "Starting debloat process..."
	MsgNothingSelected = "No options selected. Process cancelled."
	MsgRunCompleted    = "Debloat process completed."

	// MsgStepSucceeded replaces empty stdout of a successful command.
	MsgStepSucceeded = "Command executed successfully."
	// MsgUnknownFailure replaces empty stderr of a failed command.
	MsgUnknownFailure = "Unknown shell error"
	// ErrorPrefix marks a failed step in the user-visible log.
	ErrorPrefix = "Error: "

	// JournalBanner is written to the durable journal at every accepted run start.
	JournalBanner = "==================== New Debloat Session ===================="
)

// StepStartedLine is the log line emitted before a step executes.
func StepStartedLine(name string) string {
	return "Running: " + name + "..."
}

// StepResultLine is the log line emitted after a step executed.
func StepResultLine(r StepResult) string {
	return "Result: " + r.Text()
}

// WelcomeLog is the log shown before the first run of a session.
func WelcomeLog() []string {
	return []string{MsgWelcome, MsgWelcomeHint}
}
