package ports

// Journal is the durable, process-wide diagnostic log.
// It is append-only and never read back by the orchestrator.
type Journal interface {
	Info(msg string)
	Error(msg string, err error)
}

// NopJournal discards every entry.
type NopJournal struct{}

func (NopJournal) Info(string)         {}
func (NopJournal) Error(string, error) {}
