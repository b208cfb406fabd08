package errors

import "fmt"

// ParseError indicates the export text could not be turned into alert
// records at all. Individually malformed records are dropped with a count
// instead; this error means the whole import must be aborted.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse alerts export: %s", e.Msg)
}

type InvalidExportMetadata struct {
	Msg string
}

func (e *InvalidExportMetadata) Error() string {
	return fmt.Sprintf("invalid alerts export file: %s", e.Msg)
}

// ExportNotFound is returned when no export file is available to import.
// Callers treat it as "nothing to do", not as a failure.
type ExportNotFound struct {
	Dir string
}

func (e *ExportNotFound) Error() string {
	if e.Dir == "" {
		return "no alerts export found"
	}
	return fmt.Sprintf("no alerts export found in %s", e.Dir)
}

// PersistenceWriteFailed indicates the store reported an unsuccessful write.
// The in-memory merge result must be discarded; nothing was imported.
type PersistenceWriteFailed struct {
	Document string
}

func (e *PersistenceWriteFailed) Error() string {
	return fmt.Sprintf("failed to write %s document; import discarded", e.Document)
}
