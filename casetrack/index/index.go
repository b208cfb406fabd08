package index

import "github.com/casetrack/casetrack-app/casetrack/models"

// Build projects a flat alert collection into the queryable index the rest
// of the application consumes. It performs no merging and never mutates its
// input; it may be invoked on demand purely for display.
func Build(alerts []models.AlertRecord) models.AlertsIndex {
	idx := models.AlertsIndex{
		AlertsByCaseID: make(map[string][]models.AlertRecord),
	}

	for _, a := range alerts {
		idx.Summary.Total++
		switch a.MatchStatus {
		case models.MatchStatusMatched:
			idx.Summary.Matched++
			idx.AlertsByCaseID[a.MatchedCaseID] = append(idx.AlertsByCaseID[a.MatchedCaseID], a)
		case models.MatchStatusMissingMCN:
			idx.Summary.MissingMCN++
			idx.MissingMCN = append(idx.MissingMCN, a)
		default:
			// Records from documents predating match classification carry no
			// matchStatus; they are surfaced as unmatched rather than hidden.
			idx.Summary.Unmatched++
			idx.Unmatched = append(idx.Unmatched, a)
		}
	}
	return idx
}

// FilterOpen returns the subset of alerts still open for caseworker
// attention, leaving the underlying collection untouched.
func FilterOpen(alerts []models.AlertRecord) []models.AlertRecord {
	open := make([]models.AlertRecord, 0, len(alerts))
	for _, a := range alerts {
		if a.Status != models.AlertStatusResolved {
			open = append(open, a)
		}
	}
	return open
}
