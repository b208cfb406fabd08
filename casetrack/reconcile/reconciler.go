package reconcile

import (
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/casetrack/casetrack-app/casetrack/models"
)

// Result summarizes one reconciliation pass. Total is always
// len(Merged); Added and Updated count only observable changes, so running
// the reconciler a second time against its own output yields zeros.
type Result struct {
	Merged  []models.AlertRecord
	Added   int
	Updated int
	Total   int
}

// Reconcile merges a freshly parsed and matched alert set against the
// previously persisted collection.
//
// The precedence rules, in order:
//   - resolved is sticky: a prior human resolution is never overwritten by
//     a stale incoming "new"; if only incoming is resolved, its resolution
//     is adopted.
//   - for two non-resolved statuses the incoming side wins; the freshest
//     import is the live view of non-terminal workflow state.
//   - descriptive fields always refresh from incoming regardless of
//     workflow status; the import is authoritative for what the alert
//     currently says.
//   - a matched, non-resolved persisted alert whose key is absent from
//     incoming is auto-resolved at now; upstream drops an alert from the
//     export once it is externally closed.
func Reconcile(incoming, persisted []models.AlertRecord, now time.Time) Result {
	var res Result

	deduped := dedupIncoming(incoming)

	persistedByKey := make(map[string]models.AlertRecord, len(persisted))
	for _, p := range persisted {
		if _, ok := persistedByKey[p.ID]; !ok {
			persistedByKey[p.ID] = p
		}
	}

	consumed := make(map[string]bool, len(deduped))
	merged := make([]models.AlertRecord, 0, len(deduped)+len(persisted))

	for _, inc := range deduped {
		prev, known := persistedByKey[inc.ID]
		if !known {
			rec := inc
			rec.CreatedAt = now
			rec.UpdatedAt = now
			enforceResolutionPairing(&rec, now)
			merged = append(merged, rec)
			res.Added++
			continue
		}
		consumed[inc.ID] = true
		next, changed := mergeRecords(prev, inc, now)
		if changed {
			res.Updated++
		}
		merged = append(merged, next)
	}

	carried := make(map[string]bool, len(persisted))
	for _, p := range persisted {
		// A hand-edited document can violate key uniqueness; only the first
		// occurrence is carried forward.
		if consumed[p.ID] || carried[p.ID] {
			continue
		}
		carried[p.ID] = true
		if p.MatchStatus == models.MatchStatusMatched && p.Status != models.AlertStatusResolved {
			p.Status = models.AlertStatusResolved
			resolvedAt := now
			p.ResolvedAt = &resolvedAt
			p.UpdatedAt = now
			res.Updated++
		}
		merged = append(merged, p)
	}

	res.Merged = merged
	res.Total = len(merged)
	return res
}

// dedupIncoming collapses equal-key records within one import batch. The
// parser can emit the same printed record twice when the report
// re-paginates; such collisions are the same logical alert, not two alerts.
// Within a group a resolved record wins, else the one with the latest
// updatedAt/alertDate.
func dedupIncoming(incoming []models.AlertRecord) []models.AlertRecord {
	byKey := make(map[string]int, len(incoming))
	out := make([]models.AlertRecord, 0, len(incoming))

	for _, rec := range incoming {
		idx, seen := byKey[rec.ID]
		if !seen {
			byKey[rec.ID] = len(out)
			out = append(out, rec)
			continue
		}
		if prefer(rec, out[idx]) {
			out[idx] = rec
		}
	}
	return out
}

// prefer reports whether candidate should replace current in a dedup group.
func prefer(candidate, current models.AlertRecord) bool {
	candidateResolved := candidate.Status == models.AlertStatusResolved
	currentResolved := current.Status == models.AlertStatusResolved
	if candidateResolved != currentResolved {
		return candidateResolved
	}
	return recordTime(candidate).After(recordTime(current))
}

func recordTime(rec models.AlertRecord) time.Time {
	if !rec.UpdatedAt.IsZero() {
		return rec.UpdatedAt
	}
	return parseAlertDate(rec.AlertDate)
}

var alertDateLayouts = []string{"01/02/2006", "1/2/2006", "01/02/06", "1/2/06", "2006-01-02"}

func parseAlertDate(s string) time.Time {
	for _, layout := range alertDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// mergeRecords combines one persisted record with its incoming counterpart.
// The returned record preserves identity and createdAt from the persisted
// side; changed reports whether any observable field differs from what was
// stored.
func mergeRecords(prev, inc models.AlertRecord, now time.Time) (models.AlertRecord, bool) {
	next := prev

	next.AlertCode = inc.AlertCode
	next.AlertType = inc.AlertType
	next.AlertDate = inc.AlertDate
	next.MCNumber = inc.MCNumber
	next.PersonName = inc.PersonName
	next.Program = inc.Program
	next.Region = inc.Region
	next.State = inc.State
	next.Source = inc.Source
	next.Description = inc.Description
	next.Metadata = inc.Metadata
	next.MatchStatus = inc.MatchStatus
	next.MatchedCaseID = inc.MatchedCaseID
	next.MatchedCaseName = inc.MatchedCaseName
	next.MatchedCaseStatus = inc.MatchedCaseStatus

	switch {
	case prev.Status == models.AlertStatusResolved:
		// Keep the persisted resolution record untouched.
		next.Status = prev.Status
		next.ResolvedAt = prev.ResolvedAt
		next.ResolutionNotes = prev.ResolutionNotes
	case inc.Status == models.AlertStatusResolved:
		next.Status = models.AlertStatusResolved
		next.ResolvedAt = inc.ResolvedAt
		next.ResolutionNotes = inc.ResolutionNotes
	default:
		next.Status = inc.Status
		next.ResolvedAt = nil
	}
	enforceResolutionPairing(&next, now)

	changed := !cmp.Equal(next, prev)
	if changed {
		next.UpdatedAt = now
	}
	return next, changed
}

// enforceResolutionPairing keeps the invariant that resolvedAt is non-nil
// exactly when status is resolved.
func enforceResolutionPairing(rec *models.AlertRecord, now time.Time) {
	if rec.Status == models.AlertStatusResolved {
		if rec.ResolvedAt == nil {
			resolvedAt := now
			rec.ResolvedAt = &resolvedAt
		}
		return
	}
	rec.ResolvedAt = nil
}

// ApplyStatusUpdate is the explicit user-facing status transition. It lives
// here so every mutation of workflow fields goes through the same
// resolved/resolvedAt pairing rule the reconciler enforces.
func ApplyStatusUpdate(rec models.AlertRecord, status models.AlertStatus, notes string, now time.Time) models.AlertRecord {
	if status == models.AlertStatusResolved {
		rec.ResolutionNotes = notes
		if rec.Status != models.AlertStatusResolved || rec.ResolvedAt == nil {
			resolvedAt := now
			rec.ResolvedAt = &resolvedAt
		}
	} else {
		rec.ResolvedAt = nil
	}
	rec.Status = status
	rec.UpdatedAt = now
	return rec
}
