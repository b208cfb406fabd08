package reconcile

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/casetrack/casetrack-app/casetrack/models"
)

func parseTime(t *testing.T, value string) time.Time {
	ts, err := time.Parse(time.RFC3339, value)
	assert.NoError(t, err)
	return ts
}

func matchedAlert(id string, status models.AlertStatus) models.AlertRecord {
	return models.AlertRecord{
		ID:            id,
		ReportID:      id,
		AlertCode:     "2001",
		AlertType:     "SAR7",
		AlertDate:     "09/15/2025",
		MCNumber:      "1B44210",
		PersonName:    "SMITH, JOHN",
		Program:       "CW",
		Source:        "CASEALERTS",
		Description:   "SAR 7 INCOMPLETE",
		Status:        status,
		MatchStatus:   models.MatchStatusMatched,
		MatchedCaseID: "case-1",
	}
}

func TestReconcileAddsNewAlerts(t *testing.T) {
	assert := assert.New(t)
	now := parseTime(t, "2025-09-30T10:00:00Z")

	incoming := []models.AlertRecord{matchedAlert("A", models.AlertStatusNew)}
	res := Reconcile(incoming, nil, now)

	assert.Equal(1, res.Added)
	assert.Equal(0, res.Updated)
	assert.Equal(1, res.Total)
	assert.Equal(now, res.Merged[0].CreatedAt)
	assert.Equal(now, res.Merged[0].UpdatedAt)
	assert.Nil(res.Merged[0].ResolvedAt)
}

func TestReconcileResolvedIsSticky(t *testing.T) {
	assert := assert.New(t)
	now := parseTime(t, "2025-09-30T10:00:00Z")
	t1 := parseTime(t, "2025-09-20T12:00:00Z")

	persisted := matchedAlert("A", models.AlertStatusResolved)
	persisted.ResolvedAt = &t1
	persisted.ResolutionNotes = "X"
	persisted.Description = "old"

	incoming := matchedAlert("A", models.AlertStatusNew)
	incoming.Description = "new text"

	res := Reconcile([]models.AlertRecord{incoming}, []models.AlertRecord{persisted}, now)

	assert.Equal(0, res.Added)
	assert.Equal(1, res.Updated)
	assert.Equal(1, res.Total)

	merged := res.Merged[0]
	assert.Equal(models.AlertStatusResolved, merged.Status)
	assert.Equal(&t1, merged.ResolvedAt)
	assert.Equal("X", merged.ResolutionNotes)
	assert.Equal("new text", merged.Description)
	assert.Equal(now, merged.UpdatedAt)
}

func TestReconcileAdoptsIncomingResolution(t *testing.T) {
	assert := assert.New(t)
	now := parseTime(t, "2025-09-30T10:00:00Z")
	t1 := parseTime(t, "2025-09-28T09:00:00Z")

	persisted := matchedAlert("A", models.AlertStatusInProgress)

	incoming := matchedAlert("A", models.AlertStatusResolved)
	incoming.ResolvedAt = &t1
	incoming.ResolutionNotes = "closed upstream"

	res := Reconcile([]models.AlertRecord{incoming}, []models.AlertRecord{persisted}, now)

	merged := res.Merged[0]
	assert.Equal(models.AlertStatusResolved, merged.Status)
	assert.Equal(&t1, merged.ResolvedAt)
	assert.Equal("closed upstream", merged.ResolutionNotes)
	assert.Equal(1, res.Updated)
}

func TestReconcileNonResolvedPrecedence(t *testing.T) {
	assert := assert.New(t)
	now := parseTime(t, "2025-09-30T10:00:00Z")
	t2 := parseTime(t, "2025-09-25T08:00:00Z")

	// A stale resolvedAt on a non-resolved persisted record must not leak
	// through.
	persisted := matchedAlert("A", models.AlertStatusNew)
	persisted.ResolvedAt = &t2

	incoming := matchedAlert("A", models.AlertStatusAcknowledged)

	res := Reconcile([]models.AlertRecord{incoming}, []models.AlertRecord{persisted}, now)

	merged := res.Merged[0]
	assert.Equal(models.AlertStatusAcknowledged, merged.Status)
	assert.Nil(merged.ResolvedAt)
	assert.Equal(1, res.Updated)
}

func TestReconcileIncomingAuthoritativeForNonResolved(t *testing.T) {
	assert := assert.New(t)
	now := parseTime(t, "2025-09-30T10:00:00Z")

	// Persisted carries a "more advanced" non-resolved status; the freshest
	// import still wins.
	persisted := matchedAlert("A", models.AlertStatusInProgress)
	incoming := matchedAlert("A", models.AlertStatusNew)

	res := Reconcile([]models.AlertRecord{incoming}, []models.AlertRecord{persisted}, now)
	assert.Equal(models.AlertStatusNew, res.Merged[0].Status)
	assert.Equal(1, res.Updated)
}

func TestReconcileAutoResolvesDisappearedAlerts(t *testing.T) {
	assert := assert.New(t)
	now := parseTime(t, "2025-09-30T10:00:00Z")

	persisted := matchedAlert("A", models.AlertStatusInProgress)

	res := Reconcile(nil, []models.AlertRecord{persisted}, now)

	assert.Equal(0, res.Added)
	assert.Equal(1, res.Updated)
	assert.Equal(1, res.Total)

	merged := res.Merged[0]
	assert.Equal(models.AlertStatusResolved, merged.Status)
	assert.Equal(now, *merged.ResolvedAt)
	assert.Equal(now, merged.UpdatedAt)
}

func TestReconcileLeavesUnmatchedAndResolvedAlone(t *testing.T) {
	assert := assert.New(t)
	now := parseTime(t, "2025-09-30T10:00:00Z")
	t1 := parseTime(t, "2025-09-20T12:00:00Z")

	resolved := matchedAlert("A", models.AlertStatusResolved)
	resolved.ResolvedAt = &t1

	unmatched := matchedAlert("B", models.AlertStatusNew)
	unmatched.MatchStatus = models.MatchStatusUnmatched
	unmatched.MatchedCaseID = ""

	res := Reconcile(nil, []models.AlertRecord{resolved, unmatched}, now)

	assert.Equal(0, res.Added)
	assert.Equal(0, res.Updated)
	assert.Equal(2, res.Total)
	assert.Equal(&t1, res.Merged[0].ResolvedAt)
	assert.Equal(models.AlertStatusNew, res.Merged[1].Status)
}

func TestReconcileDedupPrefersResolved(t *testing.T) {
	assert := assert.New(t)
	now := parseTime(t, "2025-09-30T10:00:00Z")

	first := matchedAlert("A", models.AlertStatusNew)
	second := matchedAlert("A", models.AlertStatusResolved)

	res := Reconcile([]models.AlertRecord{first, second}, nil, now)

	assert.Equal(1, res.Total)
	assert.Equal(models.AlertStatusResolved, res.Merged[0].Status)
	assert.NotNil(res.Merged[0].ResolvedAt)
}

func TestReconcileDedupPrefersLatest(t *testing.T) {
	assert := assert.New(t)
	now := parseTime(t, "2025-09-30T10:00:00Z")

	older := matchedAlert("A", models.AlertStatusNew)
	older.AlertDate = "09/10/2025"
	older.Description = "older"

	newer := matchedAlert("A", models.AlertStatusNew)
	newer.AlertDate = "09/20/2025"
	newer.Description = "newer"

	res := Reconcile([]models.AlertRecord{older, newer}, nil, now)
	assert.Equal(1, res.Total)
	assert.Equal("newer", res.Merged[0].Description)
}

func TestReconcileIdempotence(t *testing.T) {
	assert := assert.New(t)
	t1 := parseTime(t, "2025-09-30T10:00:00Z")
	t2 := parseTime(t, "2025-09-30T11:00:00Z")

	incoming := []models.AlertRecord{
		matchedAlert("A", models.AlertStatusNew),
		matchedAlert("B", models.AlertStatusNew),
	}

	first := Reconcile(incoming, nil, t1)
	assert.Equal(2, first.Added)

	second := Reconcile(incoming, first.Merged, t2)
	assert.Equal(0, second.Added)
	assert.Equal(0, second.Updated)
	assert.Empty(cmp.Diff(first.Merged, second.Merged))
}

func TestReconcileUnchangedRecordNotCounted(t *testing.T) {
	assert := assert.New(t)
	t1 := parseTime(t, "2025-09-30T10:00:00Z")
	t2 := parseTime(t, "2025-09-30T11:00:00Z")

	incoming := matchedAlert("A", models.AlertStatusNew)
	first := Reconcile([]models.AlertRecord{incoming}, nil, t1)

	second := Reconcile([]models.AlertRecord{incoming}, first.Merged, t2)
	assert.Equal(0, second.Updated)
	// UpdatedAt only moves when an observable field changed.
	assert.Equal(t1, second.Merged[0].UpdatedAt)
}

func TestReconcileSampleScenario(t *testing.T) {
	assert := assert.New(t)
	now := parseTime(t, "2025-09-30T10:00:00Z")
	t1 := parseTime(t, "2025-09-20T12:00:00Z")

	persisted := matchedAlert("A", models.AlertStatusResolved)
	persisted.MCNumber = "12345"
	persisted.ResolvedAt = &t1
	persisted.Description = "old"

	incoming := matchedAlert("A", models.AlertStatusNew)
	incoming.MCNumber = "12345"
	incoming.Description = "new text"

	res := Reconcile([]models.AlertRecord{incoming}, []models.AlertRecord{persisted}, now)

	assert.Equal(0, res.Added)
	assert.Equal(1, res.Updated)
	assert.Equal(1, res.Total)
	assert.Equal(models.AlertStatusResolved, res.Merged[0].Status)
	assert.Equal("2025-09-20T12:00:00Z", res.Merged[0].ResolvedAt.Format(time.RFC3339))
	assert.Equal("new text", res.Merged[0].Description)
}

func TestApplyStatusUpdate(t *testing.T) {
	assert := assert.New(t)
	now := parseTime(t, "2025-09-30T10:00:00Z")
	later := parseTime(t, "2025-09-30T12:00:00Z")

	rec := matchedAlert("A", models.AlertStatusNew)

	rec = ApplyStatusUpdate(rec, models.AlertStatusResolved, "done", now)
	assert.Equal(models.AlertStatusResolved, rec.Status)
	assert.Equal(now, *rec.ResolvedAt)
	assert.Equal("done", rec.ResolutionNotes)

	// Re-resolving keeps the original resolution timestamp.
	rec = ApplyStatusUpdate(rec, models.AlertStatusResolved, "done again", later)
	assert.Equal(now, *rec.ResolvedAt)
	assert.Equal("done again", rec.ResolutionNotes)

	rec = ApplyStatusUpdate(rec, models.AlertStatusInProgress, "", later)
	assert.Equal(models.AlertStatusInProgress, rec.Status)
	assert.Nil(rec.ResolvedAt)
	assert.Equal(later, rec.UpdatedAt)
}
