package importer

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/casetrack/casetrack-app/casetrack/constants"
	ers "github.com/casetrack/casetrack-app/casetrack/errors"
	"github.com/casetrack/casetrack-app/casetrack/index"
	"github.com/casetrack/casetrack-app/casetrack/match"
	"github.com/casetrack/casetrack-app/casetrack/models"
	"github.com/casetrack/casetrack-app/casetrack/reconcile"
	"github.com/casetrack/casetrack-app/casetrack/report"
)

// ExportSource provides the raw alerts export blob. found is false when no
// export file currently exists; that is not an error.
type ExportSource interface {
	ReadExportText() (text string, found bool, err error)
}

// AlertStore reads and writes the persisted alert collection. WriteAlerts
// returning false is a hard failure: the merge result is discarded and the
// whole import must be retried.
type AlertStore interface {
	ReadAlerts() ([]models.AlertRecord, error)
	WriteAlerts(next []models.AlertRecord) (bool, error)
}

// Clock is injected so auto-resolution timestamps are deterministic in
// tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Result carries the merge counts, the parser's dropped-record count and
// the rebuilt index for one import run.
type Result struct {
	Merged  []models.AlertRecord
	Added   int
	Updated int
	Total   int
	Dropped int
	Index   models.AlertsIndex
}

// ImportAlerts runs the full in-memory pipeline: parse, match and key,
// reconcile against the persisted snapshot, rebuild the index. It is a pure
// function of its inputs; persistence belongs to the caller.
func ImportAlerts(text string, roster []models.CaseSummary, persisted []models.AlertRecord, now time.Time) (*Result, error) {
	parsed, err := report.Parse(text)
	if err != nil {
		return nil, err
	}

	incoming := match.MatchAndKey(parsed.Tuples, roster)
	merged := reconcile.Reconcile(incoming, persisted, now)

	return &Result{
		Merged:  merged.Merged,
		Added:   merged.Added,
		Updated: merged.Updated,
		Total:   merged.Total,
		Dropped: parsed.Dropped,
		Index:   index.Build(merged.Merged),
	}, nil
}

// Importer wires the pipeline to its collaborators. The caller must ensure
// a single in-flight import per alert collection; two concurrent runs
// computed against the same stale snapshot would race and the second
// writer would clobber the first.
type Importer struct {
	Logger logrus.FieldLogger
	Source ExportSource
	Store  AlertStore
	Clock  Clock
}

// Run performs one full read-parse-reconcile-write cycle against the given
// case roster.
func (imp Importer) Run(roster []models.CaseSummary) (*Result, error) {
	text, found, err := imp.Source.ReadExportText()
	if err != nil {
		return nil, errors.Wrap(err, "could not read alerts export")
	}
	if !found {
		imp.Logger.Info("No alerts export found, nothing to import")
		return nil, &ers.ExportNotFound{}
	}

	persisted, err := imp.Store.ReadAlerts()
	if err != nil {
		return nil, errors.Wrap(err, "could not read persisted alerts")
	}

	result, err := ImportAlerts(text, roster, persisted, imp.Clock.Now())
	if err != nil {
		return nil, err
	}
	if result.Dropped > 0 {
		imp.Logger.Warnf("Dropped %d partial or ambiguous records from alerts export", result.Dropped)
	}

	ok, err := imp.Store.WriteAlerts(result.Merged)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write alerts document")
	}
	if !ok {
		return nil, &ers.PersistenceWriteFailed{Document: constants.AlertsDocument}
	}

	imp.Logger.WithFields(logrus.Fields{
		"added":   result.Added,
		"updated": result.Updated,
		"total":   result.Total,
		"dropped": result.Dropped,
	}).Info("Successfully imported alerts from export")

	return result, nil
}
