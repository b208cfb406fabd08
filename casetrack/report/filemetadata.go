package report

import (
	"fmt"
	"regexp"
	"time"

	"github.com/casetrack/casetrack-app/casetrack/constants"
	ers "github.com/casetrack/casetrack-app/casetrack/errors"
	"github.com/casetrack/casetrack-app/casetrack/utils"
	"github.com/casetrack/casetrack-app/conf"
	"github.com/pkg/errors"
)

// ExportMetadata is parsed from an export filename found in the drop
// directory. The reporting system re-exports on a schedule; the newest
// timestamp wins.
type ExportMetadata struct {
	Name         string
	Timestamp    time.Time
	FilePath     string
	DeliveryDate time.Time
}

func (m ExportMetadata) String() string {
	if m.FilePath != "" {
		return m.FilePath
	}
	return m.Name
}

// Export filename convention: CASEALERTS.RPT.Dyymmdd.Thhmmss with an
// optional csv/txt extension.
var exportNameRegexp = regexp.MustCompile(`^CASEALERTS\.RPT\.(D\d{6}\.T\d{6})(?:\.(?i:csv|txt))?$`)

// GetExportMetadata validates an export filename and extracts its
// generation timestamp. Exports older than ALERTS_EXPORT_MAX_AGE days
// (compared against ALERTS_REF_DATE when set) are rejected; a stale export
// reconciled as current would auto-resolve alerts that are still open.
func GetExportMetadata(filename string) (ExportMetadata, error) {
	var metadata ExportMetadata

	matches := exportNameRegexp.FindStringSubmatch(filename)
	if len(matches) < 2 {
		return metadata, &ers.InvalidExportMetadata{Msg: fmt.Sprintf("invalid filename for alerts export: %s", filename)}
	}

	t, err := time.Parse(constants.ExportTimeFormat, matches[1])
	if err != nil || t.IsZero() {
		return metadata, errors.Wrapf(err, "failed to parse date '%s' from export filename: %s", matches[1], filename)
	}

	maxFileDays := utils.GetEnvInt("ALERTS_EXPORT_MAX_AGE", 45)
	refDateString := conf.GetEnv("ALERTS_REF_DATE")
	refDate, err := time.Parse("060102", refDateString)
	if err != nil {
		refDate = time.Now()
	}

	filesNotBefore := refDate.Add(-1 * time.Duration(int64(maxFileDays*24)*int64(time.Hour)))
	filesNotAfter := refDate
	if t.Before(filesNotBefore) || t.After(filesNotAfter) {
		return metadata, &ers.InvalidExportMetadata{
			Msg: fmt.Sprintf("date '%s' from export %s out of range; comparison date %s", matches[1], filename, refDate.Format("060102")),
		}
	}

	metadata.Name = filename
	metadata.Timestamp = t
	return metadata, nil
}
