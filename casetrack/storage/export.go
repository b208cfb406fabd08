package storage

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	ers "github.com/casetrack/casetrack-app/casetrack/errors"
	"github.com/casetrack/casetrack-app/casetrack/report"
)

// FindLatestExport walks the export drop directory and returns the
// metadata of the newest valid export by generation timestamp. Files that
// do not match the export naming convention are skipped with a count; an
// unknown file in the drop directory is not a blocker.
func FindLatestExport(dir string) (report.ExportMetadata, int, error) {
	var latest report.ExportMetadata
	var skipped int

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.Wrapf(err, "error checking export file under %s", dir)
		}
		if info.IsDir() {
			return nil
		}
		metadata, err := report.GetExportMetadata(info.Name())
		if err != nil {
			skipped++
			return nil
		}
		metadata.FilePath = path
		metadata.DeliveryDate = info.ModTime()
		if latest.FilePath == "" || metadata.Timestamp.After(latest.Timestamp) {
			latest = metadata
		}
		return nil
	})
	if err != nil {
		return report.ExportMetadata{}, skipped, err
	}
	if latest.FilePath == "" {
		return report.ExportMetadata{}, skipped, &ers.ExportNotFound{Dir: dir}
	}
	return latest, skipped, nil
}

// LocalExportSource reads the newest export from a local drop directory.
// It satisfies the importer's ExportSource collaborator.
type LocalExportSource struct {
	Logger logrus.FieldLogger
	Dir    string
}

func (src LocalExportSource) ReadExportText() (string, bool, error) {
	metadata, skipped, err := FindLatestExport(src.Dir)
	if skipped > 0 {
		src.Logger.Infof("Skipped %d unknown files in export directory %s", skipped, src.Dir)
	}
	if err != nil {
		if _, ok := err.(*ers.ExportNotFound); ok {
			return "", false, nil
		}
		return "", false, err
	}

	src.Logger.Infof("Reading alerts export %s...", metadata)

	data, err := os.ReadFile(metadata.FilePath)
	if err != nil {
		return "", false, errors.Wrapf(err, "could not read export file %s", metadata)
	}
	text, err := report.Decode(data)
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}
