package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/casetrack/casetrack-app/casetrack/constants"
	"github.com/casetrack/casetrack-app/casetrack/models"
)

// Store persists the application's flat JSON documents on the user-selected
// data directory. Writes are atomic (temp file plus rename) so a crashed
// import never leaves a truncated document behind.
type Store struct {
	Logger logrus.FieldLogger
	Dir    string
}

// ReadAlerts loads the alerts document. A missing document is an empty
// collection, not an error. Documents written by older releases are decoded
// tolerantly; see decodeAlertDocument.
func (s *Store) ReadAlerts() ([]models.AlertRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, constants.AlertsDocument))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "could not read alerts document")
	}

	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "alerts document is not valid JSON")
	}
	return decodeAlertDocument(raw)
}

// WriteAlerts replaces the alerts document with next. The boolean mirrors
// the collaborator contract: false means nothing was persisted and the
// caller must treat the import as failed.
func (s *Store) WriteAlerts(next []models.AlertRecord) (bool, error) {
	if next == nil {
		next = []models.AlertRecord{}
	}
	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return false, errors.Wrap(err, "could not encode alerts document")
	}
	if err := s.writeDocument(constants.AlertsDocument, data); err != nil {
		return false, err
	}
	return true, nil
}

// ReadCases loads the case roster document maintained by the rest of the
// application.
func (s *Store) ReadCases() ([]models.CaseSummary, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, constants.CasesDocument))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "could not read cases document")
	}

	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "cases document is not valid JSON")
	}

	cases := make([]models.CaseSummary, 0, len(raw))
	for _, m := range raw {
		// Rosters written before the mcNumber rename stored the case number
		// under "mcn".
		if _, ok := m["mcNumber"]; !ok {
			if legacy, ok := m["mcn"]; ok {
				m["mcNumber"] = legacy
			}
		}
		var c models.CaseSummary
		if err := decodeLoose(m, &c); err != nil {
			return nil, errors.Wrap(err, "could not decode case record")
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func (s *Store) writeDocument(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.Dir, "."+name+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "could not create temp file for %s", name)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "could not write temp file for %s", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "could not close temp file for %s", name)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, name)); err != nil {
		return errors.Wrapf(err, "could not replace %s", name)
	}
	return nil
}

// decodeAlertDocument maps loosely-typed persisted records onto the current
// AlertRecord shape. Older documents stored only reportId (no id) and left
// bookkeeping fields out entirely; both still load.
func decodeAlertDocument(raw []map[string]interface{}) ([]models.AlertRecord, error) {
	alerts := make([]models.AlertRecord, 0, len(raw))
	for _, m := range raw {
		var rec models.AlertRecord
		if err := decodeLoose(m, &rec); err != nil {
			return nil, errors.Wrap(err, "could not decode alert record")
		}
		if rec.ID == "" {
			rec.ID = rec.ReportID
		}
		if rec.ReportID == "" {
			rec.ReportID = rec.ID
		}
		alerts = append(alerts, rec)
	}
	return alerts, nil
}

func decodeLoose(m map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(m)
}
