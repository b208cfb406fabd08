package match

import (
	"strings"
	"unicode"

	"github.com/casetrack/casetrack-app/casetrack/constants"
	"github.com/casetrack/casetrack-app/casetrack/models"
)

// NormalizeMCN strips every non-alphanumeric character and upper-cases the
// remainder. Both sides of a lookup are normalized before comparison;
// upstream pads MC numbers with dashes and spaces inconsistently.
func NormalizeMCN(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// MatchAndKey links each parsed tuple to a known case and assigns the
// derived identity key. Workflow fields default to a fresh record: status
// new, no resolution. When two roster cases carry the same normalized MC
// number the first by input order wins.
func MatchAndKey(tuples []models.RawAlertTuple, roster []models.CaseSummary) []models.AlertRecord {
	byMCN := make(map[string]models.CaseSummary, len(roster))
	for _, c := range roster {
		mcn := NormalizeMCN(c.MCNumber)
		if mcn == "" {
			continue
		}
		if _, ok := byMCN[mcn]; !ok {
			byMCN[mcn] = c
		}
	}

	records := make([]models.AlertRecord, 0, len(tuples))
	for _, t := range tuples {
		rec := models.AlertRecord{
			AlertCode:   t.AlertCode,
			AlertType:   t.AlertType,
			AlertDate:   t.DueDate,
			MCNumber:    t.MCNumber,
			PersonName:  t.PersonName,
			Program:     t.Program,
			Source:      constants.AlertSource,
			Description: t.Description,
			Metadata: map[string]string{
				"dueDate":     t.DueDate,
				"mcNumber":    t.MCNumber,
				"personName":  t.PersonName,
				"program":     t.Program,
				"alertType":   t.AlertType,
				"description": t.Description,
				"alertCode":   t.AlertCode,
			},
			Status:     models.AlertStatusNew,
			ResolvedAt: nil,
		}

		mcn := NormalizeMCN(t.MCNumber)
		if mcn == "" {
			rec.MatchStatus = models.MatchStatusMissingMCN
		} else if c, ok := byMCN[mcn]; ok {
			rec.MatchStatus = models.MatchStatusMatched
			rec.MatchedCaseID = c.ID
			rec.MatchedCaseName = c.Name
			rec.MatchedCaseStatus = c.Status
		} else {
			rec.MatchStatus = models.MatchStatusUnmatched
		}

		key := AlertKey(t.MCNumber, t.AlertCode, t.AlertType)
		rec.ID = key
		rec.ReportID = key

		records = append(records, rec)
	}
	return records
}
