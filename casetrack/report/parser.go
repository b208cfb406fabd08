package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	ers "github.com/casetrack/casetrack-app/casetrack/errors"
	"github.com/casetrack/casetrack-app/casetrack/models"
)

// The export is a printed, paginated report serialized verbatim: quoted,
// comma-separated cells with embedded newlines, interleaved with page
// banners, office headers, run timestamps and section totals. Alert records
// are recognized by shape, not position in the file: a due date cell, an
// MC-number-shaped cell, a person name, a program, an alert type, a free
// text description and a numeric alert code, in that order.
const recordWidth = 7

// ParseResult is the outcome of a single parse pass. Dropped counts
// candidate records that led with a due date but never completed the
// expected shape; they are discarded, never fabricated.
type ParseResult struct {
	Tuples  []models.RawAlertTuple
	Dropped int
}

var (
	dueDatePattern   = regexp.MustCompile(`^\d{1,2}/\d{1,2}/(\d{2}|\d{4})$`)
	timestampPattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}/(\d{2}|\d{4})\s+\d{1,2}:\d{2}(:\d{2})?\s*([AP]M)?$`)
	alertCodePattern = regexp.MustCompile(`^\d{3,5}$`)
	mcNumberPattern  = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z-]{3,11}$`)
	pageBannerWords  = regexp.MustCompile(`(?i)^(page(\s+\d+)?(\s+of(\s+\d+)?)?|of|report date|run date|county of .*|[a-z\s]*department( of [a-z\s]+)?|alerts due report.*)$`)
	totalsPattern    = regexp.MustCompile(`(?i)^total[s]?\s*:?\s*\d*$`)
	digitPattern     = regexp.MustCompile(`\d`)
	letterPattern    = regexp.MustCompile(`[A-Za-z]`)
)

// Parse turns one raw export blob into an ordered sequence of alert tuples.
// It is a pure function of its input; identical input yields an identical
// sequence. An export with no recognizable alert content yields an empty
// result, not an error.
func Parse(text string) (*ParseResult, error) {
	result := &ParseResult{}
	if strings.TrimSpace(text) == "" {
		return result, nil
	}

	cells, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	candidates := 0
	i := 0
	for i < len(cells) {
		if i+recordWidth <= len(cells) && looksLikeRecord(cells[i:i+recordWidth]) {
			candidates++
			result.Tuples = append(result.Tuples, tupleFrom(cells[i:i+recordWidth]))
			i += recordWidth
			continue
		}
		if isDueDate(cells[i]) {
			// A date-led run that never completes the record shape, e.g. a
			// record split by a mid-page artifact the noise filter missed.
			candidates++
			result.Dropped++
		}
		i++
	}

	if candidates > 0 && len(result.Tuples) == 0 {
		return nil, &ers.ParseError{
			Msg: fmt.Sprintf("found %d alert-shaped candidates but none could be parsed", candidates),
		}
	}
	return result, nil
}

// tokenize splits the blob into trimmed cells with quoted-field semantics:
// commas and newlines inside quotes are literal. Noise cells (page banners,
// totals, run timestamps, headers, blanks) are removed so that a page break
// in the middle of a printed record does not split it.
func tokenize(text string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var cells []string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ers.ParseError{
				Msg: fmt.Sprintf("report text could not be tokenized: %s", err),
			}
		}
		for _, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" || isNoise(cell) {
				continue
			}
			cells = append(cells, cell)
		}
	}
	return cells, nil
}

func isNoise(cell string) bool {
	if timestampPattern.MatchString(cell) {
		return true
	}
	if totalsPattern.MatchString(cell) {
		return true
	}
	return pageBannerWords.MatchString(cell)
}

func looksLikeRecord(w []string) bool {
	return isDueDate(w[0]) &&
		isMCNumberCell(w[1]) &&
		isPersonName(w[2]) &&
		isProgram(w[3]) &&
		isAlertType(w[4]) &&
		w[5] != "" && !isDueDate(w[5]) &&
		isAlertCode(w[6])
}

func isDueDate(cell string) bool {
	return dueDatePattern.MatchString(cell)
}

// isMCNumberCell accepts an MC-number-shaped token or one of the
// placeholders the report prints when a case number is absent. Placeholder
// records surface downstream as missing-mcn, never as a fabricated match.
func isMCNumberCell(cell string) bool {
	if isMCNPlaceholder(cell) {
		return true
	}
	if isDueDate(cell) || isAlertCode(cell) {
		return false
	}
	return mcNumberPattern.MatchString(cell) && digitPattern.MatchString(cell)
}

func isMCNPlaceholder(cell string) bool {
	switch strings.ToUpper(cell) {
	case "", "-", "--", "N/A", "NONE", "UNKNOWN":
		return true
	}
	return false
}

func isPersonName(cell string) bool {
	return letterPattern.MatchString(cell) &&
		!digitPattern.MatchString(cell) &&
		!isAlertCode(cell)
}

func isProgram(cell string) bool {
	if len(cell) > 24 || !letterPattern.MatchString(cell) || digitPattern.MatchString(cell) {
		return false
	}
	return true
}

func isAlertType(cell string) bool {
	return letterPattern.MatchString(cell) && !isDueDate(cell)
}

func isAlertCode(cell string) bool {
	return alertCodePattern.MatchString(cell)
}

func tupleFrom(w []string) models.RawAlertTuple {
	mcn := w[1]
	if isMCNPlaceholder(mcn) {
		mcn = ""
	}
	return models.RawAlertTuple{
		DueDate:     w[0],
		MCNumber:    mcn,
		PersonName:  w[2],
		Program:     w[3],
		AlertType:   w[4],
		Description: w[5],
		AlertCode:   w[6],
	}
}
