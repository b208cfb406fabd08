package match

import "strings"

// AlertKey derives the stable identity for an alert. The upstream report
// assigns no durable ID across exports, so identity is a composite of the
// fields that name "this kind of alert for this case": normalized MC
// number, alert code and alert type. Description text is deliberately
// excluded; the report rewords it between exports.
func AlertKey(mcNumber, alertCode, alertType string) string {
	return strings.Join([]string{
		NormalizeMCN(mcNumber),
		strings.TrimSpace(alertCode),
		normalizeToken(alertType),
	}, "|")
}

// normalizeToken upper-cases and collapses interior whitespace so that
// cosmetic reformatting between exports does not change identity.
func normalizeToken(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}
