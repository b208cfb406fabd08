package models

import "time"

// AlertStatus is the caseworker-facing lifecycle of an alert.
type AlertStatus string

const (
	AlertStatusNew          AlertStatus = "new"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusInProgress   AlertStatus = "in-progress"
	AlertStatusResolved     AlertStatus = "resolved"
)

// MatchStatus classifies how an alert was linked to the local case roster.
type MatchStatus string

const (
	MatchStatusMatched    MatchStatus = "matched"
	MatchStatusUnmatched  MatchStatus = "unmatched"
	MatchStatusMissingMCN MatchStatus = "missing-mcn"
)

// RawAlertTuple is the ephemeral output of one report parse pass. It carries
// no identity; identity is derived later by the keyer.
type RawAlertTuple struct {
	DueDate     string
	MCNumber    string
	PersonName  string
	Program     string
	AlertType   string
	Description string
	AlertCode   string
}

// CaseSummary is the slice of a locally tracked case needed for matching.
type CaseSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	MCNumber string `json:"mcNumber"`
}

// AlertRecord is the durable alert entity persisted in the alerts document.
// ID/ReportID are derived from normalized MC number, alert code and alert
// type and are immutable once assigned; the upstream report provides no
// durable identifier of its own.
type AlertRecord struct {
	ID       string `json:"id"`
	ReportID string `json:"reportId"`

	AlertCode   string            `json:"alertCode"`
	AlertType   string            `json:"alertType"`
	AlertDate   string            `json:"alertDate"`
	MCNumber    string            `json:"mcNumber"`
	PersonName  string            `json:"personName"`
	Program     string            `json:"program"`
	Region      string            `json:"region,omitempty"`
	State       string            `json:"state,omitempty"`
	Source      string            `json:"source"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`

	// Workflow fields. ResolvedAt is non-nil if and only if Status is
	// resolved; the reconciler enforces the pairing.
	Status          AlertStatus `json:"status"`
	ResolvedAt      *time.Time  `json:"resolvedAt"`
	ResolutionNotes string      `json:"resolutionNotes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Match fields are recomputed on every import; the MCN linkage is loose,
	// not a hard foreign key.
	MatchStatus       MatchStatus `json:"matchStatus"`
	MatchedCaseID     string      `json:"matchedCaseId,omitempty"`
	MatchedCaseName   string      `json:"matchedCaseName,omitempty"`
	MatchedCaseStatus string      `json:"matchedCaseStatus,omitempty"`
}

// AlertSummary holds the per-match-status counts for a set of alerts.
type AlertSummary struct {
	Total      int `json:"total"`
	Matched    int `json:"matched"`
	Unmatched  int `json:"unmatched"`
	MissingMCN int `json:"missingMcn"`
}

// AlertsIndex is the queryable projection over a flat alert collection
// consumed by the rest of the application.
type AlertsIndex struct {
	Summary        AlertSummary             `json:"summary"`
	AlertsByCaseID map[string][]AlertRecord `json:"alertsByCaseId"`
	Unmatched      []AlertRecord            `json:"unmatched"`
	MissingMCN     []AlertRecord            `json:"missingMcn"`
}
