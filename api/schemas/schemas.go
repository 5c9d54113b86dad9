// File: api/schemas/schemas.go
package schemas

// CopaUsage is one observed use of a CO-PA field in ABAP source, produced by
// the upstream extractor. Immutable once decoded from the request body.
type CopaUsage struct {
	Table              string   `json:"table"`
	TargetType         string   `json:"target_type"`
	TargetName         string   `json:"target_name"`
	UsedFields         []string `json:"used_fields"`
	SuggestedFields    []string `json:"suggested_fields"`
	SuggestedStatement string   `json:"suggested_statement"`
	Snippet            string   `json:"snippet,omitempty"`
}

// CodeUnit is one ABAP unit (function, form, method, ...) under review.
// CopaUsage may be empty when the extractor found no CO-PA access.
type CodeUnit struct {
	PgmName   string      `json:"pgm_name"`
	IncName   string      `json:"inc_name"`
	Type      string      `json:"type"`
	Name      string      `json:"name"`
	CopaUsage []CopaUsage `json:"copa_usage"`
}

// Issue labels emitted by the rule scanner. The strings are part of the API
// surface; downstream tooling matches on them verbatim.
const (
	IssueInitialCheck = "Initial value check on RKEOBJNR/ProfitabilitySegment"
	IssueOldCDSField  = "Old CDS field ProfitabilitySegment used"
)

// Finding is a single flagged issue from the rule pre-scan. Findings exist
// only inside the per-unit pipeline; they are serialized into the prompt and
// never persisted.
type Finding struct {
	Issue  string `json:"issue"`
	Reason string `json:"reason"`
}

// UnitAnalysis is the scanner's structured summary of one unit, interpolated
// into the user prompt so the model sees the pre-scan verdict alongside the
// raw usage records.
type UnitAnalysis struct {
	Program  string    `json:"program"`
	Include  string    `json:"include"`
	UnitType string    `json:"unit_type"`
	UnitName string    `json:"unit_name"`
	Flags    []Finding `json:"flags"`
}

// AssessmentResult is the model's structured reply. Both fields default to
// the empty string when absent or non-string in the reply; the model is
// trusted but not schema-validated beyond the top-level JSON parse.
type AssessmentResult struct {
	Assessment string `json:"assessment"`
	LLMPrompt  string `json:"llm_prompt"`
}

// OutputRecord is the per-unit API response: the unit's public metadata
// (minus its usage list) plus the assessment texts. Error is populated only
// in best-effort mode, for units whose upstream call failed.
type OutputRecord struct {
	PgmName    string `json:"pgm_name"`
	IncName    string `json:"inc_name"`
	Type       string `json:"type"`
	Name       string `json:"name"`
	Assessment string `json:"assessment"`
	LLMPrompt  string `json:"llm_prompt"`
	Error      string `json:"error,omitempty"`
}
