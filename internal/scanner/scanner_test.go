// File: internal/scanner/scanner_test.go
package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RatnakarVise/db-rule-3320010-assess-llm/api/schemas"
)

func unitWithStatements(stmts ...string) schemas.CodeUnit {
	u := schemas.CodeUnit{
		PgmName: "ZP1",
		IncName: "ZI1",
		Type:    "FORM",
		Name:    "F1",
	}
	for _, s := range stmts {
		u.CopaUsage = append(u.CopaUsage, schemas.CopaUsage{
			Table:              "CE1",
			TargetType:         "field",
			TargetName:         "RKEOBJNR",
			UsedFields:         []string{"RKEOBJNR"},
			SuggestedFields:    []string{"RKEOBJNR"},
			SuggestedStatement: s,
		})
	}
	return u
}

func TestScan(t *testing.T) {
	tests := []struct {
		name       string
		statements []string
		wantIssues []string
	}{
		{
			name:       "empty_usage_list",
			statements: nil,
			wantIssues: nil,
		},
		{
			name:       "initial_check_on_rkeobjnr",
			statements: []string{"IF RKEOBJNR IS INITIAL."},
			wantIssues: []string{schemas.IssueInitialCheck},
		},
		{
			name:       "not_initial_check_on_rkeobjnr",
			statements: []string{"IF RKEOBJNR IS NOT INITIAL."},
			wantIssues: []string{schemas.IssueInitialCheck},
		},
		{
			name:       "old_cds_field",
			statements: []string{"SELECT ProfitabilitySegment FROM I_View."},
			wantIssues: []string{schemas.IssueOldCDSField},
		},
		{
			name:       "successor_field_not_flagged",
			statements: []string{"SELECT ProfitabilitySegment_2 FROM I_View."},
			wantIssues: nil,
		},
		{
			name:       "both_checks_fire_on_one_statement",
			statements: []string{"IF ProfitabilitySegment IS INITIAL."},
			wantIssues: []string{schemas.IssueInitialCheck, schemas.IssueOldCDSField},
		},
		{
			name:       "triggers_are_case_insensitive",
			statements: []string{"if rkeobjnr is initial."},
			wantIssues: []string{schemas.IssueInitialCheck},
		},
		{
			name:       "initial_check_without_copa_field_ignored",
			statements: []string{"IF LV_OTHER IS INITIAL."},
			wantIssues: nil,
		},
		{
			name:       "one_finding_per_record",
			statements: []string{"IF RKEOBJNR IS INITIAL.", "WRITE ProfitabilitySegment."},
			wantIssues: []string{schemas.IssueInitialCheck, schemas.IssueOldCDSField},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := Scan(unitWithStatements(tt.statements...))

			require.Len(t, findings, len(tt.wantIssues))
			for i, issue := range tt.wantIssues {
				assert.Equal(t, issue, findings[i].Issue)
				assert.NotEmpty(t, findings[i].Reason)
			}
		})
	}
}

// Scan must be deterministic: same unit in, same findings out.
func TestScan_Deterministic(t *testing.T) {
	unit := unitWithStatements("IF ProfitabilitySegment IS NOT INITIAL.")
	first := Scan(unit)
	second := Scan(unit)
	assert.Equal(t, first, second)
}

func TestSummarize(t *testing.T) {
	unit := unitWithStatements("IF RKEOBJNR IS INITIAL.")
	findings := Scan(unit)

	analysis := Summarize(unit, findings)

	assert.Equal(t, "ZP1", analysis.Program)
	assert.Equal(t, "ZI1", analysis.Include)
	assert.Equal(t, "FORM", analysis.UnitType)
	assert.Equal(t, "F1", analysis.UnitName)
	assert.Equal(t, findings, analysis.Flags)
}

// A nil findings slice must serialize as an empty flags array, not null.
func TestSummarize_NilFindings(t *testing.T) {
	analysis := Summarize(unitWithStatements(), nil)
	require.NotNil(t, analysis.Flags)
	assert.Empty(t, analysis.Flags)
}
