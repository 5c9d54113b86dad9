// File: internal/assess/prompt_test.go
package assess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RatnakarVise/db-rule-3320010-assess-llm/api/schemas"
	"github.com/RatnakarVise/db-rule-3320010-assess-llm/internal/scanner"
)

func testUnit() schemas.CodeUnit {
	return schemas.CodeUnit{
		PgmName: "ZREPORT",
		IncName: "ZINCLUDE",
		Type:    "METHOD",
		Name:    "CALC_SEGMENT",
		CopaUsage: []schemas.CopaUsage{
			{
				Table:              "CE1IDEA",
				TargetType:         "field",
				TargetName:         "RKEOBJNR",
				UsedFields:         []string{"RKEOBJNR"},
				SuggestedFields:    []string{"RKEOBJNR"},
				SuggestedStatement: "IF RKEOBJNR IS INITIAL.",
				Snippet:            "...IF RKEOBJNR IS INITIAL....",
			},
		},
	}
}

func TestBuildPrompt_ContainsUnitContext(t *testing.T) {
	unit := testUnit()
	findings := scanner.Scan(unit)

	req, err := BuildPrompt(unit, findings)
	require.NoError(t, err)

	assert.Equal(t, systemPrompt, req.SystemPrompt)
	assert.True(t, req.Options.ForceJSONFormat)

	// Unit metadata is interpolated verbatim.
	assert.Contains(t, req.UserPrompt, "Program: ZREPORT")
	assert.Contains(t, req.UserPrompt, "Include: ZINCLUDE")
	assert.Contains(t, req.UserPrompt, "Unit type: METHOD")
	assert.Contains(t, req.UserPrompt, "Unit name: CALC_SEGMENT")

	// The analysis block carries the scanner verdict and the raw records
	// appear with their wire field names.
	assert.Contains(t, req.UserPrompt, schemas.IssueInitialCheck)
	assert.Contains(t, req.UserPrompt, `"suggested_statement": "IF RKEOBJNR IS INITIAL."`)

	// Policy facts of the Note are part of the fixed template.
	assert.Contains(t, req.UserPrompt, "cl_fco_copa_paobjnr=>is_initial( )")
	assert.Contains(t, req.UserPrompt, "ProfitabilitySegment_2")
}

// Prompts must be reproducible so they can be cached and asserted on.
func TestBuildPrompt_Deterministic(t *testing.T) {
	unit := testUnit()
	findings := scanner.Scan(unit)

	first, err := BuildPrompt(unit, findings)
	require.NoError(t, err)
	second, err := BuildPrompt(unit, findings)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// A unit without usage records still renders a complete prompt with empty
// JSON arrays, never null.
func TestBuildPrompt_EmptyUsage(t *testing.T) {
	unit := schemas.CodeUnit{PgmName: "ZP", IncName: "ZI", Type: "FORM", Name: "F"}

	req, err := BuildPrompt(unit, nil)
	require.NoError(t, err)

	assert.Contains(t, req.UserPrompt, `"flags": []`)
	assert.Contains(t, req.UserPrompt, "copa_usage (JSON):\n[]")
}
