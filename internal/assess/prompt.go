// File: internal/assess/prompt.go
package assess

import (
	"encoding/json"
	"fmt"

	"github.com/RatnakarVise/db-rule-3320010-assess-llm/api/schemas"
	"github.com/RatnakarVise/db-rule-3320010-assess-llm/internal/scanner"
)

// systemPrompt pins the reviewer role and the strict-JSON output contract.
const systemPrompt = "You are a precise ABAP reviewer familiar with SAP Note 3320010. Output strict JSON only."

// userPromptTemplate carries the policy summary, the two tasks, the output
// schema and the interpolated unit context. The serialized JSON blobs use
// struct-based marshaling, so key order is stable and prompts stay
// reproducible for testing and caching.
const userPromptTemplate = `You are assessing ABAP code for CO-PA (Profitability Analysis) changes per SAP Note 3320010.

Summary of technical impact:
- Profitability segment number field RKEOBJNR changed from NUMC(10) to CHAR(10).
- IS INITIAL / IS NOT INITIAL checks no longer valid; must use cl_fco_copa_paobjnr=>is_initial( ).
- CDS field ProfitabilitySegment is decommissioned; must use ProfitabilitySegment_2.
- Must handle both old ('0000000000') and new (spaces) initial values.
- Code should be future-proof for alphanumeric segment numbers.

Your tasks:
1) Produce a concise **assessment** of the given unit's code.
2) Produce an **LLM remediation prompt** that:
   - Searches code for IS INITIAL/IS NOT INITIAL checks on RKEOBJNR or ProfitabilitySegment.
   - Replaces them with cl_fco_copa_paobjnr=>is_initial( ) calls.
   - Replaces CDS field ProfitabilitySegment with ProfitabilitySegment_2.
   - Handles both old and new initial values.
   - Keeps functional behavior unchanged.

Return ONLY strict JSON:
{
  "assessment": "<concise note 3320010 impact>",
  "llm_prompt": "<prompt for LLM code fixer>"
}

Unit metadata:
- Program: %s
- Include: %s
- Unit type: %s
- Unit name: %s

Analysis:
%s

copa_usage (JSON):
%s`

// BuildPrompt renders the model-input message pair for one unit: the fixed
// system instruction plus a user message carrying the unit metadata, the
// scanner's analysis block and the raw usage records.
func BuildPrompt(unit schemas.CodeUnit, findings []schemas.Finding) (schemas.GenerationRequest, error) {
	analysis := scanner.Summarize(unit, findings)

	planJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return schemas.GenerationRequest{}, fmt.Errorf("failed to marshal analysis summary: %w", err)
	}

	usage := unit.CopaUsage
	if usage == nil {
		usage = []schemas.CopaUsage{}
	}
	copaJSON, err := json.MarshalIndent(usage, "", "  ")
	if err != nil {
		return schemas.GenerationRequest{}, fmt.Errorf("failed to marshal copa usage: %w", err)
	}

	return schemas.GenerationRequest{
		SystemPrompt: systemPrompt,
		UserPrompt: fmt.Sprintf(userPromptTemplate,
			unit.PgmName, unit.IncName, unit.Type, unit.Name,
			string(planJSON), string(copaJSON)),
		Options: schemas.GenerationOptions{
			Temperature:     0,
			ForceJSONFormat: true,
		},
	}, nil
}
