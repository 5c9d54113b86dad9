// File: internal/assess/assessor.go
package assess

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/RatnakarVise/db-rule-3320010-assess-llm/api/schemas"
	"github.com/RatnakarVise/db-rule-3320010-assess-llm/internal/scanner"
)

// Assessor runs the per-unit pipeline: rule scan, prompt build, model call,
// structured-reply parse. The model is an injected capability so the
// pipeline can be tested deterministically with a stub.
type Assessor struct {
	llm    schemas.LLMClient
	logger *zap.Logger
}

// NewAssessor wires an assessor to the given model client.
func NewAssessor(llm schemas.LLMClient, logger *zap.Logger) *Assessor {
	return &Assessor{
		llm:    llm,
		logger: logger.Named("assessor"),
	}
}

// Assess produces the model's assessment for one unit. Any transport or
// parse failure surfaces as a *UpstreamError; the scan and prompt stages
// cannot fail on already-decoded input.
func (a *Assessor) Assess(ctx context.Context, unit schemas.CodeUnit) (schemas.AssessmentResult, error) {
	findings := scanner.Scan(unit)

	req, err := BuildPrompt(unit, findings)
	if err != nil {
		// Unreachable for decoded input; kept as a guard.
		return schemas.AssessmentResult{}, &UpstreamError{Kind: KindBadReply, Unit: unit.Name, Err: err}
	}

	a.logger.Debug("Requesting assessment",
		zap.String("program", unit.PgmName),
		zap.String("unit", unit.Name),
		zap.Int("findings", len(findings)),
	)

	raw, err := a.llm.Generate(ctx, req)
	if err != nil {
		return schemas.AssessmentResult{}, &UpstreamError{Kind: KindRequest, Unit: unit.Name, Err: err}
	}

	result, err := parseAssessmentReply(raw)
	if err != nil {
		a.logger.Warn("Model reply did not parse as a JSON object",
			zap.String("unit", unit.Name),
			zap.String("raw_response", raw),
			zap.Error(err),
		)
		return schemas.AssessmentResult{}, &UpstreamError{Kind: KindBadReply, Unit: unit.Name, Err: err}
	}

	return result, nil
}

// A regex to robustly extract a JSON object from a markdown code block.
var jsonBlockRegex = regexp.MustCompile(fmt.Sprintf("(?s)%s(?:json)?\\s*(.*?)\\s*%s", "```", "```"))

// parseAssessmentReply extracts the top-level JSON object from the model
// reply, tolerating markdown code fences or surrounding prose. The two
// expected fields default to the empty string when missing or non-string;
// only a reply with no parsable JSON object is an error.
func parseAssessmentReply(response string) (schemas.AssessmentResult, error) {
	response = strings.TrimSpace(response)
	var jsonStringToParse string

	matches := jsonBlockRegex.FindStringSubmatch(response)
	if len(matches) > 1 {
		jsonStringToParse = strings.TrimSpace(matches[1])
	} else {
		firstBracket := strings.Index(response, "{")
		lastBracket := strings.LastIndex(response, "}")
		if firstBracket != -1 && lastBracket != -1 && lastBracket > firstBracket {
			jsonStringToParse = response[firstBracket : lastBracket+1]
		} else {
			jsonStringToParse = response
		}
	}

	if jsonStringToParse == "" {
		return schemas.AssessmentResult{}, fmt.Errorf("could not find any JSON in the model response")
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStringToParse), &fields); err != nil {
		return schemas.AssessmentResult{}, fmt.Errorf("failed to unmarshal extracted JSON: %w", err)
	}

	return schemas.AssessmentResult{
		Assessment: stringField(fields, "assessment"),
		LLMPrompt:  stringField(fields, "llm_prompt"),
	}, nil
}

func stringField(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
