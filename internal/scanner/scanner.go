// File: internal/scanner/scanner.go

// Package scanner implements the rule-based pre-scan for SAP Note 3320010:
// the profitability segment number RKEOBJNR changed from NUMC(10) to
// CHAR(10), which invalidates IS INITIAL checks and decommissions the CDS
// field ProfitabilitySegment in favor of ProfitabilitySegment_2.
package scanner

import (
	"strings"

	"github.com/RatnakarVise/db-rule-3320010-assess-llm/api/schemas"
)

const (
	reasonInitialCheck = "Must replace with cl_fco_copa_paobjnr=>is_initial( ) per SAP Note 3320010"
	reasonOldCDSField  = "Replace with ProfitabilitySegment_2 per SAP Note 3320010"
)

// Scan inspects each CO-PA usage record of the unit and flags statements
// affected by the Note. Both checks are independent and may fire on the same
// record. Pure and deterministic; an empty usage list yields no findings.
func Scan(unit schemas.CodeUnit) []schemas.Finding {
	var flagged []schemas.Finding

	for _, usage := range unit.CopaUsage {
		stmt := strings.ToUpper(usage.SuggestedStatement)

		// Initial value checks on the retyped segment number.
		if strings.Contains(stmt, "IS INITIAL") || strings.Contains(stmt, "IS NOT INITIAL") {
			if strings.Contains(stmt, "RKEOBJNR") || strings.Contains(stmt, "PROFITABILITYSEGMENT") {
				flagged = append(flagged, schemas.Finding{
					Issue:  schemas.IssueInitialCheck,
					Reason: reasonInitialCheck,
				})
			}
		}

		// Decommissioned CDS field name. The successor carries a _2 suffix,
		// so its presence means the statement is already migrated.
		if strings.Contains(stmt, "PROFITABILITYSEGMENT") && !strings.Contains(stmt, "PROFITABILITYSEGMENT_2") {
			flagged = append(flagged, schemas.Finding{
				Issue:  schemas.IssueOldCDSField,
				Reason: reasonOldCDSField,
			})
		}
	}

	return flagged
}

// Summarize packages the unit metadata and scan findings into the analysis
// block that is serialized into the model prompt.
func Summarize(unit schemas.CodeUnit, findings []schemas.Finding) schemas.UnitAnalysis {
	if findings == nil {
		findings = []schemas.Finding{}
	}
	return schemas.UnitAnalysis{
		Program:  unit.PgmName,
		Include:  unit.IncName,
		UnitType: unit.Type,
		UnitName: unit.Name,
		Flags:    findings,
	}
}
