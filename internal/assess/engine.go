// File: internal/assess/engine.go
package assess

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/RatnakarVise/db-rule-3320010-assess-llm/api/schemas"
	"github.com/RatnakarVise/db-rule-3320010-assess-llm/internal/config"
)

// Engine executes one assessment batch. Unit pipelines are independent and
// stateless, so the engine may fan them out across workers; results land in
// indexed slots, keeping output order identical to input order regardless of
// completion order.
type Engine struct {
	assessor *Assessor
	cfg      config.AssessConfig
	logger   *zap.Logger
}

// NewEngine builds a batch engine over the given assessor.
func NewEngine(assessor *Assessor, cfg config.AssessConfig, logger *zap.Logger) *Engine {
	return &Engine{
		assessor: assessor,
		cfg:      cfg,
		logger:   logger.Named("engine"),
	}
}

// Run assesses every unit of the batch. In fail-fast mode the first upstream
// failure cancels the remaining work and fails the whole batch with that
// unit's *UpstreamError (no partial results). In best-effort mode every unit
// is attempted and failed units carry a per-unit error field instead.
func (e *Engine) Run(ctx context.Context, units []schemas.CodeUnit) ([]schemas.OutputRecord, error) {
	records := make([]schemas.OutputRecord, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.WorkerConcurrency)

	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			records[i] = schemas.OutputRecord{
				PgmName: unit.PgmName,
				IncName: unit.IncName,
				Type:    unit.Type,
				Name:    unit.Name,
			}

			result, err := e.assessor.Assess(gctx, unit)
			if err != nil {
				e.logger.Error("Unit assessment failed",
					zap.String("program", unit.PgmName),
					zap.String("unit", unit.Name),
					zap.Error(err),
				)
				if e.cfg.FailFast {
					// Cancels gctx and aborts the batch.
					return err
				}
				records[i].Error = err.Error()
				return nil
			}

			records[i].Assessment = result.Assessment
			records[i].LLMPrompt = result.LLMPrompt
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Info("Batch assessment complete", zap.Int("units", len(units)))
	return records, nil
}
