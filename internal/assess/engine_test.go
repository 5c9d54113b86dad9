// File: internal/assess/engine_test.go
package assess

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/RatnakarVise/db-rule-3320010-assess-llm/api/schemas"
	"github.com/RatnakarVise/db-rule-3320010-assess-llm/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func batchOf(n int) []schemas.CodeUnit {
	units := make([]schemas.CodeUnit, n)
	for i := range units {
		units[i] = schemas.CodeUnit{
			PgmName: fmt.Sprintf("ZP%d", i),
			IncName: fmt.Sprintf("ZI%d", i),
			Type:    "FORM",
			Name:    fmt.Sprintf("F%d", i),
		}
	}
	return units
}

func okLLM() *stubLLM {
	return fixedReply(`{"assessment": "assessed", "llm_prompt": "remediate"}`)
}

func newEngine(llm schemas.LLMClient, cfg config.AssessConfig) *Engine {
	return NewEngine(NewAssessor(llm, zap.NewNop()), cfg, zap.NewNop())
}

func TestRun_SequentialBatch(t *testing.T) {
	e := newEngine(okLLM(), config.AssessConfig{WorkerConcurrency: 1, FailFast: true})
	units := batchOf(4)

	records, err := e.Run(context.Background(), units)
	require.NoError(t, err)
	require.Len(t, records, len(units))

	for i, rec := range records {
		assert.Equal(t, units[i].PgmName, rec.PgmName)
		assert.Equal(t, units[i].IncName, rec.IncName)
		assert.Equal(t, units[i].Type, rec.Type)
		assert.Equal(t, units[i].Name, rec.Name)
		assert.NotEmpty(t, rec.Assessment)
		assert.NotEmpty(t, rec.LLMPrompt)
		assert.Empty(t, rec.Error)
	}
}

// With fan-out enabled, output order must still match input order even when
// units complete out of order.
func TestRun_ConcurrentBatchPreservesOrder(t *testing.T) {
	llm := &stubLLM{fn: func(_ context.Context, req schemas.GenerationRequest) (string, error) {
		// Stagger completions so later units can finish first.
		time.Sleep(time.Duration(len(req.UserPrompt)%5) * time.Millisecond)
		return `{"assessment": "assessed", "llm_prompt": "remediate"}`, nil
	}}
	e := newEngine(llm, config.AssessConfig{WorkerConcurrency: 8, FailFast: true})
	units := batchOf(20)

	records, err := e.Run(context.Background(), units)
	require.NoError(t, err)
	require.Len(t, records, len(units))
	for i, rec := range records {
		assert.Equal(t, units[i].Name, rec.Name)
	}
}

func TestRun_EmptyBatch(t *testing.T) {
	e := newEngine(okLLM(), config.AssessConfig{WorkerConcurrency: 1, FailFast: true})

	records, err := e.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// Fail-fast: one bad unit fails the whole batch; no partial results escape.
func TestRun_FailFastAbortsBatch(t *testing.T) {
	cause := errors.New("upstream exploded")
	var calls atomic.Int32
	llm := &stubLLM{fn: func(_ context.Context, req schemas.GenerationRequest) (string, error) {
		if calls.Add(1) == 2 {
			return "", cause
		}
		return `{"assessment": "assessed", "llm_prompt": "remediate"}`, nil
	}}
	e := newEngine(llm, config.AssessConfig{WorkerConcurrency: 1, FailFast: true})

	records, err := e.Run(context.Background(), batchOf(5))
	require.Error(t, err)
	assert.Nil(t, records)

	ue, ok := AsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, KindRequest, ue.Kind)
	assert.ErrorIs(t, err, cause)
}

// Best-effort: failed units carry a per-unit error, the rest are assessed.
func TestRun_BestEffortReportsPerUnit(t *testing.T) {
	var calls atomic.Int32
	llm := &stubLLM{fn: func(_ context.Context, req schemas.GenerationRequest) (string, error) {
		if calls.Add(1) == 2 {
			return "", errors.New("upstream exploded")
		}
		return `{"assessment": "assessed", "llm_prompt": "remediate"}`, nil
	}}
	e := newEngine(llm, config.AssessConfig{WorkerConcurrency: 1, FailFast: false})
	units := batchOf(3)

	records, err := e.Run(context.Background(), units)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Empty(t, records[0].Error)
	assert.NotEmpty(t, records[0].Assessment)

	assert.Contains(t, records[1].Error, "LLM call failed")
	assert.Empty(t, records[1].Assessment)
	assert.Empty(t, records[1].LLMPrompt)
	// Unit metadata survives even for failed units.
	assert.Equal(t, units[1].PgmName, records[1].PgmName)

	assert.Empty(t, records[2].Error)
}

func TestRun_ContextCancellation(t *testing.T) {
	llm := &stubLLM{fn: func(ctx context.Context, _ schemas.GenerationRequest) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	e := newEngine(llm, config.AssessConfig{WorkerConcurrency: 2, FailFast: true})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := e.Run(ctx, batchOf(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
