// Package llm wraps the two language-model services this pipeline consumes:
// the incident classifier and the briefing generator. Both are black boxes
// behind interfaces so the pipeline runs against deterministic fakes in tests.
package llm

import (
	"context"

	"roadwatch/types"
)

// Classifier turns raw headlines into structured incidents. Implementations
// must return one record per incident found, which may be fewer than the
// number of reports submitted. Callers treat any error, or an empty result
// for a non-empty batch, as a classifier failure and fall back to raw
// reports. The pipeline never retries synchronously.
type Classifier interface {
	Classify(ctx context.Context, reports []types.RawReport) ([]types.ClassifiedIncident, error)
}

// BriefContext carries everything the briefing generator sees.
type BriefContext struct {
	Target      types.Target
	Incidents   []types.ClassifiedIncident
	RiskScore   *types.RiskScoreResult
	Profile     *types.StaticProfile
	DynamicRisk *types.DynamicRiskResult
}

// Briefer produces the natural-language briefing. It is invoked even with
// zero incidents so the output shape stays uniform; failure is non-fatal and
// leaves the payload's briefing nil.
type Briefer interface {
	Brief(ctx context.Context, bc BriefContext) (*types.Briefing, error)
}
