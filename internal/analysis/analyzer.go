// Package analysis runs a full readiness analysis: score the student against
// every stored job for the target role, aggregate per-skill confidence, and
// persist the immutable result.
package analysis

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/edumentor/readiness/internal/types"
)

// ErrNoJobsForRole indicates the role has no stored job skill data at all.
// This is surfaced instead of an empty success so callers can distinguish
// "nothing to analyze against" from "analyzed, zero readiness".
type ErrNoJobsForRole struct {
	Role string
}

func (e *ErrNoJobsForRole) Error() string {
	return fmt.Sprintf("no job skill data for role: %s", e.Role)
}

// Store is the persistence capability the analyzer needs.
type Store interface {
	JobsByRole(ctx context.Context, role string) ([]types.JobRequirement, error)
	InsertAnalysis(ctx context.Context, result *types.AnalysisResult) error
}

// Scorer computes per-job match results; satisfied by scoring.Engine.
type Scorer interface {
	Score(studentSkills []string, jobs []types.JobRequirement) []types.JobMatchResult
}

// Analyzer coordinates scoring and aggregation for analysis requests.
// Concurrent runs for different students are independent; no shared state.
type Analyzer struct {
	store  Store
	engine Scorer
}

// New creates an Analyzer.
func New(store Store, engine Scorer) *Analyzer {
	return &Analyzer{store: store, engine: engine}
}

// Run scores studentSkills (canonical ids) against every stored job for role
// and persists the aggregated result. Returns ErrNoJobsForRole when the role
// has no job documents.
func (a *Analyzer) Run(ctx context.Context, userID uuid.UUID, studentSkills []string, role string) (*types.AnalysisResult, error) {
	jobs, err := a.store.JobsByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs for role %q: %w", role, err)
	}
	if len(jobs) == 0 {
		return nil, &ErrNoJobsForRole{Role: role}
	}

	results := a.engine.Score(studentSkills, jobs)

	analysis := &types.AnalysisResult{
		ID:                 uuid.New(),
		UserID:             userID,
		Role:               role,
		Results:            results,
		PerSkillConfidence: aggregateConfidence(results),
		RoleClusterUsed:    dominantCluster(jobs),
	}

	if err := a.store.InsertAnalysis(ctx, analysis); err != nil {
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}
	return analysis, nil
}

// aggregateConfidence averages each skill's final score across the job
// results it appears in.
func aggregateConfidence(results []types.JobMatchResult) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, res := range results {
		for skill, conf := range res.PerSkillConfidence {
			sums[skill] += conf.FinalScore
			counts[skill]++
		}
	}

	agg := make(map[string]float64, len(sums))
	for skill, sum := range sums {
		agg[skill] = sum / float64(counts[skill])
	}
	return agg
}

// dominantCluster returns the most common cluster id among the jobs, ties
// broken by first occurrence. Nil when no job has been clustered yet.
func dominantCluster(jobs []types.JobRequirement) *int {
	counts := make(map[int]int)
	var order []int
	for _, job := range jobs {
		if job.ClusterID == nil {
			continue
		}
		id := *job.ClusterID
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}
	if len(order) == 0 {
		return nil
	}

	best := order[0]
	for _, id := range order[1:] {
		if counts[id] > counts[best] {
			best = id
		}
	}
	return &best
}
