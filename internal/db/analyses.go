package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/edumentor/readiness/internal/types"
)

// InsertAnalysis stores an analysis result. Analyses are append-only; there
// is no update path.
func (db *DB) InsertAnalysis(ctx context.Context, result *types.AnalysisResult) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	resultsJSON, err := json.Marshal(result.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis results: %w", err)
	}
	confidenceJSON, err := json.Marshal(result.PerSkillConfidence)
	if err != nil {
		return fmt.Errorf("failed to marshal per-skill confidence: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO analyses (id, user_id, role, results, per_skill_confidence, role_cluster_used)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		result.ID, result.UserID, result.Role, resultsJSON, confidenceJSON, result.RoleClusterUsed,
	).Scan(&result.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// AnalysesByUser retrieves a user's analyses, newest first.
func (db *DB) AnalysesByUser(ctx context.Context, userID uuid.UUID, limit int) ([]types.AnalysisResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, role, results, per_skill_confidence, role_cluster_used, created_at
		 FROM analyses WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var analyses []types.AnalysisResult
	for rows.Next() {
		var a types.AnalysisResult
		var resultsJSON, confidenceJSON []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.Role, &resultsJSON,
			&confidenceJSON, &a.RoleClusterUsed, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		if resultsJSON != nil {
			_ = json.Unmarshal(resultsJSON, &a.Results)
		}
		if confidenceJSON != nil {
			_ = json.Unmarshal(confidenceJSON, &a.PerSkillConfidence)
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read analyses: %w", err)
	}
	return analyses, nil
}
