package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/edumentor/readiness/internal/types"
)

// InsertJob stores a job posting.
func (db *DB) InsertJob(ctx context.Context, job *types.JobRequirement) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	skillsJSON, err := json.Marshal(job.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal job skills: %w", err)
	}
	var weightsJSON []byte
	if job.Weights != nil {
		weightsJSON, err = json.Marshal(job.Weights)
		if err != nil {
			return fmt.Errorf("failed to marshal job weights: %w", err)
		}
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO jobs (id, role, source, raw_text, skills, weights)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		job.ID, job.Role, job.Source, job.RawText, skillsJSON, weightsJSON,
	).Scan(&job.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

const jobColumns = `id, role, source, raw_text, skills, weights, cluster_id, role_label, created_at`

// JobsByRole retrieves all jobs stored for a role, oldest first.
func (db *DB) JobsByRole(ctx context.Context, role string) ([]types.JobRequirement, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE role = $1 ORDER BY created_at ASC`,
		role,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs by role: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

// AllJobs retrieves every stored job, oldest first. Clustering runs over
// this corpus.
func (db *DB) AllJobs(ctx context.Context) ([]types.JobRequirement, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

// UpdateJobCluster sets a job's cluster assignment in a single row update.
func (db *DB) UpdateJobCluster(ctx context.Context, jobID uuid.UUID, clusterID int, roleLabel string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE jobs SET cluster_id = $1, role_label = $2 WHERE id = $3`,
		clusterID, roleLabel, jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job cluster: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %s", jobID)
	}
	return nil
}

func scanJobs(rows pgx.Rows) ([]types.JobRequirement, error) {
	var jobs []types.JobRequirement
	for rows.Next() {
		var j types.JobRequirement
		var skillsJSON, weightsJSON []byte
		if err := rows.Scan(&j.ID, &j.Role, &j.Source, &j.RawText,
			&skillsJSON, &weightsJSON, &j.ClusterID, &j.RoleLabel, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		if skillsJSON != nil {
			_ = json.Unmarshal(skillsJSON, &j.Skills)
		}
		if weightsJSON != nil {
			_ = json.Unmarshal(weightsJSON, &j.Weights)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read jobs: %w", err)
	}
	return jobs, nil
}
