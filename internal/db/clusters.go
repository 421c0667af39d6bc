package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edumentor/readiness/internal/types"
)

// UpsertCluster stores or replaces a cluster's metadata by cluster id.
func (db *DB) UpsertCluster(ctx context.Context, cluster types.JobCluster) error {
	topSkillsJSON, err := json.Marshal(cluster.TopSkills)
	if err != nil {
		return fmt.Errorf("failed to marshal top skills: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO job_clusters (cluster_id, role_label, top_skills, num_jobs)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (cluster_id) DO UPDATE
		 SET role_label = $2, top_skills = $3, num_jobs = $4, updated_at = NOW()`,
		cluster.ClusterID, cluster.RoleLabel, topSkillsJSON, cluster.NumJobs,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cluster %d: %w", cluster.ClusterID, err)
	}
	return nil
}

// ListClusters retrieves all cluster metadata ordered by cluster id.
func (db *DB) ListClusters(ctx context.Context) ([]types.JobCluster, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT cluster_id, role_label, top_skills, num_jobs
		 FROM job_clusters ORDER BY cluster_id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}
	defer rows.Close()

	var clusters []types.JobCluster
	for rows.Next() {
		var c types.JobCluster
		var topSkillsJSON []byte
		if err := rows.Scan(&c.ClusterID, &c.RoleLabel, &topSkillsJSON, &c.NumJobs); err != nil {
			return nil, fmt.Errorf("failed to scan cluster: %w", err)
		}
		if topSkillsJSON != nil {
			_ = json.Unmarshal(topSkillsJSON, &c.TopSkills)
		}
		clusters = append(clusters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read clusters: %w", err)
	}
	return clusters, nil
}
