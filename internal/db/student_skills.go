package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/edumentor/readiness/internal/types"
)

// UpsertStudentSkills stores or replaces a user's skill record. A student
// has at most one record; re-submitting a syllabus overwrites it.
func (db *DB) UpsertStudentSkills(ctx context.Context, skills *types.StudentSkills) error {
	extractedJSON, err := json.Marshal(skills.ExtractedSkills)
	if err != nil {
		return fmt.Errorf("failed to marshal extracted skills: %w", err)
	}
	normalizedJSON, err := json.Marshal(skills.NormalizedSkills)
	if err != nil {
		return fmt.Errorf("failed to marshal normalized skills: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO student_skills (user_id, raw_text, extracted_skills, normalized_skills)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET raw_text = $2, extracted_skills = $3, normalized_skills = $4, created_at = NOW()`,
		skills.UserID, skills.RawText, extractedJSON, normalizedJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert student skills: %w", err)
	}
	return nil
}

// GetStudentSkills retrieves a user's skill record. Returns nil when the
// user has not submitted skills yet.
func (db *DB) GetStudentSkills(ctx context.Context, userID uuid.UUID) (*types.StudentSkills, error) {
	var s types.StudentSkills
	var extractedJSON, normalizedJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT user_id, raw_text, extracted_skills, normalized_skills, created_at
		 FROM student_skills WHERE user_id = $1`,
		userID,
	).Scan(&s.UserID, &s.RawText, &extractedJSON, &normalizedJSON, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student skills: %w", err)
	}

	if extractedJSON != nil {
		_ = json.Unmarshal(extractedJSON, &s.ExtractedSkills)
	}
	if normalizedJSON != nil {
		_ = json.Unmarshal(normalizedJSON, &s.NormalizedSkills)
	}
	return &s, nil
}
