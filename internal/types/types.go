// Package types defines the domain records shared across the readiness service.
package types

import (
	"time"

	"github.com/google/uuid"
)

// ConfidenceLabel classifies a per-skill final score.
type ConfidenceLabel string

// Confidence labels assigned by the scoring engine.
const (
	LabelStrong ConfidenceLabel = "Strong"
	LabelMedium ConfidenceLabel = "Medium"
	LabelWeak   ConfidenceLabel = "Weak"
)

// JobRequirement is one stored job posting reduced to its skill demands.
// Skills are canonical ids in first-seen order. Weights default to 1.0 for
// skills absent from the map; weight keys not present in Skills are ignored
// at scoring time.
type JobRequirement struct {
	ID        uuid.UUID          `json:"id"`
	Role      string             `json:"role"`
	Source    string             `json:"source,omitempty"`
	RawText   string             `json:"raw_text,omitempty"`
	Skills    []string           `json:"skills"`
	Weights   map[string]float64 `json:"weights,omitempty"`
	ClusterID *int               `json:"cluster_id,omitempty"`
	RoleLabel string             `json:"role_label,omitempty"`
	CreatedAt time.Time          `json:"created_at,omitempty"`
}

// SkillConfidence is the per-(job, skill) score breakdown.
type SkillConfidence struct {
	SimilarityScore float64         `json:"similarity_score"`
	ExposureScore   float64         `json:"exposure_score"`
	FinalScore      float64         `json:"final_score"`
	Label           ConfidenceLabel `json:"label"`
}

// JobMatchResult is the scoring outcome for a single job posting.
// It is computed fresh per analysis and never mutated afterwards.
type JobMatchResult struct {
	Role               string                     `json:"role"`
	Similarity         float64                    `json:"similarity"`
	ReadinessPct       float64                    `json:"readiness_pct"`
	MissingSkills      []string                   `json:"missing_skills"`
	WeakSkills         []string                   `json:"weak_skills"`
	PerSkillScores     map[string]float64         `json:"per_skill_scores"`
	PerSkillConfidence map[string]SkillConfidence `json:"per_skill_confidence"`
}

// AnalysisResult aggregates the per-job results for one (student, role) pair.
// Append-only: stored once, never updated.
type AnalysisResult struct {
	ID                 uuid.UUID          `json:"id"`
	UserID             uuid.UUID          `json:"user_id"`
	Role               string             `json:"role"`
	Results            []JobMatchResult   `json:"results"`
	PerSkillConfidence map[string]float64 `json:"per_skill_confidence"`
	RoleClusterUsed    *int               `json:"role_cluster_used,omitempty"`
	CreatedAt          time.Time          `json:"created_at,omitempty"`
}

// JobCluster is the metadata for one role cluster. Recomputed wholesale on
// every clustering run and upserted by ClusterID.
type JobCluster struct {
	ClusterID int      `json:"cluster_id"`
	RoleLabel string   `json:"role_label"`
	TopSkills []string `json:"top_skills"`
	NumJobs   int      `json:"num_jobs"`
}

// User is a registered student.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Branch       string    `json:"branch,omitempty"`
	Year         int       `json:"year,omitempty"`
	TargetRole   string    `json:"target_role,omitempty"`
	Skills       []string  `json:"skills,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// StudentSkills is a user's syllabus-derived skill record: the raw extractor
// output plus the normalized canonical list actually used for analysis.
type StudentSkills struct {
	UserID           uuid.UUID `json:"user_id"`
	RawText          string    `json:"raw_text,omitempty"`
	ExtractedSkills  []string  `json:"extracted_skills"`
	NormalizedSkills []string  `json:"normalized_skills"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
}
