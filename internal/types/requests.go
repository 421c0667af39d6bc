package types

// CreateUserRequest is the signup payload.
type CreateUserRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Branch     string `json:"branch,omitempty" validate:"omitempty,max=100"`
	Year       int    `json:"year,omitempty" validate:"omitempty,min=1,max=6"`
	TargetRole string `json:"target_role,omitempty" validate:"omitempty,max=100"`
}

// UpdateProfileRequest applies partial profile updates. Skills is the
// student's manually entered list; a nil slice leaves the stored skills
// untouched and an empty one clears them.
type UpdateProfileRequest struct {
	Name       string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Branch     string   `json:"branch,omitempty" validate:"omitempty,max=100"`
	Year       int      `json:"year,omitempty" validate:"omitempty,min=1,max=6"`
	TargetRole string   `json:"target_role,omitempty" validate:"omitempty,max=100"`
	Skills     []string `json:"skills,omitempty" validate:"omitempty,dive,required,max=100"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the authenticated user and their session token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// IngestJobRequest is the job intake payload. Either raw_text or url must
// be present.
type IngestJobRequest struct {
	Role    string             `json:"role" validate:"required,max=100"`
	RawText string             `json:"raw_text,omitempty"`
	URL     string             `json:"url,omitempty" validate:"omitempty,url"`
	Source  string             `json:"source,omitempty" validate:"omitempty,max=200"`
	Weights map[string]float64 `json:"weights,omitempty"`
}

// SubmitSkillsRequest carries a student's syllabus or free-form skill text.
type SubmitSkillsRequest struct {
	Text string `json:"text" validate:"required"`
}

// RunAnalysisRequest triggers a readiness analysis for a role.
type RunAnalysisRequest struct {
	Role string `json:"role" validate:"required,max=100"`
}

// RunClustersRequest triggers a clustering run over the stored job corpus.
type RunClustersRequest struct {
	K int `json:"k" validate:"required,min=1,max=50"`
}

// ExplainScoreRequest asks for a plain-language explanation of the caller's
// latest readiness analysis for a role.
type ExplainScoreRequest struct {
	Role string `json:"role" validate:"required,max=100"`
	Lang string `json:"lang,omitempty" validate:"omitempty,len=2"`
}

// RoadmapRequest asks for a weekly learning roadmap. MissingSkills is
// optional; when empty the latest analysis supplies them.
type RoadmapRequest struct {
	TargetRole    string   `json:"target_role" validate:"required,max=100"`
	MissingSkills []string `json:"missing_skills,omitempty"`
	Weeks         int      `json:"weeks,omitempty" validate:"omitempty,min=1,max=52"`
	HoursPerWeek  int      `json:"hours_per_week,omitempty" validate:"omitempty,min=1,max=80"`
	Lang          string   `json:"lang,omitempty" validate:"omitempty,len=2"`
}
