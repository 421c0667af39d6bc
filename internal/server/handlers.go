package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/edumentor/readiness/internal/ingestion"
	"github.com/edumentor/readiness/internal/roadmap"
	"github.com/edumentor/readiness/internal/server/middleware"
	"github.com/edumentor/readiness/internal/types"
)

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSignup registers a user and returns a session token.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	user, err := s.userService.Register(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.loginResponse(w, http.StatusCreated, user)
}

// handleLogin authenticates a user and returns a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	user, err := s.userService.Login(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.loginResponse(w, http.StatusOK, user)
}

func (s *Server) loginResponse(w http.ResponseWriter, status int, user *types.User) {
	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	s.jsonResponse(w, status, types.LoginResponse{User: user, Token: token})
}

// handleGetProfile returns the caller's profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		s.errorResponse(w, http.StatusNotFound, "user not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, user)
}

// handleUpdateProfile applies partial profile updates. Manually entered
// skills are normalized to canonical ids on write; when present they take
// precedence over the syllabus record during analysis.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		s.errorResponse(w, http.StatusNotFound, "user not found")
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Branch != "" {
		user.Branch = req.Branch
	}
	if req.Year != 0 {
		user.Year = req.Year
	}
	if req.TargetRole != "" {
		user.TargetRole = req.TargetRole
	}
	if req.Skills != nil {
		user.Skills = s.normalizer.Normalize(req.Skills)
	}

	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	s.jsonResponse(w, http.StatusOK, user)
}

// handleIngestJob stores a job posting from raw text or a URL.
func (s *Server) handleIngestJob(w http.ResponseWriter, r *http.Request) {
	var req types.IngestJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	job, err := s.ingestor.IngestJob(r.Context(), ingestion.JobInput{
		Role:    req.Role,
		Source:  req.Source,
		RawText: req.RawText,
		URL:     req.URL,
		Weights: req.Weights,
	})
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, job)
}

// handleJobsByRole lists stored jobs for ?role=.
func (s *Server) handleJobsByRole(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		s.errorResponse(w, http.StatusBadRequest, "role query parameter is required")
		return
	}

	jobs, err := s.store.JobsByRole(r.Context(), role)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load jobs")
		return
	}
	if jobs == nil {
		jobs = []types.JobRequirement{}
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}

// handleSubmitSkills extracts and stores the caller's skills.
func (s *Server) handleSubmitSkills(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.SubmitSkillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	skills, err := s.ingestor.IngestStudentSkills(r.Context(), userID, req.Text)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, skills)
}

// handleGetSkills returns the caller's stored skill record.
func (s *Server) handleGetSkills(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	skills, err := s.store.GetStudentSkills(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load skills")
		return
	}
	if skills == nil {
		s.errorResponse(w, http.StatusNotFound, "no skills submitted yet")
		return
	}
	s.jsonResponse(w, http.StatusOK, skills)
}

// handleRunAnalysis scores the caller against every job stored for a role.
func (s *Server) handleRunAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.RunAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	studentSkills, err := s.studentSkillSet(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.analyzer.Run(r.Context(), userID, studentSkills, req.Role)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// studentSkillSet resolves the skill list an analysis scores: manually
// entered profile skills when present, otherwise the syllabus-derived
// record. The two sources are never merged.
func (s *Server) studentSkillSet(ctx context.Context, userID uuid.UUID) ([]string, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user != nil && len(user.Skills) > 0 {
		return user.Skills, nil
	}

	record, err := s.store.GetStudentSkills(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}
	if record == nil {
		return nil, &ErrNoStudentSkills{}
	}
	return record.NormalizedSkills, nil
}

// handleListAnalyses returns the caller's past analyses, newest first.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			s.errorResponse(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	analyses, err := s.store.AnalysesByUser(r.Context(), userID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load analyses")
		return
	}
	if analyses == nil {
		analyses = []types.AnalysisResult{}
	}
	s.jsonResponse(w, http.StatusOK, analyses)
}

// handleRunClusters reclusters the whole stored job corpus.
func (s *Server) handleRunClusters(w http.ResponseWriter, r *http.Request) {
	var req types.RunClustersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	jobs, err := s.store.AllJobs(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load jobs")
		return
	}

	clusters, err := s.clusterer.Cluster(r.Context(), jobs, req.K)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, clusters)
}

// handleListClusters returns the stored cluster metadata.
func (s *Server) handleListClusters(w http.ResponseWriter, r *http.Request) {
	clusters, err := s.store.ListClusters(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load clusters")
		return
	}
	if clusters == nil {
		clusters = []types.JobCluster{}
	}
	s.jsonResponse(w, http.StatusOK, clusters)
}

// handleRoadmap generates a weekly learning plan. When the request does not
// carry missing skills, the caller's latest analysis supplies them.
func (s *Server) handleRoadmap(w http.ResponseWriter, r *http.Request) {
	if s.roadmapGen == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "roadmap generation requires a configured model API key")
		return
	}

	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.RoadmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	missing := req.MissingSkills
	if len(missing) == 0 {
		missing, err = s.latestMissingSkills(r, userID, req.TargetRole)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	hours := req.HoursPerWeek
	if hours == 0 {
		hours = s.hoursPerWeek
	}

	rm, err := s.roadmapGen.Generate(r.Context(), roadmap.Request{
		MissingSkills: missing,
		TargetRole:    req.TargetRole,
		HoursPerWeek:  hours,
		Weeks:         req.Weeks,
		Lang:          req.Lang,
	})
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, rm)
}

// maxExplainGaps bounds how many low-confidence skills the explanation
// prompt carries.
const maxExplainGaps = 5

// handleExplainScore explains the caller's latest readiness analysis for a
// role in plain language.
func (s *Server) handleExplainScore(w http.ResponseWriter, r *http.Request) {
	if s.roadmapGen == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "score explanation requires a configured model API key")
		return
	}

	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.ExplainScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	latest, err := s.latestAnalysis(r.Context(), userID, req.Role)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	readiness := 0.0
	for _, result := range latest.Results {
		readiness += result.ReadinessPct
	}
	if len(latest.Results) > 0 {
		readiness /= float64(len(latest.Results))
	}

	explanation, err := s.roadmapGen.ExplainScore(r.Context(), readiness, topGaps(latest.PerSkillConfidence), req.Lang)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"role":          latest.Role,
		"readiness_pct": readiness,
		"explanation":   explanation,
	})
}

// latestAnalysis returns the caller's most recent analysis for the role.
func (s *Server) latestAnalysis(ctx context.Context, userID uuid.UUID, role string) (*types.AnalysisResult, error) {
	analyses, err := s.store.AnalysesByUser(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load analyses: %w", err)
	}
	for i := range analyses {
		if analyses[i].Role == role {
			return &analyses[i], nil
		}
	}
	return nil, fmt.Errorf("no analysis found for role %q; run an analysis first", role)
}

// topGaps picks the lowest-confidence skills from an analysis, the ones a
// score explanation should focus on.
func topGaps(confidence map[string]float64) map[string]float64 {
	skills := make([]string, 0, len(confidence))
	for skill := range confidence {
		skills = append(skills, skill)
	}
	sort.Slice(skills, func(i, j int) bool {
		if confidence[skills[i]] != confidence[skills[j]] {
			return confidence[skills[i]] < confidence[skills[j]]
		}
		return skills[i] < skills[j]
	})
	if len(skills) > maxExplainGaps {
		skills = skills[:maxExplainGaps]
	}

	gaps := make(map[string]float64, len(skills))
	for _, skill := range skills {
		gaps[skill] = confidence[skill]
	}
	return gaps
}

// latestMissingSkills collects the missing skills from the caller's most
// recent analysis for the role.
func (s *Server) latestMissingSkills(r *http.Request, userID uuid.UUID, role string) ([]string, error) {
	analyses, err := s.store.AnalysesByUser(r.Context(), userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load analyses: %w", err)
	}

	for _, a := range analyses {
		if a.Role != role {
			continue
		}
		seen := make(map[string]bool)
		var missing []string
		for _, result := range a.Results {
			for _, skill := range result.MissingSkills {
				if !seen[skill] {
					seen[skill] = true
					missing = append(missing, skill)
				}
			}
		}
		if len(missing) == 0 {
			return nil, fmt.Errorf("latest analysis for %q has no missing skills; pass missing_skills explicitly", role)
		}
		return missing, nil
	}
	return nil, fmt.Errorf("no analysis found for role %q; run an analysis first or pass missing_skills", role)
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("server: error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractValidationErrors renders the first validation failure.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
