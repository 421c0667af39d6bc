// Package scoring computes per-skill confidence and job readiness for a
// student skill set against stored job skill requirements.
package scoring

import (
	"log"
	"strings"

	"github.com/edumentor/readiness/internal/types"
	"github.com/edumentor/readiness/internal/vectorize"
)

// Score composition and label thresholds. These are fixed product constants;
// changing them (or closing the missing/weak overlap in [0.45, 0.5)) needs a
// product decision, not a code cleanup.
const (
	similarityWeight = 0.6
	exposureWeight   = 0.4

	strongThreshold  = 0.75
	mediumThreshold  = 0.45
	missingThreshold = 0.5
)

// fallbackStudentDoc substitutes an empty student skill document so the
// vectorizer still has a row to fit.
const fallbackStudentDoc = "general"

// Engine scores student skill sets against job requirements. It is stateless
// and safe for concurrent use; each call allocates fresh vectorization state.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score computes one JobMatchResult per job that has at least one skill.
// Jobs with empty skill lists are excluded, not errored. A job whose
// vocabulary cannot be built is still included with all similarities degraded
// to 0.0; a job that fails unexpectedly is logged and skipped so the rest of
// the batch survives.
//
// Inputs are canonical skill ids; run raw mentions through
// ontology.Normalizer first.
func (e *Engine) Score(studentSkills []string, jobs []types.JobRequirement) []types.JobMatchResult {
	studentDoc := strings.TrimSpace(strings.Join(studentSkills, " "))
	if studentDoc == "" {
		studentDoc = fallbackStudentDoc
	}

	exposure := make(map[string]bool, len(studentSkills))
	for _, s := range studentSkills {
		exposure[s] = true
	}

	results := make([]types.JobMatchResult, 0, len(jobs))
	for _, job := range jobs {
		if len(job.Skills) == 0 {
			continue
		}
		result, ok := e.scoreJob(studentDoc, exposure, job)
		if !ok {
			continue
		}
		results = append(results, result)
	}
	return results
}

// scoreJob computes the match result for a single job. The recover keeps one
// malformed job from aborting the whole batch.
func (e *Engine) scoreJob(studentDoc string, exposure map[string]bool, job types.JobRequirement) (result types.JobMatchResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("scoring: skipping job %q: %v", job.Role, r)
			ok = false
		}
	}()

	sims := e.perSkillSimilarities(studentDoc, job.Skills)

	totalWeight := float64(len(job.Skills))
	if len(job.Weights) > 0 {
		totalWeight = 0
		for _, w := range job.Weights {
			totalWeight += w
		}
	}
	if totalWeight == 0 {
		totalWeight = 1
	}

	perSkillConfidence := make(map[string]types.SkillConfidence, len(job.Skills))
	perSkillScores := make(map[string]float64, len(job.Skills))
	var missing, weak []string
	seen := make(map[string]bool, len(job.Skills))
	matchWeight := 0.0

	for i, skill := range job.Skills {
		similarity := sims[i]
		exposureScore := 0.0
		if exposure[skill] {
			exposureScore = 1.0
		}
		finalScore := similarityWeight*similarity + exposureWeight*exposureScore

		conf := types.SkillConfidence{
			SimilarityScore: similarity,
			ExposureScore:   exposureScore,
			FinalScore:      finalScore,
			Label:           labelFor(finalScore),
		}
		perSkillConfidence[skill] = conf
		perSkillScores[skill] = finalScore

		// Duplicate skill entries still contribute weight per occurrence,
		// but appear once in the missing/weak lists.
		weight := 1.0
		if w, found := job.Weights[skill]; found {
			weight = w
		}
		matchWeight += finalScore * weight

		if seen[skill] {
			continue
		}
		seen[skill] = true
		if finalScore < missingThreshold {
			missing = append(missing, skill)
		}
		if finalScore >= mediumThreshold && finalScore < strongThreshold {
			weak = append(weak, skill)
		}
	}

	return types.JobMatchResult{
		Role:               job.Role,
		Similarity:         e.documentSimilarity(studentDoc, job.Skills),
		ReadinessPct:       100 * matchWeight / totalWeight,
		MissingSkills:      missing,
		WeakSkills:         weak,
		PerSkillScores:     perSkillScores,
		PerSkillConfidence: perSkillConfidence,
	}, true
}

// perSkillSimilarities fits a TF-IDF vocabulary over the student document plus
// each skill as a one-token document (student row first) and returns the
// cosine of each skill row against the student row. When the vocabulary
// cannot be built every similarity degrades to 0.0.
func (e *Engine) perSkillSimilarities(studentDoc string, skills []string) []float64 {
	sims := make([]float64, len(skills))

	corpus := make([]string, 0, len(skills)+1)
	corpus = append(corpus, studentDoc)
	corpus = append(corpus, skills...)

	v := &vectorize.Vectorizer{}
	m, err := v.FitTransform(corpus)
	if err != nil {
		return sims
	}

	for i := range skills {
		sims[i] = vectorize.Cosine(m.Rows[0], m.Rows[i+1])
	}
	return sims
}

// documentSimilarity is the job-level signal: the student document against the
// job's whole skill list as one document. Vectorization failure is a neutral
// 0.0, not an error.
func (e *Engine) documentSimilarity(studentDoc string, skills []string) float64 {
	v := &vectorize.Vectorizer{}
	m, err := v.FitTransform([]string{studentDoc, strings.Join(skills, " ")})
	if err != nil {
		return 0
	}
	return vectorize.Cosine(m.Rows[0], m.Rows[1])
}

// labelFor maps a final score onto its confidence label.
func labelFor(finalScore float64) types.ConfidenceLabel {
	switch {
	case finalScore >= strongThreshold:
		return types.LabelStrong
	case finalScore >= mediumThreshold:
		return types.LabelMedium
	default:
		return types.LabelWeak
	}
}
