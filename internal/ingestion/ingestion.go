// Package ingestion turns raw job postings and student syllabi into stored
// records: fetch (for URLs), extract skill mentions, normalize to canonical
// ids, persist.
package ingestion

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edumentor/readiness/internal/extraction"
	"github.com/edumentor/readiness/internal/fetch"
	"github.com/edumentor/readiness/internal/ontology"
	"github.com/edumentor/readiness/internal/types"
)

// Store persists ingested records.
type Store interface {
	InsertJob(ctx context.Context, job *types.JobRequirement) error
	UpsertStudentSkills(ctx context.Context, skills *types.StudentSkills) error
}

// Ingestor wires fetching, extraction and normalization together.
type Ingestor struct {
	store      Store
	extractor  *extraction.Extractor
	normalizer *ontology.Normalizer

	// UseBrowser enables the headless-browser fallback for JS-rendered
	// boards. Off by default; needs Chrome on the host.
	UseBrowser bool
}

// New creates an Ingestor.
func New(store Store, extractor *extraction.Extractor, normalizer *ontology.Normalizer) *Ingestor {
	return &Ingestor{store: store, extractor: extractor, normalizer: normalizer}
}

// JobInput is one job posting to ingest. Either RawText or URL must be set;
// RawText wins when both are.
type JobInput struct {
	Role    string
	Source  string
	RawText string
	URL     string
	Weights map[string]float64
}

// IngestJob stores a job posting with its extracted, normalized skill list.
func (i *Ingestor) IngestJob(ctx context.Context, in JobInput) (*types.JobRequirement, error) {
	if strings.TrimSpace(in.Role) == "" {
		return nil, fmt.Errorf("role is required")
	}

	text := strings.TrimSpace(in.RawText)
	source := in.Source
	if text == "" {
		if strings.TrimSpace(in.URL) == "" {
			return nil, fmt.Errorf("either raw text or a URL is required")
		}
		fetched, err := i.fetchPosting(ctx, in.URL)
		if err != nil {
			return nil, err
		}
		text = fetched
		if source == "" {
			source = in.URL
		}
	}
	if text == "" {
		return nil, fmt.Errorf("no readable text found for job posting")
	}

	raw := i.extractor.Extract(ctx, text, in.Role)
	skills := i.normalizer.Normalize(raw)

	job := &types.JobRequirement{
		ID:        uuid.New(),
		Role:      in.Role,
		Source:    source,
		RawText:   text,
		Skills:    skills,
		Weights:   in.Weights,
		CreatedAt: time.Now().UTC(),
	}
	if err := i.store.InsertJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to store job: %w", err)
	}
	return job, nil
}

// IngestStudentSkills extracts and normalizes a student's syllabus or skill
// text and upserts their skill record.
func (i *Ingestor) IngestStudentSkills(ctx context.Context, userID uuid.UUID, rawText string) (*types.StudentSkills, error) {
	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return nil, fmt.Errorf("skill text is required")
	}

	raw := i.extractor.Extract(ctx, rawText, "")
	normalized := i.normalizer.Normalize(raw)

	skills := &types.StudentSkills{
		UserID:           userID,
		RawText:          rawText,
		ExtractedSkills:  raw,
		NormalizedSkills: normalized,
		CreatedAt:        time.Now().UTC(),
	}
	if err := i.store.UpsertStudentSkills(ctx, skills); err != nil {
		return nil, fmt.Errorf("failed to store student skills: %w", err)
	}
	return skills, nil
}

// fetchPosting retrieves the posting text for a URL, falling back to a
// headless browser when the plain fetch comes back too thin.
func (i *Ingestor) fetchPosting(ctx context.Context, url string) (string, error) {
	result, err := fetch.Get(ctx, url, nil)
	if err != nil {
		return "", err
	}

	text, err := fetch.JobText(result.HTML)
	if err != nil {
		return "", err
	}

	if i.UseBrowser && fetch.NeedsBrowser(text) {
		log.Printf("ingestion: thin content from %s, retrying with browser", url)
		html, err := fetch.Render(ctx, url, fetch.DefaultTimeout)
		if err != nil {
			// Keep whatever the plain fetch produced.
			log.Printf("ingestion: browser fallback failed for %s: %v", url, err)
			return text, nil
		}
		if rendered, err := fetch.JobText(html); err == nil && len(rendered) > len(text) {
			text = rendered
		}
	}
	return text, nil
}
