package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edumentor/readiness/internal/analysis"
	"github.com/edumentor/readiness/internal/clustering"
	"github.com/edumentor/readiness/internal/ingestion"
)

// DB must satisfy the store interfaces the domain packages declare.
var (
	_ analysis.Store   = (*DB)(nil)
	_ clustering.Store = (*DB)(nil)
	_ ingestion.Store  = (*DB)(nil)
)

func TestSchemaStatementsAreIdempotent(t *testing.T) {
	for _, stmt := range schema {
		assert.NotEmpty(t, stmt)
		assert.Contains(t, stmt, "IF NOT EXISTS")
	}
}

func TestSchemaCoversAllTables(t *testing.T) {
	joined := strings.Join(schema, "\n")
	for _, table := range []string{"users", "student_skills", "jobs", "job_clusters", "analyses"} {
		assert.Contains(t, joined, table)
	}
}
