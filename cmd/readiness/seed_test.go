package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumentor/readiness/internal/ontology"
)

func TestSeedJobs_WeightsMatchNormalizedSkills(t *testing.T) {
	onto, err := ontology.LoadDefault()
	require.NoError(t, err)
	normalizer, err := ontology.NewNormalizer(onto)
	require.NoError(t, err)

	for _, seed := range seedJobs {
		normalized := normalizer.Normalize(seed.skills)
		require.NotEmpty(t, normalized, "seed %q has no skills", seed.role)

		present := make(map[string]bool, len(normalized))
		for _, s := range normalized {
			present[s] = true
		}
		for key := range seed.weights {
			assert.True(t, present[key], "seed %q weight key %q not in normalized skills %v", seed.role, key, normalized)
		}
	}
}

func TestSeedJobs_CoverMultipleRoles(t *testing.T) {
	roles := make(map[string]bool)
	for _, seed := range seedJobs {
		roles[seed.role] = true
	}
	assert.GreaterOrEqual(t, len(roles), 3)
}
