package clustering

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumentor/readiness/internal/types"
)

// fakeStore records cluster writes in memory.
type fakeStore struct {
	mu          sync.Mutex
	assignments map[uuid.UUID]int
	jobLabels   map[uuid.UUID]string
	clusters    map[int]types.JobCluster
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		assignments: make(map[uuid.UUID]int),
		jobLabels:   make(map[uuid.UUID]string),
		clusters:    make(map[int]types.JobCluster),
	}
}

func (s *fakeStore) UpdateJobCluster(_ context.Context, jobID uuid.UUID, clusterID int, roleLabel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[jobID] = clusterID
	s.jobLabels[jobID] = roleLabel
	return nil
}

func (s *fakeStore) UpsertCluster(_ context.Context, cluster types.JobCluster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clusters[cluster.ClusterID] = cluster
	return nil
}

func separableJobs() []types.JobRequirement {
	return []types.JobRequirement{
		{
			ID:      uuid.New(),
			Role:    "Backend Developer",
			RawText: "Looking for a python backend engineer with flask and postgresql experience",
			Skills:  []string{"python", "flask", "postgresql"},
		},
		{
			ID:      uuid.New(),
			Role:    "ML Engineer",
			RawText: "Deep learning engineer with pytorch and tensorflow experience",
			Skills:  []string{"pytorch", "tensorflow"},
		},
		{
			ID:      uuid.New(),
			Role:    "Frontend Developer",
			RawText: "Frontend dev building interfaces with react and javascript",
			Skills:  []string{"react", "javascript"},
		},
	}
}

func TestInferRoleLabel(t *testing.T) {
	tests := []struct {
		name      string
		topSkills []string
		want      string
	}{
		{"backend", []string{"python", "flask", "postgresql"}, "Backend Engineer"},
		{"ml wins over backend", []string{"tensorflow", "pytorch"}, "AI / ML Engineer"},
		{"ml wins even with backend skills", []string{"docker", "tensorflow"}, "AI / ML Engineer"},
		{"frontend wins over data and backend", []string{"react", "sql"}, "Frontend Engineer"},
		{"data wins over backend", []string{"pandas", "docker"}, "Data Scientist"},
		{"case insensitive", []string{"TensorFlow"}, "AI / ML Engineer"},
		{"no match", []string{"cobol", "fortran"}, "Other"},
		{"empty", nil, "Other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferRoleLabel(tt.topSkills))
		})
	}
}

func TestCluster_SeparatesDistinctRoleFlavors(t *testing.T) {
	store := newFakeStore()
	jobs := separableJobs()

	clusters, err := New(store).Cluster(context.Background(), jobs, 3)
	require.NoError(t, err)
	require.Len(t, clusters, 3)

	// Every cluster ends up with exactly one member.
	for id, cluster := range clusters {
		assert.Equal(t, id, cluster.ClusterID)
		assert.Equal(t, 1, cluster.NumJobs)
	}

	// Each job's persisted label matches its dominant keyword family.
	wantLabels := map[uuid.UUID]string{
		jobs[0].ID: "Backend Engineer",
		jobs[1].ID: "AI / ML Engineer",
		jobs[2].ID: "Frontend Engineer",
	}
	for jobID, want := range wantLabels {
		assert.Equal(t, want, store.jobLabels[jobID])
	}

	// Cluster metadata was upserted for every cluster id.
	assert.Len(t, store.clusters, 3)
}

func TestCluster_Reproducible(t *testing.T) {
	jobs := separableJobs()
	// More jobs than clusters so the assignment is a real partition.
	jobs = append(jobs,
		types.JobRequirement{ID: uuid.New(), Role: "Backend Developer", RawText: "python flask backend services and postgresql", Skills: []string{"python", "flask"}},
		types.JobRequirement{ID: uuid.New(), Role: "ML Engineer", RawText: "pytorch deep learning research", Skills: []string{"pytorch"}},
	)

	first, err := New(newFakeStore()).Cluster(context.Background(), jobs, 3)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := New(newFakeStore()).Cluster(context.Background(), jobs, 3)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCluster_EmptyCorpusIsNoop(t *testing.T) {
	store := newFakeStore()

	clusters, err := New(store).Cluster(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, clusters)
	assert.Empty(t, store.assignments)
	assert.Empty(t, store.clusters)
}

func TestCluster_KLargerThanCorpus(t *testing.T) {
	store := newFakeStore()
	jobs := separableJobs()

	clusters, err := New(store).Cluster(context.Background(), jobs, 5)
	require.NoError(t, err)
	require.Len(t, clusters, 5)

	nonEmpty := 0
	for _, cluster := range clusters {
		if cluster.NumJobs > 0 {
			nonEmpty++
		}
	}
	assert.Equal(t, 3, nonEmpty)
}

func TestCluster_RejectsNonPositiveK(t *testing.T) {
	_, err := New(newFakeStore()).Cluster(context.Background(), separableJobs(), 0)
	require.Error(t, err)
}

func TestCluster_SkillFallbackWhenNoRawText(t *testing.T) {
	store := newFakeStore()
	jobs := []types.JobRequirement{
		{ID: uuid.New(), Role: "Backend Developer", Skills: []string{"python", "flask", "docker"}},
		{ID: uuid.New(), Role: "Frontend Developer", Skills: []string{"react", "javascript", "css"}},
	}

	clusters, err := New(store).Cluster(context.Background(), jobs, 2)
	require.NoError(t, err)
	require.Len(t, clusters, 2)

	labels := make(map[string]bool)
	for _, cluster := range clusters {
		labels[cluster.RoleLabel] = true
	}
	assert.True(t, labels["Backend Engineer"])
	assert.True(t, labels["Frontend Engineer"])
}

func TestTopSkillsOf_FrequencyThenFirstSeen(t *testing.T) {
	members := []types.JobRequirement{
		{Skills: []string{"python", "sql", "docker"}},
		{Skills: []string{"sql", "python"}},
		{Skills: []string{"sql"}},
	}

	got := topSkillsOf(members)
	// sql (3) first, then python (2), then docker (1).
	assert.Equal(t, []string{"sql", "python", "docker"}, got)
}

func TestTopSkillsOf_CapsAtTen(t *testing.T) {
	job := types.JobRequirement{Skills: []string{
		"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11", "s12",
	}}
	got := topSkillsOf([]types.JobRequirement{job})
	assert.Len(t, got, 10)
	// All counts equal: first-seen order preserved.
	assert.Equal(t, "s1", got[0])
}
