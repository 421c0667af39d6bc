// Package clustering groups stored job postings into role archetypes by
// textual similarity and labels each archetype with a human-readable role.
package clustering

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/edumentor/readiness/internal/types"
	"github.com/edumentor/readiness/internal/vectorize"
)

// Vectorization parameters for the job-text corpus: unigrams and bigrams,
// terms in more than 90% of documents discarded, rare terms retained.
const (
	ngramMax   = 2
	maxDocFreq = 0.9
)

// clusterSeed fixes the k-means randomness so re-running over an unchanged
// corpus reproduces the same assignments.
const clusterSeed = 42

// topSkillLimit caps the per-cluster top-skill list.
const topSkillLimit = 10

// persistWorkers bounds the concurrent per-job cluster updates. The updates
// are independent; each single update is one row write and therefore atomic.
const persistWorkers = 8

// Store is the persistence capability the clusterer needs. Concurrent
// clustering runs against the same corpus are not serialized here; the
// caller owns that lock.
type Store interface {
	UpdateJobCluster(ctx context.Context, jobID uuid.UUID, clusterID int, roleLabel string) error
	UpsertCluster(ctx context.Context, cluster types.JobCluster) error
}

// Clusterer runs the clustering batch job.
type Clusterer struct {
	store Store
}

// New creates a Clusterer writing assignments through store.
func New(store Store) *Clusterer {
	return &Clusterer{store: store}
}

// Cluster partitions jobs into exactly k clusters and returns the cluster
// metadata keyed by cluster id. Side effects: every job document is updated
// with its numeric cluster id and the cluster's role label, and each
// cluster's metadata is upserted wholesale (prior membership replaced).
//
// An empty corpus is a no-op returning an empty map. A k larger than the
// number of distinguishable jobs is accepted; surplus clusters simply end up
// small or empty.
func (c *Clusterer) Cluster(ctx context.Context, jobs []types.JobRequirement, k int) (map[int]types.JobCluster, error) {
	if k < 1 {
		return nil, fmt.Errorf("cluster count must be positive, got %d", k)
	}
	if len(jobs) == 0 {
		log.Printf("clustering: no job documents to cluster")
		return map[int]types.JobCluster{}, nil
	}

	texts := make([]string, len(jobs))
	for i, job := range jobs {
		texts[i] = job.RawText
		if strings.TrimSpace(texts[i]) == "" {
			texts[i] = strings.Join(job.Skills, " ")
		}
	}

	v := &vectorize.Vectorizer{NGramMax: ngramMax, MaxDocFreq: maxDocFreq}
	m, err := v.FitTransform(texts)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize job corpus: %w", err)
	}

	labels := kMeans(m.Rows, k, clusterSeed)

	clusters := make(map[int]types.JobCluster, k)
	roleLabels := make(map[int]string, k)
	for clusterID := 0; clusterID < k; clusterID++ {
		var members []types.JobRequirement
		for i, lbl := range labels {
			if lbl == clusterID {
				members = append(members, jobs[i])
			}
		}

		topSkills := topSkillsOf(members)
		roleLabel := InferRoleLabel(topSkills)
		roleLabels[clusterID] = roleLabel
		clusters[clusterID] = types.JobCluster{
			ClusterID: clusterID,
			RoleLabel: roleLabel,
			TopSkills: topSkills,
			NumJobs:   len(members),
		}
	}

	if err := c.persist(ctx, jobs, labels, roleLabels, clusters); err != nil {
		return nil, err
	}

	log.Printf("clustering: complete, %d clusters created over %d jobs", len(clusters), len(jobs))
	return clusters, nil
}

// persist writes per-job assignments concurrently (they are independent
// single-row updates) and then upserts the cluster metadata.
func (c *Clusterer) persist(ctx context.Context, jobs []types.JobRequirement, labels []int, roleLabels map[int]string, clusters map[int]types.JobCluster) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(persistWorkers)
	for i := range jobs {
		job, clusterID := jobs[i], labels[i]
		g.Go(func() error {
			if err := c.store.UpdateJobCluster(gctx, job.ID, clusterID, roleLabels[clusterID]); err != nil {
				return fmt.Errorf("failed to update job %s cluster assignment: %w", job.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Deterministic upsert order, cheap to reason about in logs.
	ids := make([]int, 0, len(clusters))
	for id := range clusters {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if err := c.store.UpsertCluster(ctx, clusters[id]); err != nil {
			return fmt.Errorf("failed to upsert cluster %d: %w", id, err)
		}
	}
	return nil
}

// topSkillsOf counts raw skill occurrences across member jobs and returns the
// most frequent, ties broken by first-seen order in the counting pass.
func topSkillsOf(members []types.JobRequirement) []string {
	counts := make(map[string]int)
	var order []string
	for _, job := range members {
		for _, skill := range job.Skills {
			if counts[skill] == 0 {
				order = append(order, skill)
			}
			counts[skill]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topSkillLimit {
		order = order[:topSkillLimit]
	}
	return order
}
