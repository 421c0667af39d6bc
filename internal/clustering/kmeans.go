package clustering

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// maxIterations bounds the Lloyd refinement loop. Corpora here are small;
// convergence is typically reached within a handful of passes.
const maxIterations = 100

// kMeans partitions rows into k clusters minimizing within-cluster sum of
// squared distances, and returns one cluster id per row. The seed fixes both
// the k-means++ style initialization and every tie-break, so identical input
// always yields identical assignments.
func kMeans(rows [][]float64, k int, seed int64) []int {
	n := len(rows)
	labels := make([]int, n)
	if n == 0 || k < 1 {
		return labels
	}
	// With at least as many clusters as rows, each row gets its own cluster
	// and the surplus ids stay empty.
	if k >= n {
		for i := range labels {
			labels[i] = i
		}
		return labels
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := initCentroids(rows, k, rng)

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, row := range rows {
			best := nearestCentroid(row, centroids)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}
		recomputeCentroids(rows, labels, centroids)
	}

	return labels
}

// initCentroids seeds k centroids with the k-means++ scheme: the first pick
// is uniform, each further pick favors points far from the chosen set.
func initCentroids(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	dim := len(rows[0])
	centroids := make([][]float64, 0, k)

	first := rng.Intn(len(rows))
	centroids = append(centroids, append([]float64(nil), rows[first]...))

	dist2 := make([]float64, len(rows))
	for len(centroids) < k {
		var total float64
		for i, row := range rows {
			d := squaredDistance(row, centroids[len(centroids)-1])
			if len(centroids) == 1 || d < dist2[i] {
				dist2[i] = d
			}
			total += dist2[i]
		}

		next := 0
		if total > 0 {
			target := rng.Float64() * total
			var cum float64
			for i, d := range dist2 {
				cum += d
				if cum >= target {
					next = i
					break
				}
			}
		} else {
			next = rng.Intn(len(rows))
		}
		centroid := make([]float64, dim)
		copy(centroid, rows[next])
		centroids = append(centroids, centroid)
	}

	return centroids
}

// nearestCentroid returns the index of the closest centroid, lowest index
// winning ties.
func nearestCentroid(row []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for j, c := range centroids {
		if d := squaredDistance(row, c); d < bestDist {
			bestDist = d
			best = j
		}
	}
	return best
}

// recomputeCentroids moves each centroid to the mean of its members.
// A centroid that lost every member keeps its previous position.
func recomputeCentroids(rows [][]float64, labels []int, centroids [][]float64) {
	dim := len(rows[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for j := range sums {
		sums[j] = make([]float64, dim)
	}
	for i, row := range rows {
		floats.Add(sums[labels[i]], row)
		counts[labels[i]]++
	}
	for j := range centroids {
		if counts[j] == 0 {
			continue
		}
		floats.Scale(1/float64(counts[j]), sums[j])
		copy(centroids[j], sums[j])
	}
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
