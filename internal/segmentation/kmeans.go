package segmentation

import (
	"errors"
	"math"
	"math/rand"
)

// ErrTooFewPoints is returned when the matrix has fewer rows than clusters.
var ErrTooFewPoints = errors.New("fewer points than clusters")

const (
	kmeansMaxIterations = 100
	// defaultSeed pins initialization so repeated runs over the same
	// matrix produce the same clustering.
	defaultSeed = 42
)

// ClusterResult holds the k-means labeling of a feature matrix.
type ClusterResult struct {
	Labels     []int
	Centroids  [][]float64
	Silhouette float64
}

// Cluster runs k-means with a fixed seed over the feature matrix and scores
// the labeling with the mean silhouette coefficient.
func Cluster(x [][]float64, k int) (*ClusterResult, error) {
	if k <= 0 {
		return nil, errors.New("clusters must be positive")
	}
	if len(x) < k {
		return nil, ErrTooFewPoints
	}

	labels, centroids := kmeans(x, k, rand.New(rand.NewSource(defaultSeed)))
	return &ClusterResult{
		Labels:     labels,
		Centroids:  centroids,
		Silhouette: silhouette(x, labels, k),
	}, nil
}

func kmeans(x [][]float64, k int, rng *rand.Rand) ([]int, [][]float64) {
	dim := len(x[0])

	// Initialize centroids on distinct random points.
	centroids := make([][]float64, k)
	for i, p := range rng.Perm(len(x))[:k] {
		centroids[i] = append([]float64(nil), x[p]...)
	}

	labels := make([]int, len(x))
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, p := range x {
			best := nearestCentroid(p, centroids)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids; an emptied cluster keeps its previous one.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range x {
			c := labels[i]
			counts[c]++
			for d, v := range p {
				sums[c][d] += v
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			for d := range centroids[c] {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	return labels, centroids
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// silhouette is the mean silhouette coefficient over all points:
// (b - a) / max(a, b), with a the mean intra-cluster distance and b the
// smallest mean distance to another cluster. Points in singleton clusters
// score 0.
func silhouette(x [][]float64, labels []int, k int) float64 {
	n := len(x)
	if n == 0 || k < 2 {
		return 0
	}

	clusterSizes := make([]int, k)
	for _, l := range labels {
		clusterSizes[l]++
	}

	total := 0.0
	for i, p := range x {
		meanDist := make([]float64, k)
		for j, q := range x {
			if i == j {
				continue
			}
			meanDist[labels[j]] += math.Sqrt(sqDist(p, q))
		}

		own := labels[i]
		if clusterSizes[own] < 2 {
			continue
		}

		a := meanDist[own] / float64(clusterSizes[own]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || clusterSizes[c] == 0 {
				continue
			}
			if d := meanDist[c] / float64(clusterSizes[c]); d < b {
				b = d
			}
		}

		if denom := math.Max(a, b); denom > 0 && !math.IsInf(b, 1) {
			total += (b - a) / denom
		}
	}

	return total / float64(n)
}
