package segmentation

import (
	"errors"
	"reflect"
	"testing"
)

// Two tight, well-separated blobs.
func blobs() [][]float64 {
	return [][]float64{
		{0, 0}, {0.1, 0}, {0, 0.1}, {0.1, 0.1},
		{10, 10}, {10.1, 10}, {10, 10.1}, {10.1, 10.1},
	}
}

func TestCluster_SeparatesBlobs(t *testing.T) {
	res, err := Cluster(blobs(), 2)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}

	if len(res.Labels) != 8 {
		t.Fatalf("got %d labels, want 8", len(res.Labels))
	}
	// All points of a blob share one label, and the blobs differ.
	for i := 1; i < 4; i++ {
		if res.Labels[i] != res.Labels[0] {
			t.Errorf("first blob split: labels %v", res.Labels)
		}
	}
	for i := 5; i < 8; i++ {
		if res.Labels[i] != res.Labels[4] {
			t.Errorf("second blob split: labels %v", res.Labels)
		}
	}
	if res.Labels[0] == res.Labels[4] {
		t.Errorf("blobs merged: labels %v", res.Labels)
	}

	// Clean separation scores close to 1.
	if res.Silhouette < 0.9 {
		t.Errorf("Silhouette = %f, want > 0.9", res.Silhouette)
	}
	if len(res.Centroids) != 2 {
		t.Errorf("got %d centroids, want 2", len(res.Centroids))
	}
}

func TestCluster_Deterministic(t *testing.T) {
	first, err := Cluster(blobs(), 2)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := Cluster(blobs(), 2)
		if err != nil {
			t.Fatalf("Cluster failed: %v", err)
		}
		if !reflect.DeepEqual(first.Labels, again.Labels) {
			t.Fatalf("labels differ across runs: %v vs %v", first.Labels, again.Labels)
		}
		if first.Silhouette != again.Silhouette {
			t.Fatalf("silhouette differs across runs: %f vs %f", first.Silhouette, again.Silhouette)
		}
	}
}

func TestCluster_TooFewPoints(t *testing.T) {
	_, err := Cluster([][]float64{{1, 2}}, 3)
	if !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("expected ErrTooFewPoints, got %v", err)
	}
}

func TestCluster_InvalidK(t *testing.T) {
	if _, err := Cluster(blobs(), 0); err == nil {
		t.Error("expected error for k = 0")
	}
}

func TestCluster_KEqualsN(t *testing.T) {
	x := [][]float64{{0, 0}, {5, 5}, {10, 10}}
	res, err := Cluster(x, 3)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}
	seen := make(map[int]bool)
	for _, l := range res.Labels {
		seen[l] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 distinct labels, got %v", res.Labels)
	}
}
