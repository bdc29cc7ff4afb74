package model

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/equipsense/equipsense/internal/feature"
)

// writeArtifact marshals v to dir/name.
func writeArtifact(t *testing.T, dir, name string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// leafForest is a single tree with one leaf that always predicts v.
func leafForest(v float64) forest {
	return forest{Trees: []tree{{
		Feature:   []int{-2},
		Threshold: []float64{0},
		Left:      []int{-1},
		Right:     []int{-1},
		Value:     []float64{v},
	}}}
}

// identityScaler leaves every slot unchanged.
func identityScaler() scaler {
	n := len(feature.Names)
	s := scaler{Mean: make([]float64, n), Scale: make([]float64, n)}
	for i := range s.Scale {
		s.Scale[i] = 1
	}
	return s
}

// writeBundle lays down a complete, valid artifact set predicting score.
func writeBundle(t *testing.T, dir string, score float64) {
	t.Helper()
	writeArtifact(t, dir, FeatureNamesFile, feature.Names)
	writeArtifact(t, dir, ScalerFile, identityScaler())
	writeArtifact(t, dir, EncoderFile, feature.DefaultVocabulary())
	writeArtifact(t, dir, ModelFile, leafForest(score))
	writeArtifact(t, dir, MetadataFile, Metadata{
		TrainedAt: "2026-08-01T00:00:00Z",
		ModelType: "random_forest_regressor",
		NFeatures: len(feature.Names),
	})
}

func TestLoad_CompleteBundle(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, 88)

	b, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := b.Vocabulary()["pump"]; got != 7 {
		t.Errorf("Vocabulary()[pump] = %d, want 7", got)
	}
	meta := b.Metadata()
	if meta == nil || meta.ModelType != "random_forest_regressor" {
		t.Errorf("Metadata = %+v, want random_forest_regressor", meta)
	}

	vec := make([]float64, len(feature.Names))
	got, err := b.Predict(vec)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != 88 {
		t.Errorf("Predict = %.1f, want 88 (constant leaf)", got)
	}
}

func TestLoad_MissingArtifactFails(t *testing.T) {
	for _, missing := range []string{FeatureNamesFile, ScalerFile, EncoderFile, ModelFile} {
		dir := t.TempDir()
		writeBundle(t, dir, 75)
		if err := os.Remove(filepath.Join(dir, missing)); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(dir); err == nil {
			t.Errorf("Load without %s: expected error, got nil", missing)
		}
	}
}

func TestLoad_MissingMetadataIsFine(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, 75)
	if err := os.Remove(filepath.Join(dir, MetadataFile)); err != nil {
		t.Fatal(err)
	}
	b, err := Load(dir)
	if err != nil {
		t.Fatalf("Load without metadata: %v", err)
	}
	if b.Metadata() != nil {
		t.Errorf("Metadata = %+v, want nil", b.Metadata())
	}
}

func TestLoad_FeatureOrderMismatchFails(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, 75)

	// Swap two names: same set, different order.
	names := append([]string(nil), feature.Names...)
	names[1], names[2] = names[2], names[1]
	writeArtifact(t, dir, FeatureNamesFile, names)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load with reordered features: expected error, got nil")
	}
	if !strings.Contains(err.Error(), "feature order mismatch") {
		t.Errorf("error %q should name the order mismatch", err)
	}
}

func TestLoad_FeatureCountMismatchFails(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, 75)
	writeArtifact(t, dir, FeatureNamesFile, feature.Names[:5])
	if _, err := Load(dir); err == nil {
		t.Fatal("Load with truncated feature list: expected error, got nil")
	}
}

func TestLoad_MalformedForestFails(t *testing.T) {
	tests := []struct {
		name string
		f    forest
	}{
		{"no trees", forest{}},
		{"inconsistent arrays", forest{Trees: []tree{{
			Feature: []int{0, 1}, Threshold: []float64{1}, Left: []int{-1}, Right: []int{-1}, Value: []float64{1},
		}}}},
		{"out-of-range child", forest{Trees: []tree{{
			Feature: []int{0}, Threshold: []float64{1}, Left: []int{5}, Right: []int{6}, Value: []float64{1},
		}}}},
		{"unknown feature index", forest{Trees: []tree{{
			Feature:   []int{99, -2, -2},
			Threshold: []float64{1, 0, 0},
			Left:      []int{1, -1, -1},
			Right:     []int{2, -1, -1},
			Value:     []float64{0, 1, 2},
		}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeBundle(t, dir, 75)
			writeArtifact(t, dir, ModelFile, tc.f)
			if _, err := Load(dir); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestPredict_ScalerAndSplitArithmetic(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, 0)

	// Scaler shifts slot 1 (operating_hours) by mean 1000, scale 500;
	// the tree splits on the scaled value at threshold 0.
	s := identityScaler()
	s.Mean[1] = 1000
	s.Scale[1] = 500
	writeArtifact(t, dir, ScalerFile, s)
	writeArtifact(t, dir, ModelFile, forest{Trees: []tree{{
		Feature:   []int{1, -2, -2},
		Threshold: []float64{0, 0, 0},
		Left:      []int{1, -1, -1},
		Right:     []int{2, -1, -1},
		Value:     []float64{0, 90, 40},
	}}})

	b, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	vec := make([]float64, len(feature.Names))

	// hours 800: scaled (800-1000)/500 = -0.4 <= 0, left leaf 90.
	vec[1] = 800
	if got, _ := b.Predict(vec); got != 90 {
		t.Errorf("Predict(hours=800) = %.1f, want 90", got)
	}

	// hours 1600: scaled (1600-1000)/500 = 1.2 > 0, right leaf 40.
	vec[1] = 1600
	if got, _ := b.Predict(vec); got != 40 {
		t.Errorf("Predict(hours=1600) = %.1f, want 40", got)
	}
}

func TestPredict_AveragesTrees(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, 0)
	writeArtifact(t, dir, ModelFile, forest{Trees: []tree{
		leafForest(60).Trees[0],
		leafForest(80).Trees[0],
	}})

	b, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, err := b.Predict(make([]float64, len(feature.Names)))
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != 70 {
		t.Errorf("Predict = %.1f, want 70 (mean of 60 and 80)", got)
	}
}

func TestPredict_RejectsWrongVectorLength(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, 75)
	b, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := b.Predict(make([]float64, 3)); err == nil {
		t.Error("Predict with short vector: expected error, got nil")
	}
}

func TestPredict_RejectsNonFinite(t *testing.T) {
	// NaN cannot round-trip through JSON, so build the bundle directly.
	b := &Bundle{
		names:  feature.Names,
		scaler: identityScaler(),
		forest: leafForest(math.NaN()),
	}
	if _, err := b.Predict(make([]float64, len(feature.Names))); err == nil {
		t.Error("Predict yielding NaN: expected error, got nil")
	}
}

func TestScaler_ZeroScaleGuard(t *testing.T) {
	s := scaler{Mean: []float64{10}, Scale: []float64{0}}
	out := s.transform([]float64{14})
	if out[0] != 4 {
		t.Errorf("transform with zero scale = %.1f, want 4 (scale treated as 1)", out[0])
	}
}
