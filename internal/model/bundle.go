package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/equipsense/equipsense/internal/feature"
)

// Artifact file names within a bundle directory, as written by the trainer.
const (
	FeatureNamesFile = "feature_names.json"
	ScalerFile       = "scaler.json"
	EncoderFile      = "label_encoder.json"
	ModelFile        = "model.json"
	MetadataFile     = "metadata.json"
)

// Metadata is optional provenance written alongside the artifacts.
type Metadata struct {
	TrainedAt string `json:"trained_at"`
	ModelType string `json:"model_type"`
	NFeatures int    `json:"n_features"`
}

// Bundle is a fully loaded, immutable model artifact set. Safe for
// concurrent use; nothing is mutated after Load returns.
type Bundle struct {
	names  []string
	scaler scaler
	vocab  feature.Vocabulary
	forest forest
	meta   *Metadata
}

// Load reads every artifact from dir. Any missing or malformed artifact
// fails the whole load; callers then run rule-only.
func Load(dir string) (*Bundle, error) {
	b := &Bundle{}

	if err := readJSON(dir, FeatureNamesFile, &b.names); err != nil {
		return nil, err
	}
	if len(b.names) != len(feature.Names) {
		return nil, fmt.Errorf("model: bundle has %d features, encoder expects %d", len(b.names), len(feature.Names))
	}
	for i, name := range b.names {
		if name != feature.Names[i] {
			// Order drift silently corrupts predictions, so it is a hard
			// load failure rather than a warning.
			return nil, fmt.Errorf("model: feature order mismatch at slot %d: bundle has %q, encoder expects %q", i, name, feature.Names[i])
		}
	}

	if err := readJSON(dir, ScalerFile, &b.scaler); err != nil {
		return nil, err
	}
	if err := b.scaler.validate(len(b.names)); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	if err := readJSON(dir, EncoderFile, &b.vocab); err != nil {
		return nil, err
	}
	if len(b.vocab) == 0 {
		return nil, fmt.Errorf("model: label encoder vocabulary is empty")
	}

	if err := readJSON(dir, ModelFile, &b.forest); err != nil {
		return nil, err
	}
	if err := b.forest.validate(len(b.names)); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// Metadata is informational only; absence is not a load failure.
	var meta Metadata
	if err := readJSON(dir, MetadataFile, &meta); err == nil {
		b.meta = &meta
	}

	return b, nil
}

// Vocabulary returns the persisted equipment-type encoding.
func (b *Bundle) Vocabulary() feature.Vocabulary {
	return b.vocab
}

// Metadata returns the bundle's provenance record, or nil if none shipped.
func (b *Bundle) Metadata() *Metadata {
	return b.meta
}

// Predict scales vec and evaluates the forest, returning the raw health
// score estimate. The caller clamps the result into [0, 100].
func (b *Bundle) Predict(vec []float64) (float64, error) {
	if len(vec) != len(b.names) {
		return 0, fmt.Errorf("model: feature vector has %d slots, want %d", len(vec), len(b.names))
	}
	scaled := b.scaler.transform(vec)
	score, err := b.forest.predict(scaled)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("model: prediction is not finite")
	}
	return score, nil
}

// readJSON decodes dir/name into v, wrapping errors with the artifact name.
func readJSON(dir, name string, v any) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("model: read artifact %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("model: parse artifact %s: %w", name, err)
	}
	return nil
}
