// Command equipsense assesses a single telemetry reading from stdin and
// writes the assessment envelope to stdout. Logs go to stderr so stdout
// stays machine-parseable. Exit status is 0 on success and 1 on any
// failure, matching the envelope's success flag.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/equipsense/equipsense/internal/model"
	"github.com/equipsense/equipsense/internal/predict"
	"github.com/equipsense/equipsense/internal/telemetry"
)

func main() {
	modelDir := flag.String("model-dir", "models", "directory holding the regression artifact bundle")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	os.Exit(run(*modelDir, os.Stdin, os.Stdout))
}

func run(modelDir string, in io.Reader, out io.Writer) int {
	data, err := io.ReadAll(in)
	if err != nil {
		return fail(out, fmt.Errorf("read input: %w", err))
	}

	predictor := newPredictor(modelDir)

	rec, err := telemetry.DecodeBytes(data)
	if err != nil {
		return fail(out, err)
	}

	a, err := predictor.Assess(rec)
	if err != nil {
		return fail(out, err)
	}

	writeEnvelope(out, predict.Succeed(a))
	return 0
}

// newPredictor loads the artifact bundle, falling back to the rule engine
// when the bundle is absent or unreadable. The fallback is routine, not an
// error: deployments without trained artifacts are supported.
func newPredictor(dir string) *predict.Predictor {
	bundle, err := model.Load(dir)
	if err != nil {
		slog.Info("model bundle unavailable, using rule-based assessment", "dir", dir, "reason", err)
		return predict.NewRuleOnly()
	}
	if meta := bundle.Metadata(); meta != nil {
		slog.Info("model bundle loaded", "dir", dir, "model_type", meta.ModelType, "trained_at", meta.TrainedAt)
	} else {
		slog.Info("model bundle loaded", "dir", dir)
	}
	return predict.New(bundle)
}

func fail(out io.Writer, err error) int {
	slog.Error("assessment failed", "err", err)
	writeEnvelope(out, predict.Fail(err))
	return 1
}

func writeEnvelope(out io.Writer, resp predict.Response) {
	enc := json.NewEncoder(out)
	if err := enc.Encode(resp); err != nil {
		slog.Error("failed to write response envelope", "err", err)
	}
}
