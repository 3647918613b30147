package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app:
  name: lobwin-test
  log_level: debug
data:
  train_files:
    - data/Train_Dst_NoAuction_ZScore_CF_7.txt
  test_files:
    - data/Test_Dst_NoAuction_ZScore_CF_7.txt
    - data/Test_Dst_NoAuction_ZScore_CF_8.txt
dataset:
  window_length: 50
  horizon_index: 2
  data_version: 3
augment:
  enabled: true
  seed: 7
vector:
  dim: 48
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Name != "lobwin-test" || cfg.App.LogLevel != "debug" {
		t.Fatalf("app config %+v", cfg.App)
	}
	if cfg.Dataset.WindowLength != 50 || cfg.Dataset.Horizon() != 2 || cfg.Dataset.DataVersion != 3 {
		t.Fatalf("dataset config %+v", cfg.Dataset)
	}
	if !cfg.Augment.Enabled || cfg.Augment.Seed != 7 {
		t.Fatalf("augment config %+v", cfg.Augment)
	}
	if cfg.Vector.Dim != 48 {
		t.Fatalf("vector dim %d", cfg.Vector.Dim)
	}
	// Unset fields pick up defaults.
	if cfg.Augment.NoiseStd != 0.001 || cfg.Vector.ClipStd != 3.0 {
		t.Fatalf("defaults not applied: %+v %+v", cfg.Augment, cfg.Vector)
	}
	if cfg.NATS.Stream != "lobwin" {
		t.Fatalf("nats stream %q", cfg.NATS.Stream)
	}

	files, err := cfg.SplitFiles(SplitTest)
	if err != nil {
		t.Fatalf("SplitFiles: %v", err)
	}
	if len(files) != 2 || !strings.HasSuffix(files[1], "CF_8.txt") {
		t.Fatalf("test files %v", files)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Dataset.WindowLength != 100 {
		t.Fatalf("window_length default %d", cfg.Dataset.WindowLength)
	}
	if cfg.Dataset.Horizon() != 4 {
		t.Fatalf("horizon default %d", cfg.Dataset.Horizon())
	}
	if cfg.Augment.Seed != 42 {
		t.Fatalf("seed default %d", cfg.Augment.Seed)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_ExplicitHorizonZero(t *testing.T) {
	path := writeConfig(t, "dataset:\n  horizon_index: 0\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dataset.Horizon() != 0 {
		t.Fatalf("explicit horizon_index 0 became %d", cfg.Dataset.Horizon())
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"bad horizon", "dataset:\n  horizon_index: 5\n", "horizon_index"},
		{"negative window", "dataset:\n  window_length: -1\n", "window_length"},
		{"bad vector dim", "vector:\n  dim: 100\n", "vector.dim"},
		{"bad dropout", "augment:\n  level_dropout: 1.5\n", "level_dropout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.yaml)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %s", err, tc.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSplitFiles_Errors(t *testing.T) {
	cfg := Default()
	if _, err := cfg.SplitFiles("holdout"); err == nil {
		t.Fatal("expected error for unknown split")
	}
	if _, err := cfg.SplitFiles(SplitTrain); err == nil {
		t.Fatal("expected error for empty split file list")
	}
}
