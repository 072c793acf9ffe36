package ranking

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultWeights tests the default configuration values.
func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()

	if w.Heuristic.Recency != 0.6 {
		t.Errorf("Heuristic.Recency = %f, want 0.6", w.Heuristic.Recency)
	}
	if w.Heuristic.Engagement != 0.4 {
		t.Errorf("Heuristic.Engagement = %f, want 0.4", w.Heuristic.Engagement)
	}
	if w.Heuristic.Likes != 0.4 || w.Heuristic.Comments != 0.3 || w.Heuristic.Shares != 0.3 {
		t.Errorf("engagement mix = %f/%f/%f, want 0.4/0.3/0.3",
			w.Heuristic.Likes, w.Heuristic.Comments, w.Heuristic.Shares)
	}
	if w.Hybrid.Relevance != 0.7 || w.Hybrid.Heuristic != 0.3 {
		t.Errorf("hybrid blend = %f/%f, want 0.7/0.3", w.Hybrid.Relevance, w.Hybrid.Heuristic)
	}
	if w.Diversify.AuthorPenalty != 0.2 || w.Diversify.TagPenalty != 0.1 {
		t.Errorf("diversify penalties = %f/%f, want 0.2/0.1",
			w.Diversify.AuthorPenalty, w.Diversify.TagPenalty)
	}
	want := InteractionWeights{View: 0.2, Like: 1.0, Comment: 1.5, Share: 2.0}
	if w.Interactions != want {
		t.Errorf("interaction weights = %+v, want %+v", w.Interactions, want)
	}
}

// TestLoadCalibration_EmptyPath tests that no file path returns defaults
// without error.
func TestLoadCalibration_EmptyPath(t *testing.T) {
	w, err := LoadCalibration("")
	if err != nil {
		t.Errorf("LoadCalibration(\"\") returned error: %v", err)
	}
	if w.Hybrid.Relevance != 0.7 {
		t.Errorf("expected defaults, got relevance %f", w.Hybrid.Relevance)
	}
}

// TestLoadCalibration_MissingFile tests graceful degradation: defaults plus
// an error.
func TestLoadCalibration_MissingFile(t *testing.T) {
	w, err := LoadCalibration("/nonexistent/calibration.json")
	if err == nil {
		t.Error("expected error for missing file")
	}
	if w == nil {
		t.Fatal("expected default weights despite error")
	}
	if w.Hybrid.Relevance != 0.7 {
		t.Errorf("expected defaults, got relevance %f", w.Hybrid.Relevance)
	}
}

// TestLoadCalibration_InvalidJSON tests graceful degradation on a corrupt
// file.
func TestLoadCalibration_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	w, err := LoadCalibration(path)
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
	if w == nil || w.Hybrid.Relevance != 0.7 {
		t.Error("expected default weights despite parse error")
	}
}

// TestLoadCalibration_PartialOverride tests merging a partial calibration
// file with defaults.
func TestLoadCalibration_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.json")
	content := `{
		"version": "1",
		"weights": {
			"hybrid": {"relevance": 0.8},
			"diversify": {"tag_penalty": 0.25}
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	w, err := LoadCalibration(path)
	if err != nil {
		t.Fatalf("LoadCalibration failed: %v", err)
	}

	if w.Hybrid.Relevance != 0.8 {
		t.Errorf("Hybrid.Relevance = %f, want 0.8 (overridden)", w.Hybrid.Relevance)
	}
	if w.Hybrid.Heuristic != 0.3 {
		t.Errorf("Hybrid.Heuristic = %f, want 0.3 (default preserved)", w.Hybrid.Heuristic)
	}
	if w.Diversify.TagPenalty != 0.25 {
		t.Errorf("Diversify.TagPenalty = %f, want 0.25 (overridden)", w.Diversify.TagPenalty)
	}
	if w.Diversify.AuthorPenalty != 0.2 {
		t.Errorf("Diversify.AuthorPenalty = %f, want 0.2 (default preserved)", w.Diversify.AuthorPenalty)
	}
	if w.Heuristic.Recency != 0.6 {
		t.Errorf("Heuristic.Recency = %f, want 0.6 (default preserved)", w.Heuristic.Recency)
	}
}

// TestMergeCalibration tests merge edge cases.
func TestMergeCalibration(t *testing.T) {
	t.Run("nil base returns defaults", func(t *testing.T) {
		w := MergeCalibration(nil, &Weights{Hybrid: HybridWeights{Relevance: 0.9}})
		if w.Hybrid.Relevance != 0.7 {
			t.Errorf("expected defaults from nil base, got %f", w.Hybrid.Relevance)
		}
	})

	t.Run("nil override returns copy of base", func(t *testing.T) {
		base := DefaultWeights()
		w := MergeCalibration(base, nil)
		if w == base {
			t.Error("expected a copy, got the same pointer")
		}
		if *w != *base {
			t.Error("copy should equal base")
		}
	})

	t.Run("zero values do not override", func(t *testing.T) {
		w := MergeCalibration(DefaultWeights(), &Weights{})
		if *w != *DefaultWeights() {
			t.Error("zero override should leave defaults intact")
		}
	})

	t.Run("interaction weights override", func(t *testing.T) {
		w := MergeCalibration(DefaultWeights(), &Weights{
			Interactions: InteractionWeights{Like: 0.5, Share: 3.0},
		})
		if w.Interactions.Like != 0.5 {
			t.Errorf("Interactions.Like = %f, want 0.5 (overridden)", w.Interactions.Like)
		}
		if w.Interactions.Share != 3.0 {
			t.Errorf("Interactions.Share = %f, want 3.0 (overridden)", w.Interactions.Share)
		}
		if w.Interactions.View != 0.2 {
			t.Errorf("Interactions.View = %f, want 0.2 (default preserved)", w.Interactions.View)
		}
		if w.Interactions.Comment != 1.5 {
			t.Errorf("Interactions.Comment = %f, want 1.5 (default preserved)", w.Interactions.Comment)
		}
	})
}
