package usecase

import (
	"testing"

	"github.com/swaplens/backend/internal/domain"
)

func TestClassify(t *testing.T) {
	classifier := NewClassifier()

	t.Run("earlier-declared entry wins ties", func(t *testing.T) {
		// Matches both the granola-bar and chocolate detection keywords;
		// granola bars are declared first.
		ptype, ok := classifier.Classify("chocolate chip granola bar")
		if !ok {
			t.Fatal("expected a classification")
		}
		if ptype.Name != "granola bars" {
			t.Errorf("type = %s, want granola bars", ptype.Name)
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		first, ok := classifier.Classify("sea salt potato chips")
		if !ok {
			t.Fatal("expected a classification")
		}
		for i := 0; i < 10; i++ {
			again, _ := classifier.Classify("sea salt potato chips")
			if again.Name != first.Name {
				t.Fatalf("classification changed between runs: %s vs %s", first.Name, again.Name)
			}
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		ptype, ok := classifier.Classify("LAY'S POTATO CHIPS")
		if !ok || ptype.Name != "chips" {
			t.Errorf("type = %v (%v), want chips", ptype, ok)
		}
	})

	t.Run("unmatchable text returns none", func(t *testing.T) {
		if _, ok := classifier.Classify("zzyzx elixir"); ok {
			t.Error("expected no classification")
		}
	})

	t.Run("every taxonomy entry has required keywords", func(t *testing.T) {
		for _, entry := range productTaxonomy {
			if len(entry.MustContain) == 0 {
				t.Errorf("type %s has an empty MustContain set", entry.Name)
			}
			if len(entry.Keywords) == 0 {
				t.Errorf("type %s has no detection keywords", entry.Name)
			}
			if entry.FallbackQuery == "" {
				t.Errorf("type %s has no fallback query", entry.Name)
			}
		}
	})
}

func TestMatchesType(t *testing.T) {
	chips := &domain.ProductType{
		Name:        "chips",
		MustContain: []string{"chip"},
		Exclude:     []string{"cookie"},
	}

	t.Run("requires at least one must-contain keyword", func(t *testing.T) {
		if MatchesType("dried mango slices", chips) {
			t.Error("matched without any required keyword")
		}
		if !MatchesType("kettle cooked potato chips", chips) {
			t.Error("did not match with required keyword present")
		}
	})

	t.Run("exclusion has veto power", func(t *testing.T) {
		// Contains both the required "chip" and the excluded "cookie".
		if MatchesType("chocolate chip cookie", chips) {
			t.Error("excluded keyword did not veto the match")
		}
	})

	t.Run("empty exclude set never vetoes", func(t *testing.T) {
		open := &domain.ProductType{Name: "open", MustContain: []string{"chip"}}
		if !MatchesType("banana chips", open) {
			t.Error("match failed with empty exclude set")
		}
	})
}
