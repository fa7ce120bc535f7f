package core

import (
	"testing"
	"time"
)

func TestInsightRecordValid(t *testing.T) {
	tests := []struct {
		name   string
		record InsightRecord
		want   bool
	}{
		{"complete", InsightRecord{Title: "T", Summary: "S", Rationale: "R"}, true},
		{"no rationale", InsightRecord{Title: "T", Summary: "S"}, true},
		{"missing title", InsightRecord{Summary: "S"}, false},
		{"missing summary", InsightRecord{Title: "T"}, false},
		{"empty", InsightRecord{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInsightBatchItemsByCategory(t *testing.T) {
	batch := InsightBatch{
		AIItems:  []InsightRecord{{Title: "ai"}},
		PMItems:  []InsightRecord{{Title: "pm"}, {Title: "pm2"}},
		AITopics: []string{"Multilingual AI"},
		PMTopics: []string{"Product Strategy"},
	}

	if len(batch.Items(CategoryAI)) != 1 {
		t.Errorf("Expected 1 AI item, got %d", len(batch.Items(CategoryAI)))
	}
	if len(batch.Items(CategoryPM)) != 2 {
		t.Errorf("Expected 2 PM items, got %d", len(batch.Items(CategoryPM)))
	}
	if batch.Items(Category("other")) != nil {
		t.Error("Unknown category should have no items")
	}
	if batch.Topics(CategoryPM)[0] != "Product Strategy" {
		t.Errorf("Expected PM topic 'Product Strategy', got %v", batch.Topics(CategoryPM))
	}
}

func TestInsightBatchClone(t *testing.T) {
	original := InsightBatch{
		ID:        "batch-1",
		IssueDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		AIItems:   []InsightRecord{{Title: "a", Summary: "s", SearchTerms: []string{"q"}}},
		PMItems:   []InsightRecord{{Title: "b", Summary: "s"}},
		AITopics:  []string{"Multilingual AI"},
		Degraded:  []Category{CategoryPM},
	}

	clone := original.Clone()
	clone.AIItems[0].Title = "changed"
	clone.AIItems[0].SearchTerms[0] = "changed"
	clone.AITopics[0] = "changed"

	if original.AIItems[0].Title != "a" {
		t.Error("Clone should not share item slices")
	}
	if original.AIItems[0].SearchTerms[0] != "q" {
		t.Error("Clone should not share search term slices")
	}
	if original.AITopics[0] != "Multilingual AI" {
		t.Error("Clone should not share topic slices")
	}
	if !clone.IsDegraded(CategoryPM) || clone.IsDegraded(CategoryAI) {
		t.Errorf("Degraded categories not preserved: %v", clone.Degraded)
	}
}

func TestTopicEnumerations(t *testing.T) {
	if len(AITopics) != 8 || len(PMTopics) != 8 {
		t.Fatalf("Expected 8 topics per category, got %d and %d", len(AITopics), len(PMTopics))
	}
	if !IsKnownTopic(CategoryAI, "Generative AI / LLMs") {
		t.Error("Generative AI / LLMs should be a known AI topic")
	}
	if IsKnownTopic(CategoryAI, "Product Strategy") {
		t.Error("Product Strategy belongs to the PM enumeration")
	}
	if !IsKnownTopic(CategoryPM, "Product Strategy") {
		t.Error("Product Strategy should be a known PM topic")
	}

	defaults := DefaultTopics(CategoryPM)
	if len(defaults) != 3 || defaults[0] != "AI-First Product Management" {
		t.Errorf("Unexpected PM defaults: %v", defaults)
	}
	defaults[0] = "mutated"
	if PMTopics[0] != "AI-First Product Management" {
		t.Error("DefaultTopics must return a copy")
	}
}

func TestCategoryLabel(t *testing.T) {
	if CategoryAI.Label() != "AI Insights" {
		t.Errorf("Unexpected AI label %q", CategoryAI.Label())
	}
	if CategoryPM.Label() != "Product Management Insights" {
		t.Errorf("Unexpected PM label %q", CategoryPM.Label())
	}
}
