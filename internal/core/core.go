package core

import "time"

// Category identifies one of the two sections of an insight batch.
type Category string

const (
	CategoryAI Category = "ai" // AI industry developments (recent)
	CategoryPM Category = "pm" // Product management practice (evergreen)
)

// Categories lists every category in batch order.
var Categories = []Category{CategoryAI, CategoryPM}

// Label returns the human-readable section name for the category.
func (c Category) Label() string {
	switch c {
	case CategoryAI:
		return "AI Insights"
	case CategoryPM:
		return "Product Management Insights"
	default:
		return string(c)
	}
}

// InsightRecord is one curated item produced by the model or taken from fallback content.
type InsightRecord struct {
	Title              string   `json:"title"`                         // Headline of the item
	Summary            string   `json:"summary"`                       // 2-3 sentence explanation
	Rationale          string   `json:"rationale"`                     // One sentence on why it matters to the team
	Source             string   `json:"source,omitempty"`              // Publication name
	URL                string   `json:"url,omitempty"`                 // Link to the item (may be model-generated)
	SearchTerms        []string `json:"search_terms,omitempty"`        // Queries a reader can use to find the item
	RecommendedSources []string `json:"recommended_sources,omitempty"` // Publications worth checking for the topic
}

// Valid reports whether the record carries the required title and summary.
func (r InsightRecord) Valid() bool {
	return r.Title != "" && r.Summary != ""
}

// InsightBatch is the output of one generation run.
type InsightBatch struct {
	ID          string          `json:"id"`                     // Unique identifier for the batch
	IssueDate   time.Time       `json:"issue_date"`             // Calendar date of the issue (midnight UTC)
	CreatedAt   time.Time       `json:"created_at"`             // When the batch was generated
	AIItems     []InsightRecord `json:"ai_items"`               // Category A items
	PMItems     []InsightRecord `json:"pm_items"`               // Category B items
	AITopics    []string        `json:"ai_topics"`              // Topics used to build the AI prompt
	PMTopics    []string        `json:"pm_topics"`              // Topics used to build the PM prompt
	TeamContext string          `json:"team_context,omitempty"` // Free-text context supplied by the caller
	ModelUsed   string          `json:"model_used,omitempty"`   // Model identifier sent to the service
	Degraded    []Category      `json:"degraded,omitempty"`     // Categories that fell back to built-in content
}

// Items returns the records for the given category.
func (b InsightBatch) Items(c Category) []InsightRecord {
	switch c {
	case CategoryAI:
		return b.AIItems
	case CategoryPM:
		return b.PMItems
	default:
		return nil
	}
}

// Topics returns the topic labels used for the given category.
func (b InsightBatch) Topics(c Category) []string {
	switch c {
	case CategoryAI:
		return b.AITopics
	case CategoryPM:
		return b.PMTopics
	default:
		return nil
	}
}

// IsDegraded reports whether the category was filled from fallback content.
func (b InsightBatch) IsDegraded(c Category) bool {
	for _, d := range b.Degraded {
		if d == c {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate archived batches through shared slices.
func (b InsightBatch) Clone() InsightBatch {
	out := b
	out.AIItems = cloneRecords(b.AIItems)
	out.PMItems = cloneRecords(b.PMItems)
	out.AITopics = append([]string(nil), b.AITopics...)
	out.PMTopics = append([]string(nil), b.PMTopics...)
	out.Degraded = append([]Category(nil), b.Degraded...)
	return out
}

func cloneRecords(in []InsightRecord) []InsightRecord {
	if in == nil {
		return nil
	}
	out := make([]InsightRecord, len(in))
	for i, r := range in {
		r.SearchTerms = append([]string(nil), r.SearchTerms...)
		r.RecommendedSources = append([]string(nil), r.RecommendedSources...)
		out[i] = r
	}
	return out
}
