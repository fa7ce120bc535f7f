package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insightly/internal/config"
	"insightly/internal/core"
)

func sampleBatch() core.InsightBatch {
	return core.InsightBatch{
		ID:        "batch-1",
		IssueDate: time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC),
		AIItems: []core.InsightRecord{
			{
				Title:       "Agents Reach Production",
				Source:      "The Verge",
				URL:         "https://theverge.com/agents",
				Summary:     "Agents ship to customers.",
				Rationale:   "Workflows beyond Q&A.",
				SearchTerms: []string{"ai agents production"},
			},
			{
				Title:   "Smaller Models",
				Summary: "Distillation closes the gap.",
			},
		},
		PMItems: []core.InsightRecord{
			{
				Title:              "Outcomes Over Output",
				Source:             "SVPG",
				URL:                "https://svpg.com/outcomes",
				Summary:            "Measure results.",
				Rationale:          "Focus the team.",
				RecommendedSources: []string{"SVPG", "Lenny's Newsletter"},
			},
		},
		AITopics: []string{"Generative AI / LLMs"},
		PMTopics: []string{"Product Strategy"},
	}
}

func TestToEmailText_Layout(t *testing.T) {
	text := ToEmailText(sampleBatch(), DefaultEmailOptions())

	assert.True(t, strings.HasPrefix(text, "Subject: Bi-Weekly Insights: AI & Product Management | March 04, 2025\n\nHi team,\n\n"))

	expected := []string{
		"🤖 AI INSIGHTS\n\n1. Agents Reach Production\nSource: The Verge\nLink: https://theverge.com/agents\n\nTLDR: Agents ship to customers.\n\nWhy it matters: Workflows beyond Q&A.\n\n",
		"2. Smaller Models\nSource: \nLink: \n\nTLDR: Distillation closes the gap.\n\nWhy it matters: \n\n",
		"📊 PRODUCT MANAGEMENT INSIGHTS\n\n1. Outcomes Over Output\n",
		"💡 SHARE YOUR INSIGHTS",
		"post in our team channel.",
		"Best,\nYour Product Leadership Team\nAI & PM Insights",
	}
	for _, s := range expected {
		assert.Contains(t, text, s)
	}

	// Section order
	ai := strings.Index(text, "🤖 AI INSIGHTS")
	pm := strings.Index(text, "📊 PRODUCT MANAGEMENT INSIGHTS")
	share := strings.Index(text, "💡 SHARE YOUR INSIGHTS")
	assert.True(t, ai < pm && pm < share, "sections out of order")
	assert.Equal(t, 3, strings.Count(text, divider))
}

func TestToEmailText_BlankFieldsKeepItemShape(t *testing.T) {
	batch := sampleBatch()
	batch.AIItems = []core.InsightRecord{{Title: "Only Required", Summary: "Title and summary."}}
	batch.PMItems = []core.InsightRecord{{Title: "Also Sparse", Summary: "Nothing else."}}

	text := ToEmailText(batch, DefaultEmailOptions())

	for _, title := range []string{"Only Required", "Also Sparse"} {
		start := strings.Index(text, "1. "+title)
		require.GreaterOrEqual(t, start, 0, "missing item %q", title)
		item := text[start:]
		assert.True(t, strings.HasPrefix(item, "1. "+title+"\nSource: \nLink: \n\nTLDR: "), "item %q: %q", title, item)
		assert.Contains(t, item, "\n\nWhy it matters: \n\n")
	}
	assert.Equal(t, 2, strings.Count(text, "Source: "))
	assert.Equal(t, 2, strings.Count(text, "Link: "))
	assert.Equal(t, 2, strings.Count(text, "Why it matters: "))
}

func TestToEmailText_Pure(t *testing.T) {
	batch := sampleBatch()
	opts := DefaultEmailOptions()
	assert.Equal(t, ToEmailText(batch, opts), ToEmailText(batch, opts))
}

func TestEmailOptionsFromConfig(t *testing.T) {
	opts := EmailOptionsFromConfig(config.Newsletter{SenderName: "Dana", Channel: "#product-ai-learning"})
	assert.Equal(t, "Dana", opts.SenderName)
	assert.Equal(t, "#product-ai-learning", opts.Channel)
	assert.Equal(t, "Hi team,", opts.Greeting)

	text := ToEmailText(sampleBatch(), opts)
	assert.Contains(t, text, "post in #product-ai-learning.")
	assert.Contains(t, text, "Best,\nDana\n")
}

func TestToJSON(t *testing.T) {
	data, err := ToJSON(sampleBatch())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "batch-1", decoded["id"])
	assert.Len(t, decoded["ai_items"], 2)
	assert.Len(t, decoded["pm_items"], 1)
	assert.Contains(t, string(data), "\n  \"issue_date\"")
}

func TestToMarkdown(t *testing.T) {
	md := ToMarkdown(sampleBatch())

	assert.Contains(t, md, "# Bi-Weekly Insights: AI & Product Management")
	assert.Contains(t, md, "*March 04, 2025*")
	assert.Contains(t, md, "## 🤖 AI Insights")
	assert.Contains(t, md, "### 1. [Agents Reach Production](https://theverge.com/agents)")
	assert.Contains(t, md, "### 2. Smaller Models")
	assert.Contains(t, md, "**Search for:** ai agents production")
	assert.Contains(t, md, "**Also check:** SVPG, Lenny's Newsletter")
	assert.Contains(t, md, "*Topics: Product Strategy*")
}

func TestToHTML(t *testing.T) {
	out := ToHTML(sampleBatch())

	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Agents Reach Production")
	assert.Contains(t, out, `href="https://theverge.com/agents"`)
	assert.Contains(t, out, `target="_blank"`)
	assert.Contains(t, out, "<h2")
}

func TestFilename(t *testing.T) {
	batch := sampleBatch()
	tests := []struct {
		ext      string
		expected string
	}{
		{"json", "newsletter_March_04_2025.json"},
		{".md", "newsletter_March_04_2025.md"},
	}
	for _, tt := range tests {
		if got := Filename(batch, tt.ext); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}

	if got := FilenameFor(batch, FormatEmail); got != "newsletter_email_March_04_2025.txt" {
		t.Errorf("Expected email filename, got %s", got)
	}
	if got := FilenameFor(batch, FormatHTML); got != "newsletter_March_04_2025.html" {
		t.Errorf("Expected html filename, got %s", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"email", FormatEmail, false},
		{"", FormatEmail, false},
		{"TXT", FormatEmail, false},
		{"json", FormatJSON, false},
		{"md", FormatMarkdown, false},
		{"html", FormatHTML, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q): Expected %s, got %s", tt.input, tt.want, got)
		}
	}
}

func TestRender_AllFormats(t *testing.T) {
	for _, f := range Formats {
		out, err := Render(sampleBatch(), f, DefaultEmailOptions())
		require.NoError(t, err, f)
		assert.Contains(t, string(out), "Outcomes Over Output", f)
	}
}

func TestWriteToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	path, err := WriteToFile([]byte("hello"), dir, "newsletter_March_04_2025.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "newsletter_March_04_2025.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}
