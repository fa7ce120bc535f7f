package export

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"insightly/internal/core"
)

// ToMarkdown renders a readable page: heading, one section per category, numbered items.
func ToMarkdown(batch core.InsightBatch) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Bi-Weekly Insights: AI & Product Management\n\n*%s*\n\n", FormatIssueDate(batch)))

	for _, c := range core.Categories {
		b.WriteString(fmt.Sprintf("## %s %s\n\n", categoryIcon(c), c.Label()))
		if topics := batch.Topics(c); len(topics) > 0 {
			b.WriteString(fmt.Sprintf("*Topics: %s*\n\n", strings.Join(topics, ", ")))
		}

		for i, item := range batch.Items(c) {
			if item.URL != "" {
				b.WriteString(fmt.Sprintf("### %d. [%s](%s)\n\n", i+1, item.Title, item.URL))
			} else {
				b.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, item.Title))
			}
			if item.Source != "" {
				b.WriteString(fmt.Sprintf("**Source:** %s\n\n", item.Source))
			}
			b.WriteString(fmt.Sprintf("**TLDR:** %s\n\n", item.Summary))
			if item.Rationale != "" {
				b.WriteString(fmt.Sprintf("**Why it matters:** %s\n\n", item.Rationale))
			}
			if len(item.SearchTerms) > 0 {
				b.WriteString(fmt.Sprintf("**Search for:** %s\n\n", strings.Join(item.SearchTerms, "; ")))
			}
			if len(item.RecommendedSources) > 0 {
				b.WriteString(fmt.Sprintf("**Also check:** %s\n\n", strings.Join(item.RecommendedSources, ", ")))
			}
		}
		b.WriteString("---\n\n")
	}

	return b.String()
}

// ToHTML renders the Markdown page as an HTML email body.
func ToHTML(batch core.InsightBatch) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	mdParser := parser.NewWithExtensions(extensions)

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank | html.CompletePage,
		Title: "Bi-Weekly Insights | " + FormatIssueDate(batch),
	})

	return string(markdown.ToHTML([]byte(ToMarkdown(batch)), mdParser, renderer))
}

func categoryIcon(c core.Category) string {
	if c == core.CategoryAI {
		return "🤖"
	}
	return "📊"
}
