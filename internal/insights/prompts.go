package insights

import (
	"fmt"
	"strings"

	"insightly/internal/core"
)

// DefaultTeamContext is embedded in the AI prompt when the caller supplies no context.
const DefaultTeamContext = "Building AI products at scale"

const recordSchema = `[
  {
    "title": "...",
    "source": "...",
    "url": "...",
    "summary": "...",
    "rationale": "...",
    "search_terms": ["...", "..."],
    "recommended_sources": ["...", "..."]
  }
]`

// BuildPrompt creates the single instruction sent to the service for one category.
// Team context is only used for the AI category.
func BuildPrompt(category core.Category, topics []string, count int, teamContext string) string {
	var prompt strings.Builder

	switch category {
	case core.CategoryAI:
		prompt.WriteString("You are a curator of AI insights for a product management team building customer-facing AI experiences.\n\n")
		prompt.WriteString(fmt.Sprintf("Generate %d high-quality article recommendations for AI insights.\n\n", count))
		prompt.WriteString(fmt.Sprintf("Focus areas: %s\n", strings.Join(topics, ", ")))

		context := strings.TrimSpace(teamContext)
		if context == "" {
			context = DefaultTeamContext
		}
		prompt.WriteString(fmt.Sprintf("Team context: %s\n\n", context))

		prompt.WriteString("For each article, provide:\n")
		prompt.WriteString("1. title: Compelling, specific headline\n")
		prompt.WriteString("2. source: Realistic publication (TechCrunch, The Verge, VentureBeat, MIT Tech Review, etc.)\n")
		prompt.WriteString("3. url: Realistic URL on the publication's actual domain\n")
		prompt.WriteString("4. summary: 2-3 sentences explaining the key insights and why they matter for the team\n")
		prompt.WriteString("5. rationale: 1 sentence on relevance to the team's AI product work\n")
		prompt.WriteString("6. search_terms: 2-3 queries a reader can use to find the article\n")
		prompt.WriteString("7. recommended_sources: 1-3 publications worth following for this topic\n\n")
		prompt.WriteString("Focus on recent developments (last 2-3 months) and emerging trends.\n")
		prompt.WriteString("Make the content highly relevant to AI product managers building customer-facing AI features.\n\n")

	default:
		prompt.WriteString("You are a curator of product management insights for senior PMs at a major tech company.\n\n")
		prompt.WriteString(fmt.Sprintf("Generate %d high-quality article recommendations for PM insights.\n\n", count))
		prompt.WriteString(fmt.Sprintf("Focus areas: %s\n\n", strings.Join(topics, ", ")))

		prompt.WriteString("For each article, provide:\n")
		prompt.WriteString("1. title: Compelling, specific headline\n")
		prompt.WriteString("2. source: Realistic publication (Lenny's Newsletter, First Round Review, HBR, Product School, etc.)\n")
		prompt.WriteString("3. url: Realistic URL on the publication's actual domain\n")
		prompt.WriteString("4. summary: 2-3 sentences explaining the key takeaways\n")
		prompt.WriteString("5. rationale: 1 sentence on relevance to AI-first product management\n")
		prompt.WriteString("6. search_terms: 2-3 queries a reader can use to find the article\n")
		prompt.WriteString("7. recommended_sources: 1-3 publications worth following for this topic\n\n")
		prompt.WriteString("These should be TIMELESS insights (can be from the last 6-12 months) on effective product management.\n")
		prompt.WriteString("Focus on practical frameworks, mental models and leadership approaches.\n")
		prompt.WriteString("Especially valuable for PMs transitioning to AI-first product management.\n\n")
	}

	prompt.WriteString("Format as a JSON array:\n")
	prompt.WriteString(recordSchema)
	prompt.WriteString("\n\nRespond with ONLY the JSON array. No commentary before or after it.")

	return prompt.String()
}
