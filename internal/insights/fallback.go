package insights

import "insightly/internal/core"

var fallbackAI = []core.InsightRecord{
	{
		Title:     "Claude 3.5 Sonnet: Anthropic's Most Capable AI Model Yet",
		Source:    "TechCrunch",
		URL:       "https://techcrunch.com/2024/06/20/anthropics-claude-3-5-sonnet-outperforms-openai-and-google/",
		Summary:   "Anthropic's Claude 3.5 Sonnet outperforms GPT-4 and Gemini 1.5 Pro on key benchmarks while being faster and more cost-effective. The model shows particular strength in multilingual tasks and coding.",
		Rationale: "Demonstrates continued rapid improvement in LLM capabilities relevant to customer-facing AI products.",
	},
	{
		Title:     "How AI Agents Are Transforming Enterprise Software",
		Source:    "The Verge",
		URL:       "https://www.theverge.com/2024/1/10/24030667/ai-agents-software-automation",
		Summary:   "AI agents are moving beyond chatbots to handle complex workflows autonomously. Companies are seeing 40-60% efficiency gains in customer service and data processing tasks.",
		Rationale: "Shows practical path to deploying AI beyond simple Q&A into production workflows at scale.",
	},
	{
		Title:     "Building Effective Agents",
		Source:    "Anthropic",
		URL:       "https://www.anthropic.com/research/building-effective-agents",
		Summary:   "The most successful agent deployments use simple, composable patterns rather than complex frameworks. The post separates predefined workflows from open-ended agents and describes when each is worth the added cost and latency.",
		Rationale: "Gives product teams a vocabulary for scoping agent features before committing engineering time.",
	},
}

var fallbackPM = []core.InsightRecord{
	{
		Title:     "The AI Product Manager's Playbook",
		Source:    "Lenny's Newsletter",
		URL:       "https://www.lennysnewsletter.com/p/ai-product-management",
		Summary:   "Lenny Rachitsky outlines the new skills PMs need for AI products: prompt engineering, understanding model limitations, and designing for uncertainty. Includes frameworks from Airbnb, Spotify, and Notion PMs.",
		Rationale: "Provides practical frameworks for transitioning to AI-first product management from industry leaders.",
	},
	{
		Title:     "How to Work with Machine Learning Teams",
		Source:    "First Round Review",
		URL:       "https://review.firstround.com/working-with-machine-learning-what-product-managers-need-to-know",
		Summary:   "PMs must learn to ask the right questions about ML models: data requirements, success metrics, and failure modes. The article provides a checklist for ML project kickoffs and ongoing collaboration.",
		Rationale: "Essential guide for PMs partnering with ML engineers on AI features.",
	},
	{
		Title:     "Product vs. Feature Teams",
		Source:    "Silicon Valley Product Group",
		URL:       "https://www.svpg.com/product-vs-feature-teams/",
		Summary:   "Marty Cagan contrasts empowered product teams, which own outcomes, with feature teams that ship roadmaps handed to them. Empowered teams are given problems to solve and are accountable for discovery as well as delivery.",
		Rationale: "AI features fail without discovery, which only empowered teams are set up to do.",
	},
}

// FallbackRecords returns a copy of the built-in records for a category.
func FallbackRecords(c core.Category) []core.InsightRecord {
	var src []core.InsightRecord
	switch c {
	case core.CategoryAI:
		src = fallbackAI
	case core.CategoryPM:
		src = fallbackPM
	}
	out := make([]core.InsightRecord, len(src))
	copy(out, src)
	return out
}

// fitToCount truncates records to count, or pads them from the fallback list
// skipping titles already present. It reports whether padding was needed.
func fitToCount(records []core.InsightRecord, c core.Category, count int) ([]core.InsightRecord, bool) {
	if len(records) >= count {
		return records[:count], false
	}

	seen := make(map[string]bool, len(records))
	for _, r := range records {
		seen[r.Title] = true
	}

	out := append([]core.InsightRecord(nil), records...)
	for _, r := range FallbackRecords(c) {
		if len(out) == count {
			break
		}
		if seen[r.Title] {
			continue
		}
		out = append(out, r)
	}
	return out, true
}
