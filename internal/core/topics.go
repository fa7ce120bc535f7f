package core

// AITopics is the fixed enumeration of topic labels for the AI category.
var AITopics = []string{
	"Generative AI / LLMs",
	"Multilingual AI",
	"AI Product Strategy",
	"AI for E-commerce",
	"AI Ethics & Responsible AI",
	"Emerging AI Capabilities",
	"AI Cost Optimization",
	"Voice AI & Multimodal",
}

// PMTopics is the fixed enumeration of topic labels for the PM category.
var PMTopics = []string{
	"AI-First Product Management",
	"Product Strategy",
	"Stakeholder Management",
	"Team Leadership",
	"Data-Driven Decision Making",
	"Customer Research",
	"Product Roadmapping",
	"Cross-functional Collaboration",
}

// TopicsFor returns the enumeration for a category.
func TopicsFor(c Category) []string {
	switch c {
	case CategoryAI:
		return AITopics
	case CategoryPM:
		return PMTopics
	default:
		return nil
	}
}

// DefaultTopics returns the preselected topics for a category (the first three labels).
func DefaultTopics(c Category) []string {
	all := TopicsFor(c)
	if len(all) > 3 {
		all = all[:3]
	}
	return append([]string(nil), all...)
}

// IsKnownTopic reports whether label belongs to the category's enumeration.
func IsKnownTopic(c Category, label string) bool {
	for _, t := range TopicsFor(c) {
		if t == label {
			return true
		}
	}
	return false
}
