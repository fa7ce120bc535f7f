package export

import (
	"fmt"
	"strings"

	"insightly/internal/config"
	"insightly/internal/core"
)

const divider = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// EmailOptions holds the fixed wording around the generated items.
type EmailOptions struct {
	Greeting    string
	SenderName  string
	SenderTitle string
	Channel     string
}

// DefaultEmailOptions returns the built-in signature and greeting.
func DefaultEmailOptions() EmailOptions {
	return EmailOptions{
		Greeting:    "Hi team,",
		SenderName:  "Your Product Leadership Team",
		SenderTitle: "AI & PM Insights",
		Channel:     "our team channel",
	}
}

// EmailOptionsFromConfig overlays configured wording on the defaults.
func EmailOptionsFromConfig(cfg config.Newsletter) EmailOptions {
	opts := DefaultEmailOptions()
	if cfg.Greeting != "" {
		opts.Greeting = cfg.Greeting
	}
	if cfg.SenderName != "" {
		opts.SenderName = cfg.SenderName
	}
	if cfg.SenderTitle != "" {
		opts.SenderTitle = cfg.SenderTitle
	}
	if cfg.Channel != "" {
		opts.Channel = cfg.Channel
	}
	return opts
}

// ToEmailText renders a batch as plain text ready to paste into an email client.
// The output depends only on batch and opts.
func ToEmailText(batch core.InsightBatch, opts EmailOptions) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Subject: Bi-Weekly Insights: AI & Product Management | %s\n\n", FormatIssueDate(batch)))
	b.WriteString(opts.Greeting + "\n\n")
	b.WriteString("Here are this week's curated insights on AI trends and product management excellence.\n\n")

	b.WriteString(divider + "\n\n")
	b.WriteString("🤖 AI INSIGHTS\n\n")
	writeEmailItems(&b, batch.AIItems)

	b.WriteString(divider + "\n\n")
	b.WriteString("📊 PRODUCT MANAGEMENT INSIGHTS\n\n")
	writeEmailItems(&b, batch.PMItems)

	b.WriteString(divider + "\n\n")
	b.WriteString("💡 SHARE YOUR INSIGHTS\n\n")
	b.WriteString(fmt.Sprintf("Have insights to share? Reply to this email or post in %s.\n\n", opts.Channel))
	b.WriteString("Happy reading!\n\n")
	b.WriteString("Best,\n")
	b.WriteString(opts.SenderName)
	if opts.SenderTitle != "" {
		b.WriteString("\n" + opts.SenderTitle)
	}

	return b.String()
}

func writeEmailItems(b *strings.Builder, items []core.InsightRecord) {
	for i, item := range items {
		// Every item keeps the same six-line shape; blank fields render as empty values.
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, item.Title))
		b.WriteString(fmt.Sprintf("Source: %s\n", item.Source))
		b.WriteString(fmt.Sprintf("Link: %s\n", item.URL))
		b.WriteString(fmt.Sprintf("\nTLDR: %s\n\n", item.Summary))
		b.WriteString(fmt.Sprintf("Why it matters: %s\n\n", item.Rationale))
	}
}
