package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"insightly/internal/core"
	"insightly/internal/export"
)

// MessagePlatform represents different messaging platforms
type MessagePlatform string

const (
	PlatformSlack   MessagePlatform = "slack"
	PlatformDiscord MessagePlatform = "discord"
)

// Slack and Discord both reject very long blocks; summaries are cut to this length.
const maxSummaryChars = 280

// SlackMessage represents a Slack message structure
type SlackMessage struct {
	Text      string       `json:"text,omitempty"`
	Blocks    []SlackBlock `json:"blocks,omitempty"`
	Username  string       `json:"username,omitempty"`
	IconEmoji string       `json:"icon_emoji,omitempty"`
}

// SlackBlock represents a Slack block kit element
type SlackBlock struct {
	Type     string       `json:"type"`
	Text     *SlackText   `json:"text,omitempty"`
	Elements []*SlackText `json:"elements,omitempty"`
}

// SlackText represents text in Slack blocks
type SlackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// DiscordMessage represents a Discord message structure
type DiscordMessage struct {
	Content  string         `json:"content,omitempty"`
	Username string         `json:"username,omitempty"`
	Embeds   []DiscordEmbed `json:"embeds,omitempty"`
}

// DiscordEmbed represents a Discord embed
type DiscordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Fields      []DiscordEmbedField `json:"fields,omitempty"`
}

// DiscordEmbedField represents fields in Discord embeds
type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// MessagingClient posts batches to team channels through incoming webhooks
type MessagingClient struct {
	SlackWebhookURL   string
	DiscordWebhookURL string
	HTTPClient        *http.Client
}

// NewMessagingClient creates a new messaging client
func NewMessagingClient(slackURL, discordURL string) *MessagingClient {
	return &MessagingClient{
		SlackWebhookURL:   slackURL,
		DiscordWebhookURL: discordURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ParsePlatform resolves a platform name
func ParsePlatform(name string) (MessagePlatform, error) {
	switch MessagePlatform(strings.ToLower(strings.TrimSpace(name))) {
	case PlatformSlack:
		return PlatformSlack, nil
	case PlatformDiscord:
		return PlatformDiscord, nil
	default:
		return "", fmt.Errorf("unsupported platform %q (supported: slack, discord)", name)
	}
}

func title(batch core.InsightBatch) string {
	return "Bi-Weekly Insights: AI & Product Management | " + export.FormatIssueDate(batch)
}

// ConvertToSlackMessage renders a batch as Block Kit sections, one per category
func ConvertToSlackMessage(batch core.InsightBatch) *SlackMessage {
	blocks := []SlackBlock{
		{Type: "header", Text: &SlackText{Type: "plain_text", Text: title(batch)}},
	}

	for _, c := range core.Categories {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("*%s*\n", c.Label()))
		for i, item := range batch.Items(c) {
			if item.URL != "" {
				text.WriteString(fmt.Sprintf("%d. <%s|%s>\n", i+1, item.URL, item.Title))
			} else {
				text.WriteString(fmt.Sprintf("%d. *%s*\n", i+1, item.Title))
			}
			text.WriteString(truncate(item.Summary, maxSummaryChars) + "\n")
		}

		blocks = append(blocks,
			SlackBlock{Type: "divider"},
			SlackBlock{Type: "section", Text: &SlackText{Type: "mrkdwn", Text: text.String()}},
		)
	}

	blocks = append(blocks, SlackBlock{
		Type: "context",
		Elements: []*SlackText{{
			Type: "mrkdwn",
			Text: fmt.Sprintf("📰 Generated by Insightly • %d AI + %d PM insights", len(batch.AIItems), len(batch.PMItems)),
		}},
	})

	return &SlackMessage{
		Text:      title(batch),
		Blocks:    blocks,
		Username:  "Insightly",
		IconEmoji: ":newspaper:",
	}
}

// ConvertToDiscordMessage renders a batch as one embed per category
func ConvertToDiscordMessage(batch core.InsightBatch) *DiscordMessage {
	msg := &DiscordMessage{
		Content:  "📰 " + title(batch),
		Username: "Insightly",
	}

	colors := map[core.Category]int{core.CategoryAI: 0x5865F2, core.CategoryPM: 0x57F287}
	for _, c := range core.Categories {
		embed := DiscordEmbed{Title: c.Label(), Color: colors[c]}
		for i, item := range batch.Items(c) {
			value := truncate(item.Summary, maxSummaryChars)
			if item.URL != "" {
				value += "\n" + item.URL
			}
			embed.Fields = append(embed.Fields, DiscordEmbedField{
				Name:  fmt.Sprintf("%d. %s", i+1, item.Title),
				Value: value,
			})
		}
		msg.Embeds = append(msg.Embeds, embed)
	}
	return msg
}

// Share posts batch to the given platform
func (c *MessagingClient) Share(ctx context.Context, platform MessagePlatform, batch core.InsightBatch) error {
	switch platform {
	case PlatformSlack:
		if c.SlackWebhookURL == "" {
			return fmt.Errorf("slack webhook URL not configured")
		}
		return c.post(ctx, "Slack", c.SlackWebhookURL, ConvertToSlackMessage(batch))
	case PlatformDiscord:
		if c.DiscordWebhookURL == "" {
			return fmt.Errorf("discord webhook URL not configured")
		}
		return c.post(ctx, "Discord", c.DiscordWebhookURL, ConvertToDiscordMessage(batch))
	default:
		return fmt.Errorf("unsupported platform: %s", platform)
	}
}

func (c *MessagingClient) post(ctx context.Context, name, url string, message any) error {
	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s message: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s webhook returned status %d: %s", strings.ToLower(name), resp.StatusCode, string(body))
	}

	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
