package messaging

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"insightly/internal/core"
)

func sampleBatch() core.InsightBatch {
	return core.InsightBatch{
		ID:        "b1",
		IssueDate: time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		AIItems: []core.InsightRecord{
			{Title: "Agents Reach Production", URL: "https://theverge.com/a", Summary: strings.Repeat("x", 400)},
		},
		PMItems: []core.InsightRecord{
			{Title: "Outcomes Over Output", Summary: "Measure results."},
		},
	}
}

func TestConvertToSlackMessage(t *testing.T) {
	msg := ConvertToSlackMessage(sampleBatch())

	if msg.Blocks[0].Type != "header" {
		t.Errorf("Expected header block first, got %s", msg.Blocks[0].Type)
	}
	if !strings.Contains(msg.Blocks[0].Text.Text, "March 14, 2025") {
		t.Errorf("Expected issue date in header, got %s", msg.Blocks[0].Text.Text)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	body := string(data)
	if !strings.Contains(body, "<https://theverge.com/a|Agents Reach Production>") {
		t.Error("Expected linked AI title")
	}
	if !strings.Contains(body, "*Outcomes Over Output*") {
		t.Error("Expected bold PM title without link")
	}
	if strings.Contains(body, strings.Repeat("x", 300)) {
		t.Error("Expected long summary to be truncated")
	}
}

func TestConvertToDiscordMessage(t *testing.T) {
	msg := ConvertToDiscordMessage(sampleBatch())

	if len(msg.Embeds) != 2 {
		t.Fatalf("Expected 2 embeds, got %d", len(msg.Embeds))
	}
	if msg.Embeds[1].Fields[0].Name != "1. Outcomes Over Output" {
		t.Errorf("Unexpected field name %q", msg.Embeds[1].Fields[0].Name)
	}
	if !strings.HasSuffix(msg.Embeds[0].Fields[0].Value, "https://theverge.com/a") {
		t.Error("Expected URL appended to AI field value")
	}
}

func TestShare(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &received)
		if r.URL.Path == "/discord" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewMessagingClient(srv.URL+"/slack", srv.URL+"/discord")

	if err := client.Share(context.Background(), PlatformSlack, sampleBatch()); err != nil {
		t.Fatalf("Slack share failed: %v", err)
	}
	if received["username"] != "Insightly" {
		t.Errorf("Expected username Insightly, got %v", received["username"])
	}

	if err := client.Share(context.Background(), PlatformDiscord, sampleBatch()); err != nil {
		t.Fatalf("Discord share failed: %v", err)
	}
	if _, ok := received["embeds"]; !ok {
		t.Error("Expected embeds in Discord payload")
	}
}

func TestShare_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, "invalid_token")
	}))
	defer srv.Close()

	err := NewMessagingClient(srv.URL, "").Share(context.Background(), PlatformSlack, sampleBatch())
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("Expected status error, got %v", err)
	}

	err = NewMessagingClient("", "").Share(context.Background(), PlatformDiscord, sampleBatch())
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Errorf("Expected not configured error, got %v", err)
	}
}

func TestParsePlatform(t *testing.T) {
	if p, err := ParsePlatform(" Slack "); err != nil || p != PlatformSlack {
		t.Errorf("Expected slack, got %v %v", p, err)
	}
	if _, err := ParsePlatform("teams"); err == nil {
		t.Error("Expected error for unsupported platform")
	}
}
