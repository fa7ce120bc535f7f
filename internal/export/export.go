// Package export renders insight batches for sharing: plain email text, a JSON
// dump, a Markdown page and an HTML email body.
package export

import (
	"fmt"
	"strings"

	"insightly/internal/core"
)

// IssueDateLayout is the display form of a batch's issue date.
const IssueDateLayout = "January 02, 2006"

// Format identifies an export representation.
type Format string

const (
	FormatEmail    Format = "email"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists every supported format.
var Formats = []Format{FormatEmail, FormatJSON, FormatMarkdown, FormatHTML}

// ParseFormat resolves a format name, accepting a few common aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "email", "text", "txt", "":
		return FormatEmail, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: email, json, markdown, html)", name)
	}
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "md"
	case FormatHTML:
		return "html"
	default:
		return "txt"
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render produces the batch in the requested format.
func Render(batch core.InsightBatch, format Format, opts EmailOptions) ([]byte, error) {
	switch format {
	case FormatEmail:
		return []byte(ToEmailText(batch, opts)), nil
	case FormatJSON:
		return ToJSON(batch)
	case FormatMarkdown:
		return []byte(ToMarkdown(batch)), nil
	case FormatHTML:
		return []byte(ToHTML(batch)), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// FormatIssueDate renders the issue date, e.g. "March 14, 2025".
func FormatIssueDate(batch core.InsightBatch) string {
	return batch.IssueDate.Format(IssueDateLayout)
}
