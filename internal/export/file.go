package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"insightly/internal/core"
)

// Filename returns "newsletter_<Month>_<DD>_<YYYY>.<ext>" for the batch's issue date.
func Filename(batch core.InsightBatch, ext string) string {
	date := strings.ReplaceAll(FormatIssueDate(batch), ",", "")
	date = strings.ReplaceAll(date, " ", "_")
	return fmt.Sprintf("newsletter_%s.%s", date, strings.TrimPrefix(ext, "."))
}

// FilenameFor returns the file name used when exporting batch in format.
// Email text is prefixed so it does not collide with other exports of the same issue.
func FilenameFor(batch core.InsightBatch, format Format) string {
	name := Filename(batch, format.Extension())
	if format == FormatEmail {
		return strings.Replace(name, "newsletter_", "newsletter_email_", 1)
	}
	return name
}

// WriteToFile writes content to dir/filename, creating dir if needed.
func WriteToFile(content []byte, outputDir, filename string) (string, error) {
	if outputDir == "" {
		outputDir = "newsletters"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	filePath := filepath.Join(outputDir, filename)
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", filePath, err)
	}

	return filePath, nil
}
