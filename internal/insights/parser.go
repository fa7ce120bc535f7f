package insights

import (
	"encoding/json"
	"fmt"
	"strings"

	"insightly/internal/core"
)

// ParseResult is either Parsed or ParseFailure.
type ParseResult interface {
	isParseResult()
}

// Parsed holds the records that survived validation.
// Dropped counts array elements discarded for missing a title or summary.
type Parsed struct {
	Records []core.InsightRecord
	Dropped int
}

// ParseFailure explains why a reply could not be used.
type ParseFailure struct {
	Reason string
}

func (Parsed) isParseResult()       {}
func (ParseFailure) isParseResult() {}

// rawRecord accepts both the current field names and the headline/tldr/why_it_matters aliases.
// Fields decode loosely: a value of the wrong type is cleared, not fatal to the record.
type rawRecord struct {
	Title              looseString `json:"title"`
	Headline           looseString `json:"headline"`
	Summary            looseString `json:"summary"`
	TLDR               looseString `json:"tldr"`
	Rationale          looseString `json:"rationale"`
	WhyItMatters       looseString `json:"why_it_matters"`
	Source             looseString `json:"source"`
	URL                looseString `json:"url"`
	SearchTerms        stringList  `json:"search_terms"`
	RecommendedSources stringList  `json:"recommended_sources"`
}

// looseString decodes a JSON string and ignores any other value.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		*s = ""
		return nil
	}
	*s = looseString(v)
	return nil
}

// stringList decodes either a JSON array or a single string, keeping only string values.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	*s = nil

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err == nil {
		for _, e := range elements {
			var v string
			if json.Unmarshal(e, &v) == nil {
				*s = append(*s, v)
			}
		}
		return nil
	}

	var single string
	if json.Unmarshal(data, &single) == nil && single != "" {
		*s = []string{single}
	}
	return nil
}

func (r rawRecord) record() core.InsightRecord {
	return core.InsightRecord{
		Title:              strings.TrimSpace(firstNonEmpty(string(r.Title), string(r.Headline))),
		Summary:            strings.TrimSpace(firstNonEmpty(string(r.Summary), string(r.TLDR))),
		Rationale:          strings.TrimSpace(firstNonEmpty(string(r.Rationale), string(r.WhyItMatters))),
		Source:             strings.TrimSpace(string(r.Source)),
		URL:                strings.TrimSpace(string(r.URL)),
		SearchTerms:        trimAll(r.SearchTerms),
		RecommendedSources: trimAll(r.RecommendedSources),
	}
}

// ParseReply converts raw service text into validated records. It never returns an
// error: a reply that cannot be used yields ParseFailure.
func ParseReply(text string) ParseResult {
	payload := extractJSONArray(text)
	if payload == "" {
		return ParseFailure{Reason: "empty reply"}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &elements); err != nil {
		return ParseFailure{Reason: fmt.Sprintf("reply is not a JSON array: %v", err)}
	}

	result := Parsed{Records: make([]core.InsightRecord, 0, len(elements))}
	for _, element := range elements {
		var raw rawRecord
		if err := json.Unmarshal(element, &raw); err != nil {
			result.Dropped++
			continue
		}
		rec := raw.record()
		if !rec.Valid() {
			result.Dropped++
			continue
		}
		result.Records = append(result.Records, rec)
	}

	if len(result.Records) == 0 {
		return ParseFailure{Reason: fmt.Sprintf("no usable records (%d dropped)", result.Dropped)}
	}
	return result
}

// extractJSONArray strips code fences and any prose surrounding the array.
func extractJSONArray(text string) string {
	content := strings.TrimSpace(text)

	if start := strings.Index(content, "```"); start >= 0 {
		body := content[start+3:]
		// Skip the fence language tag, if any.
		if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "[{") {
			body = body[nl+1:]
		}
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		content = strings.TrimSpace(body)
	}

	if json.Valid([]byte(content)) {
		return content
	}

	// Take the first bracketed span that decodes as an array of objects, so a
	// stray "[2]" in leading prose does not swallow the real payload.
	var firstArray string
	for i := 0; i < len(content); i++ {
		if content[i] != '[' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(content[i:]))
		var elements []json.RawMessage
		if err := dec.Decode(&elements); err != nil {
			continue
		}
		candidate := content[i : i+int(dec.InputOffset())]
		if hasObject(elements) {
			return candidate
		}
		if firstArray == "" {
			firstArray = candidate
		}
	}
	if firstArray != "" {
		return firstArray
	}
	return content
}

func hasObject(elements []json.RawMessage) bool {
	for _, e := range elements {
		if t := strings.TrimSpace(string(e)); strings.HasPrefix(t, "{") {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
