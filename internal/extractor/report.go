package extractor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"aria/internal/domain"
)

// RequiredFields lists the keys every report must carry.
var RequiredFields = []string{
	"is_invoice",
	"total",
	"currency",
	"date",
	"authenticity_score",
	"verification_summary",
}

// StripFences removes a surrounding markdown code fence (``` or ```json) from model output.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// language tag on the opening fence, e.g. ```json
		s = strings.TrimLeftFunc(s, func(r rune) bool { return unicode.IsLetter(r) })
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

// ParseReport strips fences from the model text and decodes it into a report.
// The text must be a single JSON object carrying every required field.
func ParseReport(text string) (*domain.ExtractionReport, error) {
	cleaned := StripFences(text)
	if cleaned == "" {
		return nil, fmt.Errorf("empty model output")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("model output is not a JSON object: %w (raw: %s)", err, Truncate(cleaned, 500))
	}
	if fields == nil {
		return nil, fmt.Errorf("model output is null")
	}

	var missing []string
	for _, key := range RequiredFields {
		if _, ok := fields[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("model output missing fields: %s", strings.Join(missing, ", "))
	}

	var report domain.ExtractionReport
	if err := json.Unmarshal(fields["is_invoice"], &report.IsInvoice); err != nil {
		return nil, fmt.Errorf("is_invoice: expected boolean: %w", err)
	}
	if err := json.Unmarshal(fields["total"], &report.Total); err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}
	if err := json.Unmarshal(fields["currency"], &report.Currency); err != nil {
		return nil, fmt.Errorf("currency: %w", err)
	}
	if err := json.Unmarshal(fields["date"], &report.Date); err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	score, err := parseScore(fields["authenticity_score"])
	if err != nil {
		return nil, fmt.Errorf("authenticity_score: %w", err)
	}
	report.AuthenticityScore = score
	if err := json.Unmarshal(fields["verification_summary"], &report.VerificationSummary); err != nil {
		return nil, fmt.Errorf("verification_summary: expected string: %w", err)
	}

	return &report, nil
}

func parseScore(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("expected number, got %s", raw)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("expected number, got %q", s)
	}
	return f, nil
}
