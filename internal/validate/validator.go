package validate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"SepaScreener/internal/model"
)

// Validator sends A+ and A grade scan results to an analyst model for a
// second opinion and assembles the combined report.
type Validator struct {
	Client *Client
	log    zerolog.Logger
}

// NewValidator creates a new Validator.
func NewValidator(client *Client, log zerolog.Logger) *Validator {
	return &Validator{Client: client, log: log}
}

// Candidates returns the A+ and A grade results worth validating, best
// grade first.
func Candidates(results []model.ScanResult) []model.ScanResult {
	var out []model.ScanResult
	for _, g := range []model.Grade{model.GradeAPlus, model.GradeA} {
		for _, r := range results {
			if r.Err == "" && r.OverallGrade == g {
				out = append(out, r)
			}
		}
	}
	return out
}

// Run validates the candidate results and returns the full report text.
// Returns an error when no A+ or A grade stocks are present.
func (v *Validator) Run(ctx context.Context, results []model.ScanResult, now time.Time) (string, error) {
	candidates := Candidates(results)
	if len(candidates) == 0 {
		return "", fmt.Errorf("no A+ or A grade stocks to validate")
	}

	aPlus, a := 0, 0
	formatted := make([]string, 0, len(candidates))
	for _, r := range candidates {
		if r.OverallGrade == model.GradeAPlus {
			aPlus++
		} else {
			a++
		}
		formatted = append(formatted, FormatStock(r))
	}

	prompt := BuildPrompt(formatted)
	v.log.Info().Int("stocks", len(candidates)).Int("prompt_chars", len(prompt)).Msg("requesting validation")

	analysis, err := v.Client.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("validation request: %w", err)
	}

	var b strings.Builder
	line := strings.Repeat("=", 100)
	b.WriteString(line + "\n")
	b.WriteString("AI VALIDATION - MINERVINI SEPA ANALYSIS\n")
	b.WriteString(line + "\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n", now.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Total Stocks Analyzed: %d\n", len(candidates)))
	b.WriteString(fmt.Sprintf("  A+ Grade: %d\n", aPlus))
	b.WriteString(fmt.Sprintf("  A Grade: %d\n\n", a))
	b.WriteString(line + "\n")
	b.WriteString("ANALYSIS\n")
	b.WriteString(line + "\n\n")
	b.WriteString(analysis)
	b.WriteString("\n\n" + line + "\n")
	b.WriteString("ORIGINAL SCAN DATA (for reference)\n")
	b.WriteString(line + "\n\n")
	for _, f := range formatted {
		b.WriteString(f)
		b.WriteString("\n" + strings.Repeat("-", 100) + "\n\n")
	}
	return b.String(), nil
}
