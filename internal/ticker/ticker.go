// Package ticker centralizes symbol cleaning, mapping, and validation so
// every module sees the same canonical form.
package ticker

import (
	"fmt"
	"strings"
)

// MaxLength bounds a validated symbol.
const MaxLength = 20

const allowedChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789._-"

// brokerMapping maps broker-specific symbols that need special handling
// to their actual ticker. Checked before suffix stripping.
var brokerMapping = map[string]string{
	"WTAIM_EQ": "WTAI",
}

// Clean canonicalizes a raw ticker: applies the broker mapping, strips
// anything from the first underscore, and uppercases the result.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if mapped, ok := brokerMapping[upper]; ok {
		return mapped
	}
	if i := strings.Index(upper, "_"); i >= 0 {
		return upper[:i]
	}
	return upper
}

// Validate cleans and validates a symbol, rejecting empty, overlong, or
// suspicious input.
func Validate(raw string) (string, error) {
	sym := Clean(raw)
	if sym == "" {
		return "", fmt.Errorf("ticker cannot be empty")
	}
	if len(sym) > MaxLength {
		return "", fmt.Errorf("ticker %q too long (max %d characters)", sym, MaxLength)
	}
	for _, c := range sym {
		if !strings.ContainsRune(allowedChars, c) {
			return "", fmt.Errorf("ticker %q contains invalid character %q", sym, c)
		}
	}
	return sym, nil
}

// ValidateAll validates a list of symbols, failing on the first invalid
// entry.
func ValidateAll(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("ticker list cannot be empty")
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		sym, err := Validate(r)
		if err != nil {
			return nil, fmt.Errorf("invalid ticker %q: %w", r, err)
		}
		out = append(out, sym)
	}
	return out, nil
}

// europeanSuffixes are the common exchange suffixes tried when a bare
// symbol has no data: London, Amsterdam, Xetra, Paris, Milan, Swiss,
// Brussels, Madrid, Stockholm, Copenhagen, Vienna, Lisbon, Dublin,
// Helsinki.
var europeanSuffixes = []string{
	".L", ".AS", ".DE", ".PA", ".MI", ".SW", ".BR", ".MC",
	".ST", ".CO", ".VI", ".LS", ".IR", ".HE",
}

// Candidates returns the ticker formats to try when searching for data:
// the cleaned symbol first, then European exchange variants.
func Candidates(raw string) []string {
	sym := Clean(raw)
	out := make([]string, 0, 1+len(europeanSuffixes))
	out = append(out, sym)
	for _, suffix := range europeanSuffixes {
		out = append(out, sym+suffix)
	}
	return out
}
