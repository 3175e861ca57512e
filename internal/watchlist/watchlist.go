// Package watchlist loads the plain-text ticker list driving batch
// scans.
package watchlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"SepaScreener/internal/ticker"
)

// Load reads tickers from a text file, one per line. Blank lines and
// lines starting with '#' are skipped; every remaining symbol is
// canonicalized and validated.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watchlist: %w", err)
	}
	defer f.Close()

	var symbols []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sym, err := ticker.Validate(line)
		if err != nil {
			return nil, fmt.Errorf("watchlist %s: %w", path, err)
		}
		if seen[sym] {
			continue
		}
		seen[sym] = true
		symbols = append(symbols, sym)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("watchlist %s contains no tickers", path)
	}
	return symbols, nil
}
