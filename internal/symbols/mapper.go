// Package symbols maps user-entered tickers to the identifiers a quote provider expects.
package symbols

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSuffix is appended to symbols without a known alias (NSE listing)
const DefaultSuffix = ".NS"

// defaultAliases maps common short names to fully-qualified provider identifiers
var defaultAliases = map[string]string{
	"HDFC":     "HDFCBANK.NS",
	"ICICI":    "ICICIBANK.NS",
	"SBIN":     "SBIN.NS",
	"RELIANCE": "RELIANCE.NS",
	"TCS":      "TCS.NS",
	"INFY":     "INFY.NS",
	"HCLTECH":  "HCLTECH.NS",
	"WIPRO":    "WIPRO.NS",
}

// Mapper normalizes raw symbols into provider symbols.
// It is immutable after construction and safe for concurrent use.
type Mapper struct {
	aliases map[string]string
	suffix  string
}

// NewMapper creates a mapper with the built-in alias table.
// extra aliases override built-in ones; an empty suffix means DefaultSuffix.
func NewMapper(suffix string, extra map[string]string) *Mapper {
	if suffix == "" {
		suffix = DefaultSuffix
	}

	aliases := make(map[string]string, len(defaultAliases)+len(extra))
	for k, v := range defaultAliases {
		aliases[k] = v
	}
	for k, v := range extra {
		key := strings.ToUpper(strings.TrimSpace(k))
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		aliases[key] = val
	}

	return &Mapper{aliases: aliases, suffix: suffix}
}

// Map returns the provider symbol for a raw ticker. It never fails.
func (m *Mapper) Map(raw string) string {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if mapped, ok := m.aliases[symbol]; ok {
		return mapped
	}
	return symbol + m.suffix
}

// Suffix returns the default market suffix
func (m *Mapper) Suffix() string {
	return m.suffix
}

// aliasFile is the on-disk format of an alias file:
//
//	aliases:
//	  HDFC: HDFCBANK.NS
//	  AAPL: AAPL
type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliases reads extra aliases from a YAML file. An empty path yields no aliases.
func LoadAliases(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file %s: %w", path, err)
	}

	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse alias file %s: %w", path, err)
	}

	return f.Aliases, nil
}
