// Package embedded provides static assets compiled into the binary.
package embedded

import (
	"embed"
	"io"
)

// SamplePortfolioPath is the seed portfolio used when the store is empty
const SamplePortfolioPath = "sample/portfolio.csv"

//go:embed sample
var Files embed.FS

// SamplePortfolio opens the embedded sample portfolio CSV
func SamplePortfolio() (io.ReadCloser, error) {
	return Files.Open(SamplePortfolioPath)
}
