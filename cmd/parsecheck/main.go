// parsecheck feeds raw email text through the extractor and prints what
// matched, for tuning the rule catalog against real samples. The input
// file holds one email body per block, blocks separated by a line of
// three dashes.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/arjunmk/mailspend/internal/extract"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: parsecheck <path-to-samples>")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Printf("Error reading samples: %v\n", err)
		os.Exit(1)
	}

	extractor := extract.New()
	now := time.Now()

	matched, unmatched := 0, 0
	for i, block := range splitBlocks(string(data)) {
		tx, err := extractor.Extract(block, "", now)
		if err != nil {
			unmatched++
			fmt.Printf("  #%-3d NO MATCH   | %s\n", i+1, truncate(block, 70))
			continue
		}
		matched++
		merchant := tx.Merchant
		if merchant == "" {
			merchant = "-"
		}
		fmt.Printf("  #%-3d %10s | %-6s | %-7s | %s\n",
			i+1, tx.Amount.StringFixed(2), tx.Direction, tx.Channel, merchant)
	}

	fmt.Printf("\nMatched: %d, Unmatched: %d\n", matched, unmatched)
	if unmatched > 0 {
		os.Exit(2)
	}
}

func splitBlocks(s string) []string {
	var blocks []string
	for _, block := range strings.Split(s, "\n---\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
