package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/medisort/medisort-server/internal/labelscan/domain"
)

// Pattern notes: a bare number is not a quantity. It must either carry a unit
// word or follow a qty keyword, otherwise dosage strengths like "500mg" leak
// into the quantity field.
var (
	keywordQtyRe = regexp.MustCompile(`(?i)(?:qty|quantity)\s*[:\s]\s*(\d+)`)
	unitQtyRe    = regexp.MustCompile(`(?i)\b(\d+)\s*(?:tabs|tablets|caps|capsules|ml|pcs|pieces|qty|quantity)\b`)

	isoDateRe   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	slashDateRe = regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{4})\b`)

	nameStopwords = []string{"qty", "quantity", "exp", "expiry"}
)

// Parse extracts a best-effort Guess from lines of label text. It never
// returns an error: fields that cannot be found stay empty, and arbitrary
// garbage input yields an empty guess with the default category.
func Parse(lines []string) domain.Guess {
	guess := domain.Guess{Category: domain.DefaultCategory}
	claimed := make([]bool, len(lines))

	for i, line := range lines {
		if guess.Quantity == "" {
			if m := keywordQtyRe.FindStringSubmatch(line); m != nil {
				guess.Quantity = m[1]
				claimed[i] = true
			} else if m := unitQtyRe.FindStringSubmatch(line); m != nil {
				guess.Quantity = m[1]
				claimed[i] = true
			}
		}

		if guess.ExpiryDate == "" {
			if m := isoDateRe.FindStringSubmatch(line); m != nil {
				guess.ExpiryDate = fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
				claimed[i] = true
			} else if m := slashDateRe.FindStringSubmatch(line); m != nil {
				// DD/MM/YYYY reordered to the storage layout
				guess.ExpiryDate = fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1])
				claimed[i] = true
			}
		}
	}

	for i, line := range lines {
		if claimed[i] {
			continue
		}
		if name := candidateName(line); name != "" {
			guess.Name = name
			break
		}
	}

	return guess
}

// ParseText splits free-form text on newlines and parses the result
func ParseText(text string) domain.Guess {
	return Parse(strings.Split(text, "\n"))
}

// candidateName decides whether a line looks like a product name. Short
// fragments and lines carrying field keywords are rejected.
func candidateName(line string) string {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) <= 3 {
		return ""
	}

	lower := strings.ToLower(trimmed)
	for _, word := range nameStopwords {
		if strings.Contains(lower, word) {
			return ""
		}
	}

	return trimmed
}
