package engine

import (
	"strings"

	"github.com/medisort/medisort-server/internal/inventory/domain"
)

// Filter is the incremental as-typed variant: it narrows records to those
// whose name or batch number contains the query, case-insensitive. An empty
// query returns the full collection. Relative order is preserved and the
// input is never mutated.
func Filter(records []domain.Medicine, query string) []domain.Medicine {
	return match(records, query, false)
}

// Search is the explicit search action: like Filter, but notes are
// searched as well.
func Search(records []domain.Medicine, query string) []domain.Medicine {
	return match(records, query, true)
}

func match(records []domain.Medicine, query string, includeNotes bool) []domain.Medicine {
	if query == "" {
		return records
	}

	q := strings.ToLower(query)

	result := make([]domain.Medicine, 0, len(records))
	for _, r := range records {
		if matches(&r, q, includeNotes) {
			result = append(result, r)
		}
	}

	return result
}

func matches(m *domain.Medicine, q string, includeNotes bool) bool {
	if strings.Contains(strings.ToLower(m.Name), q) {
		return true
	}

	// An absent batch number is an empty string and never matches
	if m.BatchNumber != nil && strings.Contains(strings.ToLower(*m.BatchNumber), q) {
		return true
	}

	if includeNotes && m.Notes != nil && strings.Contains(strings.ToLower(*m.Notes), q) {
		return true
	}

	return false
}
