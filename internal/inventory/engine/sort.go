package engine

import (
	"container/heap"
	"sort"
	"strings"

	"github.com/medisort/medisort-server/internal/inventory/domain"
)

// SortKey selects the field a collection is ordered by
type SortKey string

const (
	SortByExpiryDate SortKey = "expiry_date"
	SortByName       SortKey = "name"
	SortByQuantity   SortKey = "quantity"
	SortByCreatedAt  SortKey = "created_at"
)

// Direction selects ascending or descending order
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// SortState is an explicit, immutable sort selection passed into Order.
type SortState struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// DefaultSort is the order applied after a fresh load
var DefaultSort = SortState{Key: SortByExpiryDate, Direction: Ascending}

// ParseSortKey maps a query value to a SortKey, falling back to expiry date
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByName, SortByQuantity, SortByCreatedAt, SortByExpiryDate:
		return SortKey(s)
	default:
		return SortByExpiryDate
	}
}

// ParseDirection maps a query value to a Direction, falling back to ascending
func ParseDirection(s string) Direction {
	if Direction(s) == Descending || s == "desc" {
		return Descending
	}
	return Ascending
}

// Order returns a permutation of records totally ordered by the sort state.
// Each key is served by a different strategy (min-heap, merge sort, three-way
// quicksort, stable comparison sort), but all of them produce the order a
// stable sort on that key would: records with equal keys keep their input
// order in both directions. The input slice is never mutated.
func Order(records []domain.Medicine, state SortState) []domain.Medicine {
	if len(records) == 0 {
		return []domain.Medicine{}
	}

	recs := append([]domain.Medicine(nil), records...)

	switch state.Key {
	case SortByName:
		return mergeSortByName(recs, state.Direction)
	case SortByQuantity:
		return quickSortByQuantity(recs, state.Direction)
	case SortByCreatedAt:
		return stableSortByCreatedAt(recs, state.Direction)
	default:
		return heapSortByExpiry(recs, state.Direction)
	}
}

// heapSortByExpiry orders by priority-queue extraction: every record goes
// into a min-heap keyed by the raw expiry string (ISO dates compare
// chronologically as text), then extract-min drains them in order. The input
// position rides along as tie-break so equal expiry dates stay stable; for
// descending order the expiry comparison is flipped instead of reversing the
// drained list, which would flip ties too.
func heapSortByExpiry(recs []domain.Medicine, dir Direction) []domain.Medicine {
	h := &expiryHeap{desc: dir == Descending}
	h.entries = make([]expiryEntry, 0, len(recs))

	for i, r := range recs {
		heap.Push(h, expiryEntry{rec: r, seq: i})
	}

	sorted := make([]domain.Medicine, 0, len(recs))
	for h.Len() > 0 {
		sorted = append(sorted, heap.Pop(h).(expiryEntry).rec)
	}

	return sorted
}

type expiryEntry struct {
	rec domain.Medicine
	seq int
}

type expiryHeap struct {
	entries []expiryEntry
	desc    bool
}

func (h *expiryHeap) Len() int { return len(h.entries) }

func (h *expiryHeap) Less(i, j int) bool {
	a, b := h.entries[i], h.entries[j]
	if a.rec.ExpiryDate != b.rec.ExpiryDate {
		if h.desc {
			return a.rec.ExpiryDate > b.rec.ExpiryDate
		}
		return a.rec.ExpiryDate < b.rec.ExpiryDate
	}
	return a.seq < b.seq
}

func (h *expiryHeap) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

func (h *expiryHeap) Push(x any) {
	h.entries = append(h.entries, x.(expiryEntry))
}

func (h *expiryHeap) Pop() any {
	old := h.entries
	n := len(old)
	entry := old[n-1]
	h.entries = old[:n-1]
	return entry
}

// mergeSortByName is a divide-and-conquer sort on the case-folded name.
// Descending order flips the comparator rather than reversing the result,
// so names that differ only in case keep their input order either way.
func mergeSortByName(recs []domain.Medicine, dir Direction) []domain.Medicine {
	if len(recs) <= 1 {
		return recs
	}

	mid := len(recs) / 2
	left := mergeSortByName(recs[:mid], dir)
	right := mergeSortByName(recs[mid:], dir)

	return mergeByName(left, right, dir)
}

func mergeByName(left, right []domain.Medicine, dir Direction) []domain.Medicine {
	result := make([]domain.Medicine, 0, len(left)+len(right))
	i, j := 0, 0

	for i < len(left) && j < len(right) {
		cmp := strings.Compare(strings.ToLower(left[i].Name), strings.ToLower(right[j].Name))

		takeLeft := cmp <= 0
		if dir == Descending {
			takeLeft = cmp >= 0
		}

		if takeLeft {
			result = append(result, left[i])
			i++
		} else {
			result = append(result, right[j])
			j++
		}
	}

	result = append(result, left[i:]...)
	result = append(result, right[j:]...)

	return result
}

// quickSortByQuantity partitions around the middle element's quantity into
// strictly-less, equal, and strictly-greater buckets (swapping less/greater
// for descending order) and recurses on the outer two. The explicit equal
// bucket keeps all-equal input from recursing forever, and filtering in
// input order keeps every bucket stable.
func quickSortByQuantity(recs []domain.Medicine, dir Direction) []domain.Medicine {
	if len(recs) <= 1 {
		return recs
	}

	pivot := recs[len(recs)/2].Quantity

	var less, equal, greater []domain.Medicine
	for _, r := range recs {
		switch {
		case r.Quantity == pivot:
			equal = append(equal, r)
		case (r.Quantity < pivot) != (dir == Descending):
			less = append(less, r)
		default:
			greater = append(greater, r)
		}
	}

	result := quickSortByQuantity(less, dir)
	result = append(result, equal...)
	result = append(result, quickSortByQuantity(greater, dir)...)

	return result
}

// stableSortByCreatedAt serves the remaining key with a stable comparison
// sort on the raw timestamp, comparator flipped for descending order.
func stableSortByCreatedAt(recs []domain.Medicine, dir Direction) []domain.Medicine {
	sort.SliceStable(recs, func(i, j int) bool {
		if dir == Descending {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].CreatedAt.Before(recs[j].CreatedAt)
	})

	return recs
}
