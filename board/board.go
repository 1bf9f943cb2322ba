package board

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"workroll/domain"
)

// ErrUnknownBucket is returned when an item names a column outside domain.Statuses.
var ErrUnknownBucket = errors.New("unknown bucket")

// Item is the part of a record the board cares about.
type Item struct {
	ID       string        `json:"id"`
	Bucket   domain.Status `json:"status"`
	Position int           `json:"position"`
}

// Change is one persisted update produced by a move.
type Change = domain.PositionUpdate

// Board partitions items into every known column, each ordered for display.
// A Board is a value: operations return new boards and never modify their input.
type Board struct {
	columns map[domain.Status][]Item
}

// New partitions items by bucket and orders each column by position. Ties
// are broken by id so rebuilding from the same list is deterministic.
func New(items []Item) (Board, error) {
	b := empty()
	for _, it := range items {
		if !it.Bucket.Valid() {
			return Board{}, fmt.Errorf("%w %q on item %s", ErrUnknownBucket, it.Bucket, it.ID)
		}
		b.columns[it.Bucket] = append(b.columns[it.Bucket], it)
	}
	for _, s := range domain.Statuses {
		slices.SortFunc(b.columns[s], func(a, c Item) int {
			if n := cmp.Compare(a.Position, c.Position); n != 0 {
				return n
			}
			return cmp.Compare(a.ID, c.ID)
		})
	}
	return b, nil
}

func empty() Board {
	b := Board{columns: make(map[domain.Status][]Item, len(domain.Statuses))}
	for _, s := range domain.Statuses {
		b.columns[s] = []Item{}
	}
	return b
}

// Column returns a copy of the items in bucket s in display order.
func (b Board) Column(s domain.Status) []Item {
	return slices.Clone(b.column(s))
}

// Columns returns a copy of every column keyed by bucket.
func (b Board) Columns() map[domain.Status][]Item {
	out := make(map[domain.Status][]Item, len(domain.Statuses))
	for _, s := range domain.Statuses {
		out[s] = b.Column(s)
	}
	return out
}

// Len returns the number of items in bucket s.
func (b Board) Len(s domain.Status) int {
	return len(b.columns[s])
}

// Items flattens the board column by column.
func (b Board) Items() []Item {
	var out []Item
	for _, s := range domain.Statuses {
		out = append(out, b.column(s)...)
	}
	return out
}

func (b Board) column(s domain.Status) []Item {
	if b.columns == nil {
		return nil
	}
	return b.columns[s]
}

// with returns a shallow copy of b whose bucket s is replaced by col.
func (b Board) with(s domain.Status, col []Item) Board {
	out := Board{columns: make(map[domain.Status][]Item, len(domain.Statuses))}
	for _, st := range domain.Statuses {
		out.columns[st] = b.column(st)
	}
	out.columns[s] = col
	return out
}

// positions indexes the current position of every item by id.
func (b Board) positions() map[string]int {
	out := make(map[string]int)
	for _, s := range domain.Statuses {
		for _, it := range b.column(s) {
			out[it.ID] = it.Position
		}
	}
	return out
}
