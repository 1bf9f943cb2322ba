package storage

import (
	"strconv"
	"strings"
)

// filter accumulates OData conditions joined with "and".
type filter []string

func quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

func (f *filter) eq(field, value string) {
	*f = append(*f, field+" eq "+quote(value))
}

func (f *filter) ne(field, value string) {
	*f = append(*f, field+" ne "+quote(value))
}

func (f *filter) str(field, op, value string) {
	*f = append(*f, field+" "+op+" "+quote(value))
}

func (f *filter) int32(field string, v int) {
	*f = append(*f, field+" eq "+strconv.Itoa(v))
}

func (f *filter) int64(field, op string, v int64) {
	*f = append(*f, field+" "+op+" "+strconv.FormatInt(v, 10)+"L")
}

func (f filter) String() string {
	return strings.Join(f, " and ")
}

// ptr returns nil for an empty filter so the service lists everything.
func (f filter) ptr() *string {
	if len(f) == 0 {
		return nil
	}
	s := f.String()
	return &s
}
