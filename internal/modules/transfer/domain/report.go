package domain

import "time"

// ImportReport counts what happened to every record of an import.
// Total == Imported + Duplicates + Malformed.
type ImportReport struct {
	Total      int
	Imported   int
	Duplicates int
	Malformed  int
	Problems   []string
	DryRun     bool
}

// DuplicateFilter remembers timestamps already claimed by earlier records of
// the same file. Instants are compared exactly, regardless of zone.
type DuplicateFilter struct {
	seen map[int64]struct{}
}

func NewDuplicateFilter() *DuplicateFilter {
	return &DuplicateFilter{seen: map[int64]struct{}{}}
}

// Claim reports whether ts is new to the file and marks it seen.
func (f *DuplicateFilter) Claim(ts time.Time) bool {
	key := ts.UnixNano()
	if _, ok := f.seen[key]; ok {
		return false
	}
	f.seen[key] = struct{}{}
	return true
}
