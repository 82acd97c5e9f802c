package assembly

import "sort"

// Table maps source seq-ids to target seq-ids. It is read-only once built.
type Table struct {
	ids map[string]string
}

// NewTable creates a table from an explicit source-to-target map.
// Entries with a target of "na" are ignored.
func NewTable(m map[string]string) *Table {
	t := &Table{ids: make(map[string]string, len(m))}
	for from, to := range m {
		t.set(from, to)
	}
	return t
}

// set inserts a mapping. Empty keys and "na" keys or targets are never stored.
func (t *Table) set(from, to string) {
	if from == "" || from == naValue || to == naValue {
		return
	}
	t.ids[from] = to
}

// Lookup returns the target seq-id for id.
func (t *Table) Lookup(id string) (string, bool) {
	to, ok := t.ids[id]
	return to, ok
}

// Len returns the number of source seq-ids in the table.
func (t *Table) Len() int {
	return len(t.ids)
}

// Sources returns all source seq-ids sorted lexically.
func (t *Table) Sources() []string {
	keys := make([]string, 0, len(t.ids))
	for k := range t.ids {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
