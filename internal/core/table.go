package core

// Table is the full customer table in stable row order. All mutations in
// the ledger operate on an in-memory Table and persist it as a whole.
type Table []CustomerRecord

// Find returns the index of the record whose normalized name matches name.
func (t Table) Find(name string) (int, bool) {
	key := NormalizeName(name)
	for i := range t {
		if NormalizeName(t[i].Name) == key {
			return i, true
		}
	}
	return -1, false
}

// Contains reports whether a record with the normalized name exists.
func (t Table) Contains(name string) bool {
	_, ok := t.Find(name)
	return ok
}

// Clone returns a copy that shares no backing array with t.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// Normalize coerces every numeric field to a non-negative decimal,
// rederives each balance from the accumulator fields, and refreshes every
// status. Every store runs this on load, which means a persisted manual
// override survives only until the table is next loaded.
func (t Table) Normalize() Table {
	for i := range t {
		t[i].AmountOwed = ClipNegative(t[i].AmountOwed)
		t[i].BalancePaid = ClipNegative(t[i].BalancePaid)
		t[i].Recompute()
	}
	return t
}
