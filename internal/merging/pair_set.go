package merging

// pairSet records which unordered pairs of fragment names have already
// been fully compared, and whether that comparison assumed the two sides
// were mutually exclusive. A comparison made without the exclusivity
// assumption checks strictly more than one made with it, so a pair
// stored as non-exclusive satisfies lookups for either flag, while a
// pair stored as exclusive satisfies only exclusive lookups.
type pairSet struct {
	data map[string]map[string]bool
}

func newPairSet() *pairSet {
	return &pairSet{data: make(map[string]map[string]bool)}
}

func (ps *pairSet) Has(a, b string, exclusive bool) bool {
	if a > b {
		a, b = b, a
	}
	stored, ok := ps.data[a][b]
	if !ok {
		return false
	}
	if exclusive {
		return true
	}
	return !stored
}

func (ps *pairSet) Add(a, b string, exclusive bool) {
	if a > b {
		a, b = b, a
	}
	m := ps.data[a]
	if m == nil {
		m = make(map[string]bool)
		ps.data[a] = m
	}
	m[b] = exclusive
}
