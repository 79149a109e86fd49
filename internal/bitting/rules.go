package bitting

// CanPlace reports whether depth d may be placed at the next position
// without pushing its occurrence count past MaxRepeat. This is the
// incremental form of the frequency rule.
func (s Spec) CanPlace(freq *FrequencyTable, d uint8) bool {
	return freq.Count(d)+1 <= s.MaxRepeat()
}

// WithinMACS reports whether two adjacent cut depths respect the
// adjacent-cut tolerance.
func (s Spec) WithinMACS(a, b uint8) bool {
	diff := int(a) - int(b)
	if diff < 0 {
		diff = -diff
	}

	return diff <= s.MACS
}

// TrailingTriple reports whether the prefix of the given length ends in
// three identical depths. A prefix that does can never be extended into
// a legal key.
func (s Spec) TrailingTriple(key Key, length int) bool {
	if length < 3 {
		return false
	}

	return key[length-1] == key[length-2] && key[length-2] == key[length-3]
}

// CheckFrequency reports whether no depth accounts for more than half of
// the key's cuts. Full-sequence re-check; the search never calls this on
// the hot path.
func (s Spec) CheckFrequency(key Key) bool {
	var freq FrequencyTable

	for _, d := range key {
		freq.Add(d)
	}

	for d := range s.Depths {
		if freq.Count(uint8(d)) > s.MaxRepeat() {
			return false
		}
	}

	return true
}

// CheckNoTriple reports whether the key is free of three consecutive
// identical depths. Full-sequence re-check.
func (s Spec) CheckNoTriple(key Key) bool {
	for i := 0; i+2 < len(key); i++ {
		if key[i] == key[i+1] && key[i+1] == key[i+2] {
			return false
		}
	}

	return true
}

// CheckMACS reports whether every pair of adjacent cuts respects the
// tolerance. Full-sequence re-check.
func (s Spec) CheckMACS(key Key) bool {
	for i := 0; i+1 < len(key); i++ {
		if !s.WithinMACS(key[i], key[i+1]) {
			return false
		}
	}

	return true
}

// Legal reports whether a complete key satisfies every rule: correct
// length, in-range depths, frequency bound, no triple run, and MACS.
// Used for verification and testing only.
func (s Spec) Legal(key Key) bool {
	if len(key) != s.Positions {
		return false
	}

	for _, d := range key {
		if int(d) >= s.Depths {
			return false
		}
	}

	return s.CheckFrequency(key) && s.CheckNoTriple(key) && s.CheckMACS(key)
}
