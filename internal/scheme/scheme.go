package scheme

// Part is one contiguous slice of the source, in whole seconds.
type Part struct {
	Index    int `json:"index"`
	Start    int `json:"start"`
	Duration int `json:"duration"`
}

// End returns the exclusive end offset of the part.
func (p Part) End() int {
	return p.Start + p.Duration
}

// Total returns the summed duration of parts.
func Total(parts []Part) int {
	total := 0
	for _, p := range parts {
		total += p.Duration
	}
	return total
}

// Plan splits total seconds into consecutive parts of segment seconds.
//
// No split happens when total is below threshold or fits in one segment plus
// delta. A remainder of at most delta seconds is always folded into the last
// part; with magicTail a remainder shorter than half a segment is folded too.
// The durations of the returned parts always sum to total.
func Plan(total, segment, delta int, magicTail bool, threshold int) []Part {
	total = max(total, 0)
	delta = max(delta, 0)
	if total < threshold || segment <= 0 || total <= segment+delta {
		return []Part{{Index: 0, Start: 0, Duration: total}}
	}

	count := total / segment
	remainder := total % segment
	fold := remainder > 0 && (remainder <= delta || (magicTail && remainder < segment/2))

	parts := make([]Part, 0, count+1)
	for i := 0; i < count; i++ {
		parts = append(parts, Part{Index: i, Start: i * segment, Duration: segment})
	}
	switch {
	case remainder == 0:
	case fold:
		parts[len(parts)-1].Duration += remainder
	default:
		parts = append(parts, Part{Index: count, Start: count * segment, Duration: remainder})
	}
	return parts
}
