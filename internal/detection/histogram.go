package detection

import "math"

// Histogram is an adaptive-width accumulator over the integer range
// [min, max].
//
// The range is split into bound(1, max-min+1, maxBins) bins. Every vote has a
// width: Add increments all bins that overlap [value-deviation,
// value+deviation], which lets near-parallel but not pixel-exact points fall
// into the same cluster.
type Histogram struct {
	bins      []int
	div       float64
	min       int
	deviation int
}

// NewHistogram creates an empty histogram. If max < min the range is treated
// as a single value. maxBins below 1 is raised to 1.
func NewHistogram(min, max, deviation, maxBins int) *Histogram {
	if max < min {
		max = min
	}
	if maxBins < 1 {
		maxBins = 1
	}
	if deviation < 0 {
		deviation = 0
	}

	count := max - min + 1
	if count > maxBins {
		count = maxBins
	}
	if count < 1 {
		count = 1
	}

	return &Histogram{
		bins:      make([]int, count),
		div:       float64(max-min) / float64(count),
		min:       min,
		deviation: deviation,
	}
}

// Len returns the number of bins.
func (h *Histogram) Len() int {
	return len(h.bins)
}

// Add casts one vote for value.
func (h *Histogram) Add(value int) {
	last := len(h.bins) - 1
	if h.div == 0 {
		h.bins[0]++
		return
	}

	lo := clampInt(h.binOf(value-h.deviation), 0, last)
	hi := clampInt(h.binOf(value+h.deviation), 0, last)
	for i := lo; i <= hi; i++ {
		h.bins[i]++
	}
}

// binOf maps a value to its (unclamped) bin index.
func (h *Histogram) binOf(value int) int {
	f := math.Floor(float64(value-h.min) / h.div)
	switch {
	case f < math.MinInt32:
		return math.MinInt32
	case f > math.MaxInt32:
		return math.MaxInt32
	}
	return int(f)
}

// MaxHits returns the index of the bin with the strictly greatest count. On
// ties the lowest index wins; an empty histogram returns 0.
func (h *Histogram) MaxHits() int {
	most := 0
	index := 0
	for i, c := range h.bins {
		if c > most {
			most = c
			index = i
		}
	}
	return index
}

// Count returns the number of votes in bin, or 0 if bin is out of range.
func (h *Histogram) Count(bin int) int {
	if bin < 0 || bin >= len(h.bins) {
		return 0
	}
	return h.bins[bin]
}

// Value maps a bin index back to the value domain: bin*div + min.
func (h *Histogram) Value(bin int) float64 {
	return float64(bin)*h.div + float64(h.min)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
