package bitio

// Category names one of the four bit groups the codec's bit budget is
// reported under (spec §6: "bit accounting split into predictor-flag /
// mode / residual / timestamp").
type Category int

const (
	CategoryPredictorFlag Category = iota
	CategoryMode
	CategoryResidual
	CategoryTimestamp
	categoryCount
)

// Accountant accumulates a running bit total per Category. The encoder
// feeds it the return value of every Writer call so Stats() can report
// exactly where the bit budget went, without re-deriving it from the
// finished byte stream.
type Accountant struct {
	totals [categoryCount]int64
}

// Add records n bits spent under cat.
func (a *Accountant) Add(cat Category, n int) {
	a.totals[cat] += int64(n)
}

// Bits returns the running total for cat.
func (a *Accountant) Bits(cat Category) int64 {
	return a.totals[cat]
}

// Total returns the sum across all categories.
func (a *Accountant) Total() int64 {
	var sum int64
	for _, n := range a.totals {
		sum += n
	}
	return sum
}
