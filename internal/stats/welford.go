package stats

// Accumulator is an incremental mean/variance accumulator (Welford).
type Accumulator struct {
	count uint64
	mean  float64
	m2    float64
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

func (a *Accumulator) Update(value float64) {
	a.count++
	delta := value - a.mean
	a.mean += delta / float64(a.count)
	delta2 := value - a.mean
	a.m2 += delta * delta2
}

func (a *Accumulator) Mean() float64 { return a.mean }

// Variance is the population variance (divisor N).
func (a *Accumulator) Variance() float64 {
	if a.count < 2 {
		return 0
	}
	return a.m2 / float64(a.count)
}
