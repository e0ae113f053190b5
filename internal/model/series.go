package model

// Series is an amount per period, aligned index-for-index with a Horizon.
// Series values are treated as immutable: every operation returns a new slice.
type Series []float64

func Zero(n int) Series {
	return make(Series, n)
}

func (s Series) Clone() Series {
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// Add returns s + o element-wise. Missing trailing entries count as zero.
func (s Series) Add(o Series) Series {
	n := len(s)
	if len(o) > n {
		n = len(o)
	}
	out := make(Series, n)
	for i := range out {
		out[i] = s.at(i) + o.at(i)
	}
	return out
}

// Sub returns s - o element-wise.
func (s Series) Sub(o Series) Series {
	n := len(s)
	if len(o) > n {
		n = len(o)
	}
	out := make(Series, n)
	for i := range out {
		out[i] = s.at(i) - o.at(i)
	}
	return out
}

// Scale multiplies every value by f.
func (s Series) Scale(f float64) Series {
	return s.Map(func(v float64) float64 { return v * f })
}

func (s Series) Map(fn func(float64) float64) Series {
	out := make(Series, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Total is the sum over all periods.
func (s Series) Total() float64 {
	t := 0.0
	for _, v := range s {
		t += v
	}
	return t
}

// ByPeriod keys the series by the horizon's periods.
func (s Series) ByPeriod(h Horizon) map[Period]float64 {
	out := make(map[Period]float64, len(h))
	for i, p := range h {
		out[p] = s.at(i)
	}
	return out
}

func (s Series) at(i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}

// Sum adds series left to right; the result has length n.
func Sum(n int, series ...Series) Series {
	out := Zero(n)
	for _, s := range series {
		for i := range out {
			out[i] += s.at(i)
		}
	}
	return out
}
