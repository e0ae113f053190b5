package analysis

import (
	"math"
	"sort"

	"github.com/Rdwburns/budget-planning-app/internal/model"
)

// Profile summarises how a monthly series is distributed over the horizon.
// Ranking uses it to tell a steady territory from one carried by a few
// strong months.
type Profile struct {
	Count int `json:"count"`

	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	P05  float64 `json:"p05"`
	P95  float64 `json:"p95"`

	SpreadP95P05 float64 `json:"spread_p95_p05"`

	// Best and Worst are the periods holding Max and Min (first wins on ties).
	Best  model.Period `json:"best,omitempty"`
	Worst model.Period `json:"worst,omitempty"`
}

func ComputeProfile(h model.Horizon, s model.Series) Profile {
	p := Profile{}
	n := len(s)
	if len(h) < n {
		n = len(h)
	}
	if n == 0 {
		return p
	}
	p.Count = n

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		v := s[i]
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
			p.Worst = h[i]
		}
		if v > maxv {
			maxv = v
			p.Best = h[i]
		}
	}
	sort.Float64s(vals)
	p.Min = minv
	p.Max = maxv
	p.Mean = sum / float64(n)
	p.P05 = percentileSorted(vals, 0.05)
	p.P95 = percentileSorted(vals, 0.95)
	p.SpreadP95P05 = p.P95 - p.P05
	return p
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
