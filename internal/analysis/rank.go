package analysis

import (
	"sort"

	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/pl"
)

type RankedTerritory struct {
	Rank            int             `json:"rank"`
	Territory       model.Territory `json:"territory"`
	Revenue         float64         `json:"revenue"`
	EBITDA          float64         `json:"ebitda"`
	EBITDAMarginPct float64         `json:"ebitda_margin_pct"`
	Monthly         Profile         `json:"monthly_ebitda"`
}

// RankByEBITDA sorts territories by horizon EBITDA, descending. Ties keep
// territory code order so the ranking is stable across runs.
func RankByEBITDA(perTerritory map[model.Territory]*pl.Statement) []RankedTerritory {
	out := make([]RankedTerritory, 0, len(perTerritory))
	for t, st := range perTerritory {
		if st == nil {
			continue
		}
		sum := st.Summary()
		out = append(out, RankedTerritory{
			Territory:       t,
			Revenue:         sum.Revenue,
			EBITDA:          sum.EBITDA,
			EBITDAMarginPct: marginPct(sum.EBITDA, sum.Revenue),
			Monthly:         ComputeProfile(st.Horizon, st.Total(pl.CategoryEBITDA)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EBITDA != out[j].EBITDA {
			return out[i].EBITDA > out[j].EBITDA
		}
		return out[i].Territory < out[j].Territory
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// marginPct is part/revenue*100, or zero when there is no positive revenue.
func marginPct(part, revenue float64) float64 {
	if revenue <= 0 {
		return 0
	}
	return part / revenue * 100
}
