package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/Rdwburns/budget-planning-app/internal/analysis"
	"github.com/Rdwburns/budget-planning-app/internal/format"
	"github.com/Rdwburns/budget-planning-app/internal/pl"
)

func printStatement(w io.Writer, st *pl.Statement) {
	fmt.Fprintf(w, "%s P&L (%s)\n", st.Territory, st.Scenario)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := append([]string{"line"}, st.Horizon.Strings()...)
	fmt.Fprintln(tw, strings.Join(append(header, "total"), "\t")+"\t")
	for _, r := range st.Rows() {
		cells := make([]string, 0, len(r.Values)+2)
		cells = append(cells, r.Line)
		for _, v := range r.Values {
			cells = append(cells, format.Currency(v))
		}
		cells = append(cells, format.Currency(r.Total))
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	_ = tw.Flush()
	for _, d := range st.Diagnostics {
		fmt.Fprintf(w, "note: %s %s/%s: %s\n", d.Territory, d.Table, d.Channel, d.Reason)
	}
}

func printComparison(w io.Writer, cmp *pl.Comparison) {
	base, next, diff := cmp.Base.Summary(), cmp.New.Summary(), cmp.Difference.Summary()
	fmt.Fprintf(w, "%s vs %s\n", cmp.New.Scenario, cmp.Base.Scenario)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "line\tbase\tnew\tdifference\tvariance\t")
	rows := []struct {
		name            string
		base, next, dif float64
	}{
		{"Revenue", base.Revenue, next.Revenue, diff.Revenue},
		{"CoGS", base.CoGS, next.CoGS, diff.CoGS},
		{"CM1", base.CM1, next.CM1, diff.CM1},
		{"Fulfilment", base.Fulfilment, next.Fulfilment, diff.Fulfilment},
		{"CM2", base.CM2, next.CM2, diff.CM2},
		{"Overheads", base.Overheads, next.Overheads, diff.Overheads},
		{"EBITDA", base.EBITDA, next.EBITDA, diff.EBITDA},
	}
	for _, r := range rows {
		variance := "-"
		if r.base != 0 {
			variance = format.Percent(r.dif / math.Abs(r.base) * 100)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", r.name, format.Currency(r.base), format.Currency(r.next), format.Currency(r.dif), variance)
	}
	_ = tw.Flush()
}

func printWaterfall(w io.Writer, ch analysis.WaterfallChart) {
	fmt.Fprintln(w, ch.Label)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, b := range ch.Bars {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", b.Label, b.Measure, format.Currency(b.Value))
	}
	_ = tw.Flush()
	m := ch.Margins
	fmt.Fprintf(w, "CM1 %s  CM2 %s  EBITDA %s  CoGS %s\n\n",
		format.Percent(m.CM1Pct), format.Percent(m.CM2Pct), format.Percent(m.EBITDAPct), format.Percent(m.CoGSPct))
}

func printQuality(w io.Writer, r *analysis.QualityReport) {
	fmt.Fprintf(w, "Score %.0f (%s)\n", r.Score, r.Grade)
	fmt.Fprintf(w, "Revenue: B2B %s  DTC %s  Marketplace %s  Statement %s\n",
		format.Currency(r.B2BRevenue), format.Currency(r.DTCRevenue),
		format.Currency(r.MarketplaceRevenue), format.Currency(r.StatementRevenue))
	for _, s := range r.Issues {
		fmt.Fprintf(w, "ISSUE   %s\n", s)
	}
	for _, s := range r.Warnings {
		fmt.Fprintf(w, "WARNING %s\n", s)
	}
}

func printMarketing(w io.Writer, r *analysis.MarketingReport, p *analysis.MarketingProjection) {
	fmt.Fprintf(w, "Marketing %s (%s of revenue), avg %s/month\n",
		format.Currency(r.Total), format.Percent(r.PctOfRevenue), format.Currency(r.AvgMonthly))
	fmt.Fprintf(w, "Revenue per £1 marketing: £%.2f\n", r.RevenuePerPound)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "source\tchannel\tspend\tshare\t")
	for _, s := range r.Spend {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", s.Source, s.Channel, format.Currency(s.Annual), format.Percent(s.SharePct))
	}
	_ = tw.Flush()
	if len(r.Returns) > 0 {
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "territory\tspend\trevenue\tper £1\t")
		for _, ret := range r.Returns {
			fmt.Fprintf(tw, "%s\t%s\t%s\t£%.2f\t\n", ret.Territory, format.Currency(ret.Spend), format.Currency(ret.Revenue), ret.RevenuePerPound)
		}
		_ = tw.Flush()
	}
	if p != nil {
		fmt.Fprintf(w, "Budget %+.0f%%: spend %s, revenue %s (%s), %+.1fpp of revenue\n",
			p.ChangePct, format.Currency(p.Spend), format.Currency(p.Revenue), format.Currency(p.RevenueDelta), p.PointChange)
	}
}
