// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package forecast

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/skillcast/pkg/types"
)

// DemandTable flattens observed series and forecasts into the per-skill,
// per-period rows consumed by downstream reporting. Forecast periods
// continue the observed axis with strictly increasing indices; skills
// without a numeric forecast contribute observed rows only.
func DemandTable(axis types.TimeAxis, series []types.SkillSeries, out Output) []types.DemandRow {
	byID := make(map[string]types.ForecastResult, len(out.Results))
	for _, r := range out.Results {
		byID[r.SkillID] = r
	}

	var rows []types.DemandRow
	for _, s := range series {
		fc := byID[s.SkillID]
		rates := GrowthRates(s.Counts)

		for t, c := range s.Counts {
			rows = append(rows, types.DemandRow{
				SkillID:     s.SkillID,
				Period:      t,
				PeriodStart: axis.PeriodStart(t),
				Observed:    c,
				Growth:      rates[t],
				Trend:       fc.Trend,
			})
		}

		for h, p := range fc.Predicted {
			t := len(s.Counts) + h
			pv := p
			rows = append(rows, types.DemandRow{
				SkillID:     s.SkillID,
				Period:      t,
				PeriodStart: axis.PeriodStart(t),
				Forecast:    &pv,
				Trend:       fc.Trend,
			})
		}
	}
	return rows
}

// TrendSummary counts skills per trend label for one batch.
type TrendSummary struct {
	Emerging     int
	Stable       int
	Declining    int
	Insufficient int
}

// Summarize tallies the batch's trend labels.
func Summarize(out Output) TrendSummary {
	var s TrendSummary
	for _, r := range out.Results {
		switch r.Trend {
		case types.TrendEmerging:
			s.Emerging++
		case types.TrendStable:
			s.Stable++
		case types.TrendDeclining:
			s.Declining++
		case types.TrendInsufficient:
			s.Insufficient++
		}
	}
	return s
}

// FormatTable writes forecasts as a human-readable table to w, most
// strongly growing skills first.
func FormatTable(out Output, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No skills forecast.")
		return
	}

	sorted := make([]types.ForecastResult, len(out.Results))
	copy(sorted, out.Results)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.HasForecast() != b.HasForecast() {
			return a.HasForecast()
		}
		if a.Growth != b.Growth {
			return a.Growth > b.Growth
		}
		return a.SkillID < b.SkillID
	})

	fmt.Fprintf(w, "%-24s  %-17s  %8s  %s\n", "Skill", "Trend", "Growth", "Forecast")
	fmt.Fprintln(w, strings.Repeat("-", 72))

	for _, r := range sorted {
		if !r.HasForecast() {
			fmt.Fprintf(w, "%-24s  %-17s  %8s  %s\n", r.SkillID, r.Trend, "-", "-")
			continue
		}
		preds := make([]string, len(r.Predicted))
		for i, p := range r.Predicted {
			preds[i] = fmt.Sprintf("%.1f", p)
		}
		fmt.Fprintf(w, "%-24s  %-17s  %+7.1f%%  %s\n",
			r.SkillID, r.Trend, r.Growth*100, strings.Join(preds, ", "))
	}

	s := Summarize(out)
	fmt.Fprintf(w, "\n%d skills: %d emerging, %d stable, %d declining, %d insufficient data\n",
		len(out.Results), s.Emerging, s.Stable, s.Declining, s.Insufficient)
}
