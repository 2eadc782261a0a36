// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package coverage compares forecasted skill demand against catalog
// coverage and flags high-demand skills the curriculum barely teaches.
// See docs/ARCHITECTURE § Coverage.
package coverage

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/skillcast/internal/forecast"
	"github.com/pdiddy/skillcast/internal/mapper"
	"github.com/pdiddy/skillcast/pkg/types"
)

// Analyze produces the full per-skill coverage report, sorted by demand
// rank. Every skill with a numeric forecast appears, flagged or not, so
// downstream reporting can re-threshold without rerunning the engine.
// Skills without a forecast carry no demand rank and are omitted.
func Analyze(m *mapper.Matrix, fc forecast.Output, cfg types.CoverageConfig) []types.CoverageRow {
	var ranked []types.ForecastResult
	for _, r := range fc.Results {
		if r.HasForecast() {
			ranked = append(ranked, r)
		}
	}

	// Demand rank: forecasted growth descending, skill ID breaking ties
	// so the ranking is reproducible.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Growth != ranked[j].Growth {
			return ranked[i].Growth > ranked[j].Growth
		}
		return ranked[i].SkillID < ranked[j].SkillID
	})

	topRanks := int(math.Ceil(cfg.TopDemandFraction * float64(len(ranked))))

	rows := make([]types.CoverageRow, 0, len(ranked))
	for i, r := range ranked {
		rank := i + 1
		score := m.RowAggregate(r.SkillID, cfg.Aggregate)
		rows = append(rows, types.CoverageRow{
			SkillID:       r.SkillID,
			DemandRank:    rank,
			CoverageScore: score,
			Gap:           rank <= topRanks && score < cfg.LowCoverageThreshold,
		})
	}
	return rows
}

// Gaps filters a report down to the flagged rows.
func Gaps(rows []types.CoverageRow) []types.CoverageRow {
	var gaps []types.CoverageRow
	for _, r := range rows {
		if r.Gap {
			gaps = append(gaps, r)
		}
	}
	return gaps
}

// FormatTable writes the coverage report as a human-readable table to w.
func FormatTable(rows []types.CoverageRow, w io.Writer) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No skills analyzed.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-24s  %-8s  %s\n", "Rank", "Skill", "Coverage", "Gap")
	fmt.Fprintln(w, strings.Repeat("-", 46))
	for _, r := range rows {
		gap := ""
		if r.Gap {
			gap = "GAP"
		}
		fmt.Fprintf(w, "%-4d  %-24s  %8.3f  %s\n", r.DemandRank, r.SkillID, r.CoverageScore, gap)
	}

	fmt.Fprintf(w, "\n%d skills, %d curriculum gaps\n", len(rows), len(Gaps(rows)))
}
