// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package forecast

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/pdiddy/skillcast/pkg/types"
)

// ciMultiplier scales the residual standard error into the confidence
// interval (1.96 ≈ 95% under a normal residual assumption).
const ciMultiplier = 1.96

// Output holds the forecasts of one batch plus the diagnostics for
// skills that could not be forecast. The batch always completes:
// insufficient skills are reported, never silently dropped.
type Output struct {
	Results     []types.ForecastResult
	Diagnostics []types.Diagnostic
}

// ByID returns the forecast for a skill, if present.
func (o Output) ByID(skillID string) (types.ForecastResult, bool) {
	for _, r := range o.Results {
		if r.SkillID == skillID {
			return r, true
		}
	}
	return types.ForecastResult{}, false
}

// ForecastAll fits every skill series concurrently and merges the
// results by skill ID. Each fit depends only on its own series and the
// shared read-only config, so the fan-out needs no locking; identical
// input always produces identical output.
func ForecastAll(series []types.SkillSeries, cfg types.ForecastConfig) Output {
	ch := make(chan types.ForecastResult, len(series))
	var wg sync.WaitGroup

	for _, s := range series {
		wg.Add(1)
		go func(s types.SkillSeries) {
			defer wg.Done()
			ch <- ForecastSkill(s, cfg)
		}(s)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var out Output
	for r := range ch {
		out.Results = append(out.Results, r)
		if r.Trend == types.TrendInsufficient {
			out.Diagnostics = append(out.Diagnostics, types.Diagnostic{
				Stage:    "forecast",
				EntityID: r.SkillID,
				Reason:   fmt.Sprintf("insufficient history: need %d observed buckets", cfg.MinHistoryBuckets),
			})
		}
	}

	sort.Slice(out.Results, func(i, j int) bool {
		return out.Results[i].SkillID < out.Results[j].SkillID
	})
	sort.Slice(out.Diagnostics, func(i, j int) bool {
		return out.Diagnostics[i].EntityID < out.Diagnostics[j].EntityID
	})
	return out
}

// ForecastSkill fits one skill's smoothed series with a least-squares
// polynomial trend and extrapolates cfg.Horizon buckets past the end of
// the observed axis. Skills with fewer than cfg.MinHistoryBuckets
// observed buckets get trend insufficient_data and no numeric forecast.
func ForecastSkill(s types.SkillSeries, cfg types.ForecastConfig) types.ForecastResult {
	res := types.ForecastResult{
		SkillID: s.SkillID,
		Horizon: cfg.Horizon,
	}

	if s.ObservedBuckets() < cfg.MinHistoryBuckets {
		res.Trend = types.TrendInsufficient
		return res
	}

	smoothed := Smooth(s.Counts, cfg.SmoothingWindow)
	coeffs := fitPolynomial(smoothed, cfg.TrendDegree)
	stderr := residualStdError(smoothed, coeffs)

	n := len(smoothed)
	res.Predicted = make([]float64, cfg.Horizon)
	res.Interval = &types.ConfidenceInterval{
		Lower: make([]float64, cfg.Horizon),
		Upper: make([]float64, cfg.Horizon),
	}
	for h := 0; h < cfg.Horizon; h++ {
		p := evalPolynomial(coeffs, float64(n+h))
		if p < 0 {
			p = 0
		}
		res.Predicted[h] = p

		lo := p - ciMultiplier*stderr
		if lo < 0 {
			lo = 0
		}
		res.Interval.Lower[h] = lo
		res.Interval.Upper[h] = p + ciMultiplier*stderr
	}

	res.Growth = forecastGrowth(smoothed, res.Predicted)
	res.Trend = classify(res.Growth, cfg)
	return res
}

// Smooth applies a trailing moving average of the given window. Window 1
// returns the counts unchanged (as floats).
func Smooth(counts []int, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(counts))
	sum := 0
	for t, c := range counts {
		sum += c
		if t >= window {
			sum -= counts[t-window]
		}
		span := window
		if t+1 < window {
			span = t + 1
		}
		out[t] = float64(sum) / float64(span)
	}
	return out
}

// forecastGrowth is the relative change of the mean predicted demand
// against the last smoothed observation. The denominator is floored at
// one posting so dormant skills cannot divide by zero.
func forecastGrowth(smoothed, predicted []float64) float64 {
	if len(smoothed) == 0 || len(predicted) == 0 {
		return 0
	}
	last := smoothed[len(smoothed)-1]

	var mean float64
	for _, p := range predicted {
		mean += p
	}
	mean /= float64(len(predicted))

	return (mean - last) / math.Max(last, 1)
}

func classify(growth float64, cfg types.ForecastConfig) types.TrendLabel {
	switch {
	case growth > cfg.EmergingThreshold:
		return types.TrendEmerging
	case growth < cfg.DecliningThreshold:
		return types.TrendDeclining
	default:
		return types.TrendStable
	}
}

// fitPolynomial computes least-squares coefficients (ascending powers)
// for y over x = 0..n-1. The degree is clamped so the system stays
// overdetermined or exactly determined; a single point fits a constant.
func fitPolynomial(y []float64, degree int) []float64 {
	n := len(y)
	if degree > n-1 {
		degree = n - 1
	}
	if degree < 0 {
		return []float64{0}
	}

	p := degree + 1

	// Normal equations: sums of x^k and x^k*y.
	xpow := make([]float64, 2*degree+1)
	for i := 0; i < n; i++ {
		v := 1.0
		for k := 0; k <= 2*degree; k++ {
			xpow[k] += v
			v *= float64(i)
		}
	}
	rhs := make([]float64, p)
	for i := 0; i < n; i++ {
		v := 1.0
		for k := 0; k < p; k++ {
			rhs[k] += v * y[i]
			v *= float64(i)
		}
	}

	m := make([][]float64, p)
	for r := 0; r < p; r++ {
		m[r] = make([]float64, p+1)
		for c := 0; c < p; c++ {
			m[r][c] = xpow[r+c]
		}
		m[r][p] = rhs[r]
	}

	return solve(m)
}

// solve runs Gaussian elimination with partial pivoting on an augmented
// matrix. Singular pivots collapse to zero coefficients, which keeps
// degenerate series (all zeros) well defined.
func solve(m [][]float64) []float64 {
	p := len(m)
	for col := 0; col < p; col++ {
		pivot := col
		for r := col + 1; r < p; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		m[col], m[pivot] = m[pivot], m[col]

		if math.Abs(m[col][col]) < 1e-12 {
			continue
		}
		for r := col + 1; r < p; r++ {
			f := m[r][col] / m[col][col]
			for c := col; c <= p; c++ {
				m[r][c] -= f * m[col][c]
			}
		}
	}

	coeffs := make([]float64, p)
	for r := p - 1; r >= 0; r-- {
		if math.Abs(m[r][r]) < 1e-12 {
			coeffs[r] = 0
			continue
		}
		v := m[r][p]
		for c := r + 1; c < p; c++ {
			v -= m[r][c] * coeffs[c]
		}
		coeffs[r] = v / m[r][r]
	}
	return coeffs
}

func evalPolynomial(coeffs []float64, x float64) float64 {
	v := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		v = v*x + coeffs[i]
	}
	return v
}

// residualStdError is sqrt(SSR / (n - p)), with the denominator floored
// at one so exact fits yield a zero-width interval instead of NaN.
func residualStdError(y []float64, coeffs []float64) float64 {
	n := len(y)
	var ssr float64
	for i := 0; i < n; i++ {
		r := y[i] - evalPolynomial(coeffs, float64(i))
		ssr += r * r
	}
	df := n - len(coeffs)
	if df < 1 {
		df = 1
	}
	return math.Sqrt(ssr / float64(df))
}
