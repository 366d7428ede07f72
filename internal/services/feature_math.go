package services

import (
	"math"
	"sort"
	"time"
)

// Statistical reducers tolerant of empty and singleton inputs. Every reducer
// returns 0 rather than NaN so downstream feature vectors stay finite.

func safeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// safeStd is the population standard deviation. Fewer than two observations
// carry no spread information and yield 0.
func safeStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := safeMean(values)
	var sumSquares float64
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

func safeLast(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}

func safeMax(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func safeMin(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// shannonEntropy computes -sum(p*ln(p)) over a categorical count
// distribution. Zero counts contribute nothing.
func shannonEntropy(counts map[string]int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	entropy := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		entropy -= p * math.Log(p)
	}
	return entropy
}

// monthKey buckets a timestamp into its calendar month.
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// sortedMonths returns the keys of a per-month map in chronological order.
// The YYYY-MM format makes lexical order chronological.
func sortedMonths[T any](byMonth map[string]T) []string {
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

// pctChange computes month-over-month relative growth. The first element has
// no predecessor and is defined as 0, matching a pct_change with zero fill.
func pctChange(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	out := make([]float64, len(series))
	for i := 1; i < len(series); i++ {
		if series[i-1] != 0 {
			out[i] = (series[i] - series[i-1]) / series[i-1]
		}
	}
	return out
}

// diffSeries computes first differences with the leading element defined as 0.
func diffSeries(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	out := make([]float64, len(series))
	for i := 1; i < len(series); i++ {
		out[i] = series[i] - series[i-1]
	}
	return out
}

// top3Share returns the summed share of the three largest category counts.
// Always in [0, 1]; exactly 1 when at most three categories are present.
func top3Share(counts map[string]int) float64 {
	total := 0
	shares := make([]float64, 0, len(counts))
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	for _, c := range counts {
		shares = append(shares, float64(c)/float64(total))
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(shares)))
	sum := 0.0
	for i, s := range shares {
		if i >= 3 {
			break
		}
		sum += s
	}
	return sum
}
