// Package stats summarizes the durations recorded by an experiment run.
package stats

import (
	"math"
	"slices"
	"time"
)

// Summary describes a series of durations. Values are in nanoseconds.
type Summary struct {
	MeanNs             float64 `json:"mean_ns"`
	StdNs              float64 `json:"std_ns"`
	P50Ns              int64   `json:"p50_ns"`
	P90Ns              int64   `json:"p90_ns"`
	P99Ns              int64   `json:"p99_ns"`
	JitterMeanNs       float64 `json:"jitter_mean_ns"`
	AdjJitterMeanAbsNs float64 `json:"adj_jitter_mean_abs_ns"`
	AdjJitterP99AbsNs  int64   `json:"adj_jitter_p99_abs_ns"`
	DriftMaxPosNs      int64   `json:"drift_max_pos_ns"`
	DriftMaxNegNs      int64   `json:"drift_max_neg_ns"`
	SampleCount        int     `json:"sample_count"`
	TicksPerSecondMean float64 `json:"ticks_per_second_mean"`
}

// Report is the summary of a run as written to the summary sink.
type Report struct {
	RunID            string  `json:"run_id"`
	UnitType         string  `json:"unit_type"`
	TargetDurationNs *int64  `json:"target_duration_ns,omitempty"`
	Summary          Summary `json:"summary"`
}

// Summarize computes the summary of durations in the order they were recorded.
// Drift is measured against target, or against the mean when target is zero.
// It returns false if durations is empty.
func Summarize(durations []time.Duration, target time.Duration) (*Summary, bool) {
	if len(durations) == 0 {
		return nil, false
	}
	n := float64(len(durations))

	var sum float64
	for _, d := range durations {
		sum += float64(d)
	}
	mean := sum / n

	var variance float64
	for _, d := range durations {
		diff := float64(d) - mean
		variance += diff * diff
	}
	variance /= n

	sorted := make([]int64, len(durations))
	for i, d := range durations {
		sorted[i] = int64(d)
	}
	slices.Sort(sorted)

	// Differences between adjacent samples.
	jitter := make([]int64, 0, len(durations))
	for i := 1; i < len(durations); i++ {
		jitter = append(jitter, int64(durations[i]-durations[i-1]))
	}
	absJitter := make([]int64, len(jitter))
	var jitterSum, absJitterSum float64
	for i, j := range jitter {
		jitterSum += float64(j)
		absJitter[i] = abs(j)
		absJitterSum += float64(absJitter[i])
	}
	slices.Sort(absJitter)

	s := &Summary{
		MeanNs:            mean,
		StdNs:             math.Sqrt(variance),
		P50Ns:             Percentile(sorted, 50),
		P90Ns:             Percentile(sorted, 90),
		P99Ns:             Percentile(sorted, 99),
		AdjJitterP99AbsNs: Percentile(absJitter, 99),
		SampleCount:       len(durations),
	}
	if len(jitter) > 0 {
		s.JitterMeanNs = jitterSum / float64(len(jitter))
		s.AdjJitterMeanAbsNs = absJitterSum / float64(len(jitter))
	}

	base := mean
	if target > 0 {
		base = float64(target)
	}
	s.DriftMaxPosNs, s.DriftMaxNegNs = driftExtremes(durations, base)

	if mean > 0 {
		s.TicksPerSecondMean = float64(time.Second) / mean
	}
	return s, true
}

// Percentile returns the element of sorted at rank round(pct/100 * (len-1)), or 0 if sorted is empty.
func Percentile(sorted []int64, pct float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Round(pct / 100 * float64(len(sorted)-1)))
	return sorted[rank]
}

// driftExtremes returns the largest and smallest running sum of d - round(base).
// Both start at zero.
func driftExtremes(durations []time.Duration, base float64) (maxPos, maxNeg int64) {
	step := int64(math.Round(base))
	var drift int64
	for _, d := range durations {
		drift += int64(d) - step
		maxPos = max(maxPos, drift)
		maxNeg = min(maxNeg, drift)
	}
	return maxPos, maxNeg
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
