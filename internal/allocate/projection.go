package allocate

import "strings"

// normalGrowthEndDay splits the month into a normal-growth period and a
// surge period for projection purposes. The split and the default factor
// are empirically tuned against prior-month closings, so the policy is
// replaceable rather than baked into the pipeline.
const normalGrowthEndDay = 23

// SurgePolicy supplies the end-of-month surge multiplier for a given
// aggregation level ("team", "metric", "region") and name.
type SurgePolicy interface {
	Factor(level, name string) float64
}

// StaticSurgePolicy is a SurgePolicy backed by a fixed lookup table with a
// global fallback factor for names without a calibrated entry.
type StaticSurgePolicy struct {
	// Threshold is the share of monthly volume in the closing days above
	// which a name earns the surge multiplier during calibration.
	Threshold float64
	// Multiplier is the fallback factor when a name has no entry.
	Multiplier float64
	// Factors maps level -> upper-cased name -> factor.
	Factors map[string]map[string]float64
}

// DefaultSurgePolicy returns the policy with the tuned defaults and no
// per-name calibration.
func DefaultSurgePolicy() *StaticSurgePolicy {
	return &StaticSurgePolicy{Threshold: 0.20, Multiplier: 2.5}
}

func (p *StaticSurgePolicy) Factor(level, name string) float64 {
	if p == nil {
		return 1.0
	}
	if byName, ok := p.Factors[level]; ok {
		if f, ok := byName[strings.ToUpper(strings.TrimSpace(name))]; ok {
			return f
		}
	}
	if p.Multiplier > 0 {
		return p.Multiplier
	}
	return 1.0
}

// Projection estimates the month-end actual: the daily average runs flat
// through the normal period and is scaled by the surge factor over the
// closing days.
func Projection(actual float64, daysElapsed, daysInMonth int, surgeFactor float64) float64 {
	if actual <= 0 || daysElapsed <= 0 {
		return 0
	}
	if surgeFactor <= 0 {
		surgeFactor = 1.0
	}

	dailyAvg := actual / float64(daysElapsed)

	var normalDays, surgeDays int
	if daysElapsed <= normalGrowthEndDay {
		normalDays = normalGrowthEndDay - daysElapsed
		surgeDays = daysInMonth - normalGrowthEndDay
	} else {
		normalDays = 0
		surgeDays = daysInMonth - daysElapsed
		if surgeDays < 0 {
			surgeDays = 0
		}
	}

	return actual + dailyAvg*float64(normalDays) + dailyAvg*float64(surgeDays)*surgeFactor
}
