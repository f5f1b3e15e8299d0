package scoring

import (
	"math"

	"menumerge/internal/config"
)

// Policy holds the weights and thresholds applied to every scored pair.
type Policy struct {
	NameWeight            float64
	PhoneWeight           float64
	GeoWeight             float64
	GeoDistanceThresholdM float64
	MinMatchConfidence    float64
}

// DefaultPolicy returns the stock 0.4/0.4/0.2 weighting with a 100 m gate.
func DefaultPolicy() Policy {
	return Policy{
		NameWeight:            0.4,
		PhoneWeight:           0.4,
		GeoWeight:             0.2,
		GeoDistanceThresholdM: 100,
		MinMatchConfidence:    0.5,
	}
}

// PolicyFromConfig maps the matching section of the configuration.
func PolicyFromConfig(m config.Matching) Policy {
	return Policy{
		NameWeight:            m.NameWeight,
		PhoneWeight:           m.PhoneWeight,
		GeoWeight:             m.GeoWeight,
		GeoDistanceThresholdM: m.GeoDistanceThresholdM,
		MinMatchConfidence:    m.MinMatchConfidence,
	}
}

func (p Policy) normalized() Policy {
	d := DefaultPolicy()

	invalid := func(w float64) bool { return math.IsNaN(w) || math.IsInf(w, 0) || w < 0 }
	if invalid(p.NameWeight) || invalid(p.PhoneWeight) || invalid(p.GeoWeight) ||
		p.NameWeight+p.PhoneWeight+p.GeoWeight == 0 {
		p.NameWeight, p.PhoneWeight, p.GeoWeight = d.NameWeight, d.PhoneWeight, d.GeoWeight
	}
	if math.IsNaN(p.GeoDistanceThresholdM) || p.GeoDistanceThresholdM <= 0 {
		p.GeoDistanceThresholdM = d.GeoDistanceThresholdM
	}
	if math.IsNaN(p.MinMatchConfidence) || p.MinMatchConfidence < 0 || p.MinMatchConfidence > 1 {
		p.MinMatchConfidence = d.MinMatchConfidence
	}
	return p
}
