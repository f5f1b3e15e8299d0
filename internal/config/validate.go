package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateMerge(); err != nil {
		return err
	}
	if err := c.validateAggregation(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMatching() error {
	m := c.Matching
	weights := map[string]float64{
		"matching.name_weight":  m.NameWeight,
		"matching.phone_weight": m.PhoneWeight,
		"matching.geo_weight":   m.GeoWeight,
	}
	for key, value := range weights {
		if math.IsNaN(value) || value < 0 {
			return fmt.Errorf("%s must be >= 0", key)
		}
	}
	if m.NameWeight+m.PhoneWeight+m.GeoWeight <= 0 {
		return errors.New("matching weights must not all be zero")
	}
	if math.IsNaN(m.GeoDistanceThresholdM) || m.GeoDistanceThresholdM <= 0 {
		return errors.New("matching.geo_distance_threshold_m must be positive")
	}
	if math.IsNaN(m.MinMatchConfidence) || m.MinMatchConfidence < 0 || m.MinMatchConfidence > 1 {
		return errors.New("matching.min_match_confidence must be between 0 and 1")
	}
	switch m.Assignment {
	case AssignmentGreedy, AssignmentOptimal:
	default:
		return fmt.Errorf("matching.assignment: unsupported value %q (use %q or %q)", m.Assignment, AssignmentGreedy, AssignmentOptimal)
	}
	if m.Workers <= 0 {
		return errors.New("matching.workers must be positive")
	}
	return nil
}

func (c *Config) validateMerge() error {
	if len(c.Merge.RequiredFieldsChecklist) == 0 {
		return errors.New("merge.required_fields_checklist must include at least one field")
	}
	if c.Merge.QualityPrecision < 0 || c.Merge.QualityPrecision > 6 {
		return errors.New("merge.quality_precision must be between 0 and 6")
	}
	if len(c.Merge.DefaultPrecedence) == 0 {
		return errors.New("merge.default_precedence must include at least one selector")
	}
	for field, order := range c.Merge.FieldPrecedence {
		if len(order) == 0 {
			return fmt.Errorf("merge.field_precedence.%s must include at least one selector", field)
		}
	}
	return nil
}

func (c *Config) validateAggregation() error {
	if c.Aggregation.AggregationCap < 0 {
		return errors.New("aggregation.aggregation_cap must be >= 0")
	}
	if c.Aggregation.MinKeyLength < 0 {
		return errors.New("aggregation.min_key_length must be >= 0")
	}
	return nil
}
