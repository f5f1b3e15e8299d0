package entity

import (
	"math"
	"reflect"
	"strings"
)

// Core field names resolved directly from SourceEntity rather than its attributes.
const (
	FieldName        = "name"
	FieldPhone       = "phone"
	FieldAddress     = "address"
	FieldCoordinates = "coordinates"
)

// Key identifies a SourceEntity across providers.
type Key struct {
	OriginTag string `json:"origin"`
	SourceID  string `json:"id"`
}

func (k Key) String() string {
	return k.OriginTag + ":" + k.SourceID
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the pair is finite and within the WGS84 ranges.
func (c *Coordinates) Valid() bool {
	if c == nil {
		return false
	}
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// SourceEntity is one restaurant record as reported by a single provider.
type SourceEntity struct {
	SourceID    string         `json:"id"`
	OriginTag   string         `json:"origin"`
	Name        string         `json:"name"`
	Coordinates *Coordinates   `json:"coordinates,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Address     string         `json:"address,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

// Key returns the entity identity.
func (e SourceEntity) Key() Key {
	return Key{OriginTag: e.OriginTag, SourceID: e.SourceID}
}

// Field resolves a named field, checking core fields before attributes.
// The boolean is false when the value is absent or not populated.
func (e SourceEntity) Field(name string) (any, bool) {
	switch name {
	case FieldName:
		return e.Name, Populated(e.Name)
	case FieldPhone:
		return e.Phone, Populated(e.Phone)
	case FieldAddress:
		return e.Address, Populated(e.Address)
	case FieldCoordinates:
		if !e.Coordinates.Valid() {
			return nil, false
		}
		return *e.Coordinates, true
	}
	value, ok := e.Attributes[name]
	if !ok {
		return nil, false
	}
	return value, Populated(value)
}

// FieldNames lists every field the entity carries a populated value for.
func (e SourceEntity) FieldNames() []string {
	names := make([]string, 0, 4+len(e.Attributes))
	for _, name := range []string{FieldName, FieldPhone, FieldAddress, FieldCoordinates} {
		if _, ok := e.Field(name); ok {
			names = append(names, name)
		}
	}
	for name, value := range e.Attributes {
		if isCoreField(name) || !Populated(value) {
			continue
		}
		names = append(names, name)
	}
	return names
}

func isCoreField(name string) bool {
	switch name {
	case FieldName, FieldPhone, FieldAddress, FieldCoordinates:
		return true
	}
	return false
}

// Populated reports whether a field value carries information. Nil, blank
// strings, and empty collections are absent; zero numbers and false are not.
func Populated(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	case *Coordinates:
		return v.Valid()
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	case reflect.Slice, reflect.Map:
		return rv.Len() > 0
	}
	return true
}

// ExtractionCandidate is one menu item observation produced by an extraction strategy.
type ExtractionCandidate struct {
	RawName     string   `json:"name"`
	Price       string   `json:"price,omitempty"`
	Description string   `json:"description,omitempty"`
	Confidence  float64  `json:"confidence"`
	OriginTags  []string `json:"sources"`
	Category    string   `json:"category,omitempty"`
}

// MatchResult is the scored outcome for one entity pair.
type MatchResult struct {
	EntityA        Key      `json:"entity_a"`
	EntityB        Key      `json:"entity_b"`
	Confidence     float64  `json:"confidence"`
	NameSimilarity float64  `json:"name_similarity"`
	PhoneMatch     bool     `json:"phone_match"`
	GeoDistanceM   *float64 `json:"geo_distance_m,omitempty"`
	GeoScore       float64  `json:"geo_score"`
}

// FieldValue is a merged field stamped with the origin that supplied it.
type FieldValue struct {
	Value  any    `json:"value"`
	Source string `json:"source"`
}

// MergedRecord is the authoritative output for one real-world restaurant.
type MergedRecord struct {
	ID              string                `json:"id"`
	DataSources     []string              `json:"data_sources"`
	SourceIDs       map[string]string     `json:"source_ids"`
	Fields          map[string]FieldValue `json:"fields"`
	QualityScore    float64               `json:"quality_score"`
	MatchConfidence float64               `json:"match_confidence,omitempty"`
}

// Value returns the merged value for a field, or nil when it was not resolved.
func (r MergedRecord) Value(name string) any {
	if fv, ok := r.Fields[name]; ok {
		return fv.Value
	}
	return nil
}

// Name returns the merged display name.
func (r MergedRecord) Name() string {
	if s, ok := r.Value(FieldName).(string); ok {
		return s
	}
	return ""
}
