package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"menumerge/internal/entity"
	"menumerge/internal/geo"
)

// Downtown is a fixed reference point (Chicago Loop) for entity fixtures.
var Downtown = entity.Coordinates{Lat: 41.8781, Lon: -87.6298}

// EntityOption customizes a fixture entity.
type EntityOption func(*entity.SourceEntity)

// Restaurant builds a SourceEntity fixture.
func Restaurant(origin, id, name string, opts ...EntityOption) entity.SourceEntity {
	e := entity.SourceEntity{SourceID: id, OriginTag: origin, Name: name}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// At places the entity at the given coordinates.
func At(lat, lon float64) EntityOption {
	return func(e *entity.SourceEntity) {
		e.Coordinates = &entity.Coordinates{Lat: lat, Lon: lon}
	}
}

// NorthOf places the entity the given number of meters north of c.
func NorthOf(c entity.Coordinates, meters float64) EntityOption {
	return func(e *entity.SourceEntity) {
		p := geo.OffsetNorth(c, meters)
		e.Coordinates = &p
	}
}

// WithPhone sets the entity phone number.
func WithPhone(phone string) EntityOption {
	return func(e *entity.SourceEntity) {
		e.Phone = phone
	}
}

// WithAddress sets the entity street address.
func WithAddress(address string) EntityOption {
	return func(e *entity.SourceEntity) {
		e.Address = address
	}
}

// WithAttr sets one provider attribute.
func WithAttr(key string, value any) EntityOption {
	return func(e *entity.SourceEntity) {
		if e.Attributes == nil {
			e.Attributes = map[string]any{}
		}
		e.Attributes[key] = value
	}
}

// Candidate builds an ExtractionCandidate fixture.
func Candidate(name string, confidence float64, sources ...string) entity.ExtractionCandidate {
	return entity.ExtractionCandidate{RawName: name, Confidence: confidence, OriginTags: sources}
}

// WriteJSON encodes v into path, creating parent directories.
func WriteJSON(t testing.TB, path string, v any) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
