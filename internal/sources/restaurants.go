package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"menumerge/internal/entity"
)

var errNoRestaurantList = errors.New(`expected a "restaurants" or "all_restaurants" list`)

type restaurantFile struct {
	Origin         string           `json:"origin"`
	Restaurants    []map[string]any `json:"restaurants"`
	AllRestaurants []map[string]any `json:"all_restaurants"`
}

// Keys consumed by the loader rather than kept as attributes.
var reservedKeys = map[string]bool{
	"id": true, "origin": true, "name": true,
	"latitude": true, "longitude": true, "lat": true, "lon": true, "lng": true,
	"coordinates": true, "phone": true, "address": true,
}

// LoadRestaurants reads one provider export. Entities without an origin of
// their own take the file-level origin, then fallbackOrigin.
func LoadRestaurants(path, fallbackOrigin string) ([]entity.SourceEntity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	defer f.Close()

	entities, err := DecodeRestaurants(f, fallbackOrigin)
	if err != nil {
		var verr *entity.ValidationError
		if errors.As(err, &verr) {
			if verr.Set == "" {
				verr.Set = path
			}
			return nil, err
		}
		return nil, &InputError{Path: path, Err: err}
	}
	return entities, nil
}

// DecodeRestaurants parses a restaurant export from r.
func DecodeRestaurants(r io.Reader, fallbackOrigin string) ([]entity.SourceEntity, error) {
	var file restaurantFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode restaurants: %w", err)
	}
	records := file.Restaurants
	if records == nil {
		records = file.AllRestaurants
	}
	if records == nil {
		return nil, errNoRestaurantList
	}

	origin := strings.TrimSpace(file.Origin)
	if origin == "" {
		origin = strings.TrimSpace(fallbackOrigin)
	}

	entities := make([]entity.SourceEntity, 0, len(records))
	for i, raw := range records {
		e, err := decodeRestaurant(raw, origin)
		if err != nil {
			err.Index = i
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func decodeRestaurant(raw map[string]any, origin string) (entity.SourceEntity, *entity.ValidationError) {
	var e entity.SourceEntity

	id, ok := scalarString(raw["id"])
	if !ok || strings.TrimSpace(id) == "" {
		return e, &entity.ValidationError{Field: "id", Err: entity.ErrMissingField}
	}
	e.SourceID = id

	name, ok := raw["name"].(string)
	if !ok {
		return e, &entity.ValidationError{Field: "name", Err: entity.ErrMissingField}
	}
	e.Name = name

	e.OriginTag = origin
	if own, ok := raw["origin"].(string); ok && strings.TrimSpace(own) != "" {
		e.OriginTag = strings.TrimSpace(own)
	}
	if e.OriginTag == "" {
		return e, &entity.ValidationError{Field: "origin", Err: entity.ErrMissingField}
	}

	e.Coordinates = coordinatesOf(raw)
	if phone, ok := scalarString(raw["phone"]); ok {
		e.Phone = phone
	}

	for key, value := range raw {
		if key == "address" {
			if s, ok := value.(string); ok {
				e.Address = s
				continue
			}
		} else if reservedKeys[key] {
			continue
		}
		if e.Attributes == nil {
			e.Attributes = make(map[string]any)
		}
		e.Attributes[key] = value
	}
	return e, nil
}

// coordinatesOf reads flat latitude/longitude keys or a nested coordinates
// object. A missing half, or the 0,0 placeholder providers emit for unknown
// locations, yields nil.
func coordinatesOf(raw map[string]any) *entity.Coordinates {
	lat, latOK := firstNumber(raw, "latitude", "lat")
	lon, lonOK := firstNumber(raw, "longitude", "lon", "lng")
	if nested, ok := raw["coordinates"].(map[string]any); ok && (!latOK || !lonOK) {
		lat, latOK = firstNumber(nested, "latitude", "lat")
		lon, lonOK = firstNumber(nested, "longitude", "lon", "lng")
	}
	if !latOK || !lonOK || (lat == 0 && lon == 0) {
		return nil
	}
	return &entity.Coordinates{Lat: lat, Lon: lon}
}

func firstNumber(raw map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}
