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

var errNoCandidateList = errors.New(`expected a "candidates" or "menu_items" list`)

type candidateFile struct {
	Candidates []candidateRecord `json:"candidates"`
	MenuItems  []candidateRecord `json:"menu_items"`
}

type candidateRecord struct {
	Name        *string  `json:"name"`
	Price       any      `json:"price"`
	Description string   `json:"description"`
	Confidence  *float64 `json:"confidence"`
	Source      string   `json:"source"`
	Sources     []string `json:"sources"`
	Category    string   `json:"category"`
}

// LoadCandidates reads extraction candidates for one page.
func LoadCandidates(path string) ([]entity.ExtractionCandidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	defer f.Close()

	candidates, err := DecodeCandidates(f)
	if err != nil {
		var verr *entity.ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, &InputError{Path: path, Err: err}
	}
	return candidates, nil
}

// DecodeCandidates parses a candidate file from r. Confidence ranges are
// checked by the aggregator, not here.
func DecodeCandidates(r io.Reader) ([]entity.ExtractionCandidate, error) {
	var file candidateFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	records := file.Candidates
	if records == nil {
		records = file.MenuItems
	}
	if records == nil {
		return nil, errNoCandidateList
	}

	out := make([]entity.ExtractionCandidate, 0, len(records))
	for i, rec := range records {
		if rec.Name == nil {
			return nil, &entity.ValidationError{Set: "candidates", Index: i, Field: "name", Err: entity.ErrMissingField}
		}
		if rec.Confidence == nil {
			return nil, &entity.ValidationError{Set: "candidates", Index: i, Field: "confidence", Err: entity.ErrMissingField}
		}
		out = append(out, entity.ExtractionCandidate{
			RawName:     *rec.Name,
			Price:       priceString(rec.Price),
			Description: rec.Description,
			Confidence:  *rec.Confidence,
			OriginTags:  originTags(rec),
			Category:    rec.Category,
		})
	}
	return out, nil
}

func originTags(rec candidateRecord) []string {
	tags := make([]string, 0, len(rec.Sources)+1)
	if s := strings.TrimSpace(rec.Source); s != "" {
		tags = append(tags, s)
	}
	for _, s := range rec.Sources {
		if s = strings.TrimSpace(s); s != "" {
			tags = append(tags, s)
		}
	}
	return tags
}

func priceString(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
