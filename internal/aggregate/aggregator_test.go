package aggregate

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"menumerge/internal/entity"
	"menumerge/internal/testsupport"
	"menumerge/internal/textutil"
)

func TestAggregateUnionsSourcesAcrossGroup(t *testing.T) {
	css := testsupport.Candidate("Caesar Salad", 0.6, "css")
	css.Price = "$9"
	text := testsupport.Candidate("caesar salad!!", 0.8, "text")

	out, err := Default().Aggregate([]entity.ExtractionCandidate{css, text}, 100)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one item, got %+v", out)
	}
	got := out[0]
	if got.RawName != "caesar salad!!" || got.Confidence != 0.8 {
		t.Fatalf("expected the higher-confidence candidate to win, got %+v", got)
	}
	if !reflect.DeepEqual(got.OriginTags, []string{"css", "text"}) {
		t.Fatalf("OriginTags = %v, want [css text]", got.OriginTags)
	}
	if got.Price != "$9" {
		t.Fatalf("Price = %q, want filled from the group", got.Price)
	}
}

func TestAggregateTieBreaks(t *testing.T) {
	tests := []struct {
		name       string
		candidates []entity.ExtractionCandidate
		wantSource []string
		wantName   string
	}{
		{
			name: "more sources wins equal confidence",
			candidates: []entity.ExtractionCandidate{
				testsupport.Candidate("Burger", 0.7, "css"),
				testsupport.Candidate("BURGER", 0.7, "text", "pattern"),
			},
			wantName:   "BURGER",
			wantSource: []string{"css", "pattern", "text"},
		},
		{
			name: "first seen wins full tie",
			candidates: []entity.ExtractionCandidate{
				testsupport.Candidate("Burger", 0.7, "css"),
				testsupport.Candidate("burger.", 0.7, "text"),
			},
			wantName:   "Burger",
			wantSource: []string{"css", "text"},
		},
		{
			name: "duplicate tags count once",
			candidates: []entity.ExtractionCandidate{
				testsupport.Candidate("Burger", 0.7, "css", "css"),
				testsupport.Candidate("burger", 0.7, "text"),
			},
			wantName:   "Burger",
			wantSource: []string{"css", "text"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Default().Aggregate(tt.candidates, 0)
			if err != nil {
				t.Fatalf("Aggregate returned error: %v", err)
			}
			if len(out) != 1 {
				t.Fatalf("expected one item, got %+v", out)
			}
			if out[0].RawName != tt.wantName {
				t.Fatalf("winner = %q, want %q", out[0].RawName, tt.wantName)
			}
			if !reflect.DeepEqual(out[0].OriginTags, tt.wantSource) {
				t.Fatalf("OriginTags = %v, want %v", out[0].OriginTags, tt.wantSource)
			}
		})
	}
}

func TestAggregateSortsAndCaps(t *testing.T) {
	candidates := []entity.ExtractionCandidate{
		testsupport.Candidate("Soup of the Day", 0.5, "text"),
		testsupport.Candidate("Ribeye", 0.9, "css"),
		testsupport.Candidate("Fries", 0.7, "css"),
		testsupport.Candidate("Milkshake", 0.7, "pattern"),
	}

	out, err := Default().Aggregate(candidates, 0)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	var names []string
	for _, c := range out {
		names = append(names, c.RawName)
	}
	want := []string{"Ribeye", "Fries", "Milkshake", "Soup of the Day"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("order = %v, want %v", names, want)
	}

	capped, err := Default().Aggregate(candidates, 2)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if len(capped) != 2 || capped[0].RawName != "Ribeye" || capped[1].RawName != "Fries" {
		t.Fatalf("capped = %+v", capped)
	}
}

func TestAggregateSkipsShortKeys(t *testing.T) {
	candidates := []entity.ExtractionCandidate{
		testsupport.Candidate("$", 0.9, "pattern"),
		testsupport.Candidate("A", 0.9, "pattern"),
		testsupport.Candidate("  ", 0.9, "pattern"),
		testsupport.Candidate("Pho", 0.4, "text"),
	}
	out, err := Default().Aggregate(candidates, 10)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if len(out) != 1 || out[0].RawName != "Pho" {
		t.Fatalf("expected only Pho, got %+v", out)
	}

	keepAll := New(Options{})
	out, err = keepAll.Aggregate(candidates, 10)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected single-rune key kept without a floor, got %+v", out)
	}
}

func TestAggregateEmptyAndInvalid(t *testing.T) {
	out, err := Default().Aggregate(nil, 100)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil output, got %#v", out)
	}

	bad := []entity.ExtractionCandidate{testsupport.Candidate("Soup", math.NaN(), "css")}
	if _, err := Default().Aggregate(bad, 100); !errors.Is(err, entity.ErrInvalidConfidence) {
		t.Fatalf("expected ErrInvalidConfidence, got %v", err)
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	candidates := []entity.ExtractionCandidate{
		testsupport.Candidate("Tacos", 0.9, "css"),
		testsupport.Candidate("tacos", 0.5, "text"),
	}
	if _, err := Default().Aggregate(candidates, 0); err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if !reflect.DeepEqual(candidates[0].OriginTags, []string{"css"}) {
		t.Fatalf("input mutated: %v", candidates[0].OriginTags)
	}
}

func TestGroupsShareNormalizedKey(t *testing.T) {
	candidates := []entity.ExtractionCandidate{
		testsupport.Candidate("Crème Brûlée", 0.6, "css"),
		testsupport.Candidate("Ribeye", 0.8, "css"),
		testsupport.Candidate("creme brulee", 0.7, "text"),
		testsupport.Candidate("The Ribeye!", 0.5, "pattern"),
	}
	groups, err := Default().Groups(candidates)
	if err != nil {
		t.Fatalf("Groups returned error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %+v", groups)
	}
	for _, g := range groups {
		for _, m := range g.Members {
			if key := textutil.NormalizeName(m.RawName); key != g.Key {
				t.Fatalf("member %q has key %q, grouped under %q", m.RawName, key, g.Key)
			}
		}
	}
	if groups[0].Key != "creme brulee" || len(groups[0].Members) != 2 {
		t.Fatalf("unexpected first group: %+v", groups[0])
	}
}

func TestAggregateDeterministic(t *testing.T) {
	candidates := []entity.ExtractionCandidate{
		testsupport.Candidate("Burger", 0.7, "css"),
		testsupport.Candidate("Fries", 0.7, "text"),
		testsupport.Candidate("burger", 0.7, "pattern"),
		testsupport.Candidate("Shake", 0.3, "css"),
	}
	first, err := Default().Aggregate(candidates, 0)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	for n := 0; n < 5; n++ {
		again, err := Default().Aggregate(candidates, 0)
		if err != nil {
			t.Fatalf("Aggregate returned error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatal("Aggregate is not deterministic")
		}
	}
}
