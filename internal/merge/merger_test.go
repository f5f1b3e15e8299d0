package merge

import (
	"reflect"
	"testing"

	"menumerge/internal/entity"
	"menumerge/internal/matching"
	"menumerge/internal/testsupport"
)

func osmBistro() entity.SourceEntity {
	return testsupport.Restaurant("osm", "node-1", "The Corner Bistro",
		testsupport.At(41.8781, -87.6298),
		testsupport.WithPhone("312-555-0100"),
		testsupport.WithAttr("cuisine", "french"),
		testsupport.WithAttr("wheelchair", "yes"),
		testsupport.WithAttr("website", ""),
	)
}

func yelpBistro() entity.SourceEntity {
	return testsupport.Restaurant("yelp", "cb-1", "Corner Bistro Restaurant",
		testsupport.At(41.8784, -87.6298),
		testsupport.WithPhone("(312) 555-0100"),
		testsupport.WithAddress("12 W Lake St"),
		testsupport.WithAttr("rating", 4.5),
		testsupport.WithAttr("url", "https://example.com/cb"),
	)
}

func TestMergeAppliesPrecedence(t *testing.T) {
	m := New(DefaultRules())
	a, b := osmBistro(), yelpBistro()
	match := entity.MatchResult{EntityA: a.Key(), EntityB: b.Key(), Confidence: 0.92}

	rec := m.Merge(match, a, b)

	if rec.ID != "merged_node-1_cb-1" {
		t.Fatalf("ID = %q", rec.ID)
	}
	if !reflect.DeepEqual(rec.DataSources, []string{"osm", "yelp"}) {
		t.Fatalf("DataSources = %v", rec.DataSources)
	}
	if rec.SourceIDs["osm"] != "node-1" || rec.SourceIDs["yelp"] != "cb-1" {
		t.Fatalf("SourceIDs = %v", rec.SourceIDs)
	}
	if rec.MatchConfidence != 0.92 {
		t.Fatalf("MatchConfidence = %v", rec.MatchConfidence)
	}

	tests := []struct {
		field  string
		source string
	}{
		{"name", "yelp"},        // default precedence prefers b
		{"phone", "yelp"},       // default precedence prefers b
		{"coordinates", "osm"},  // explicit rule prefers a
		{"address", "yelp"},     // only b has it
		{"cuisine", "osm"},      // only a has it
		{"url", "yelp"},         // attribute from b
		{"wheelchair", "osm"},   // attribute from a
	}
	for _, tt := range tests {
		fv, ok := rec.Fields[tt.field]
		if !ok {
			t.Fatalf("field %q missing", tt.field)
		}
		if fv.Source != tt.source {
			t.Fatalf("field %q source = %q, want %q", tt.field, fv.Source, tt.source)
		}
	}
	if rec.Name() != "Corner Bistro Restaurant" {
		t.Fatalf("Name() = %q", rec.Name())
	}
	if _, ok := rec.Fields["website"]; ok {
		t.Fatal("blank website must not be merged")
	}
	coords, ok := rec.Value("coordinates").(entity.Coordinates)
	if !ok || coords.Lat != 41.8781 {
		t.Fatalf("coordinates = %#v", rec.Value("coordinates"))
	}

	// name, coordinates, address, phone, website|url, rating, categories|cuisine, wheelchair.
	if rec.QualityScore != 0.8 {
		t.Fatalf("QualityScore = %v, want 0.8", rec.QualityScore)
	}
}

func TestMergeFallsBackWhenPreferredIsEmpty(t *testing.T) {
	m := New(DefaultRules())
	a := testsupport.Restaurant("osm", "1", "Avec", testsupport.WithPhone("3125550100"))
	b := testsupport.Restaurant("yelp", "2", "", testsupport.WithPhone("n/a"))

	rec := m.Merge(entity.MatchResult{Confidence: 0.6}, a, b)
	if fv := rec.Fields["name"]; fv.Value != "Avec" || fv.Source != "osm" {
		t.Fatalf("name = %+v, want fallback to osm", fv)
	}
	// "n/a" is a populated string; phone precedence keeps b's raw value.
	if fv := rec.Fields["phone"]; fv.Source != "yelp" {
		t.Fatalf("phone = %+v", fv)
	}
}

func TestMergeOriginTagSelectors(t *testing.T) {
	rules := DefaultRules()
	rules.FieldPrecedence["name"] = []string{"osm"}
	m := New(rules)

	a := testsupport.Restaurant("yelp", "y", "Yelp Name")
	b := testsupport.Restaurant("osm", "o", "OSM Name")
	rec := m.Merge(entity.MatchResult{}, a, b)
	if rec.Name() != "OSM Name" {
		t.Fatalf("Name() = %q, want origin selector to pick osm", rec.Name())
	}

	rules.FieldPrecedence["name"] = []string{"google"}
	rec = New(rules).Merge(entity.MatchResult{}, a, b)
	if rec.Name() != "Yelp Name" {
		t.Fatalf("Name() = %q, want pair-order fallback", rec.Name())
	}
}

func TestMergeSameOriginKeepsBothSourceIDs(t *testing.T) {
	m := New(DefaultRules())
	a := testsupport.Restaurant("osm", "1", "Avec")
	b := testsupport.Restaurant("osm", "2", "Avec")
	rec := m.Merge(entity.MatchResult{}, a, b)
	if len(rec.DataSources) != 1 {
		t.Fatalf("DataSources = %v", rec.DataSources)
	}
	if rec.SourceIDs["osm"] != "1" || rec.SourceIDs["osm:b"] != "2" {
		t.Fatalf("SourceIDs = %v", rec.SourceIDs)
	}
}

func TestMergeSingleton(t *testing.T) {
	m := New(DefaultRules())
	rec := m.MergeSingleton(osmBistro())
	if rec.ID != "osm_only_node-1" {
		t.Fatalf("ID = %q", rec.ID)
	}
	if !reflect.DeepEqual(rec.DataSources, []string{"osm"}) {
		t.Fatalf("DataSources = %v", rec.DataSources)
	}
	for name, fv := range rec.Fields {
		if fv.Source != "osm" {
			t.Fatalf("field %q source = %q", name, fv.Source)
		}
	}
	// name, coordinates, phone, cuisine, wheelchair.
	if rec.QualityScore != 0.5 {
		t.Fatalf("QualityScore = %v, want 0.5", rec.QualityScore)
	}
	if rec.MatchConfidence != 0 {
		t.Fatalf("MatchConfidence = %v", rec.MatchConfidence)
	}
}

func TestQualityRoundsAndBounds(t *testing.T) {
	tests := []struct {
		name      string
		checklist []string
		precision int
		fields    map[string]entity.FieldValue
		want      float64
	}{
		{"empty checklist", nil, 2, nil, 0},
		{"one of three", []string{"name", "phone", "address"}, 2, map[string]entity.FieldValue{"name": {Value: "x"}}, 0.33},
		{"two of three one place", []string{"name", "phone", "address"}, 1, map[string]entity.FieldValue{"name": {Value: "x"}, "phone": {Value: "1"}}, 0.7},
		{"alternatives", []string{"website|url"}, 2, map[string]entity.FieldValue{"url": {Value: "u"}}, 1},
		{"unpopulated value", []string{"rating"}, 2, map[string]entity.FieldValue{"rating": {Value: ""}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(Rules{Checklist: tt.checklist, Precision: tt.precision})
			got := m.Quality(tt.fields)
			if got != tt.want {
				t.Fatalf("Quality = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Fatalf("quality out of range: %v", got)
			}
		})
	}
}

func TestMergeAllAndSummarize(t *testing.T) {
	a, b := osmBistro(), yelpBistro()
	loneA := testsupport.Restaurant("osm", "node-2", "Avec")
	loneB := testsupport.Restaurant("yelp", "pub-1", "The Publican")
	loneB2 := testsupport.Restaurant("yelp", "ac-1", "Au Cheval")

	res := matching.Result{
		Matches:    []entity.MatchResult{{EntityA: a.Key(), EntityB: b.Key(), Confidence: 0.92}},
		UnmatchedA: []entity.SourceEntity{loneA},
		UnmatchedB: []entity.SourceEntity{loneB, loneB2},
	}
	records := New(DefaultRules()).MergeAll(res,
		[]entity.SourceEntity{a, loneA},
		[]entity.SourceEntity{b, loneB, loneB2})

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	want := []string{"merged_node-1_cb-1", "osm_only_node-2", "yelp_only_pub-1", "yelp_only_ac-1"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("record IDs = %v, want %v", ids, want)
	}

	stats := Summarize(res, records)
	if stats.TotalRecords != 4 || stats.Matches != 1 || stats.UnmatchedA != 1 || stats.UnmatchedB != 2 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.MatchRate != 50 {
		t.Fatalf("MatchRate = %v, want 50", stats.MatchRate)
	}
	if stats.AverageConfidence != 0.92 {
		t.Fatalf("AverageConfidence = %v", stats.AverageConfidence)
	}
	if stats.SourceCounts["osm"] != 2 || stats.SourceCounts["yelp"] != 3 {
		t.Fatalf("SourceCounts = %v", stats.SourceCounts)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(matching.Result{}, nil)
	if stats.MatchRate != 0 || stats.AverageConfidence != 0 || stats.AverageQuality != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}
