package scoring

import (
	"math"
	"testing"

	"menumerge/internal/entity"
	"menumerge/internal/testsupport"
)

func TestScoreSameVenueDifferentProviders(t *testing.T) {
	s := New(DefaultPolicy())
	a := testsupport.Restaurant("osm", "1", "The Corner Bistro",
		testsupport.At(testsupport.Downtown.Lat, testsupport.Downtown.Lon),
		testsupport.WithPhone("(312) 555-0100"))
	b := testsupport.Restaurant("yelp", "y1", "Corner Bistro Restaurant",
		testsupport.NorthOf(testsupport.Downtown, 40),
		testsupport.WithPhone("+1 312-555-0100"))

	result, viable := s.Score(a, b)
	if !viable {
		t.Fatalf("expected viable match, got %+v", result)
	}
	if result.Confidence < 0.9 {
		t.Fatalf("confidence = %v, want >= 0.9", result.Confidence)
	}
	if result.NameSimilarity != 1 {
		t.Fatalf("name similarity = %v, want 1", result.NameSimilarity)
	}
	if !result.PhoneMatch {
		t.Fatal("expected phone match")
	}
	if result.GeoDistanceM == nil || math.Abs(*result.GeoDistanceM-40) > 0.5 {
		t.Fatalf("unexpected geo distance: %v", result.GeoDistanceM)
	}
	if math.Abs(result.GeoScore-0.6) > 0.01 {
		t.Fatalf("geo score = %v, want ~0.6", result.GeoScore)
	}
	if result.EntityA != a.Key() || result.EntityB != b.Key() {
		t.Fatalf("unexpected keys: %v %v", result.EntityA, result.EntityB)
	}
}

func TestScoreGeoGateIsHard(t *testing.T) {
	s := New(DefaultPolicy())
	a := testsupport.Restaurant("osm", "1", "The Corner Bistro",
		testsupport.At(testsupport.Downtown.Lat, testsupport.Downtown.Lon),
		testsupport.WithPhone("312-555-0100"))
	b := testsupport.Restaurant("yelp", "y1", "Corner Bistro Restaurant",
		testsupport.NorthOf(testsupport.Downtown, 500),
		testsupport.WithPhone("312-555-0100"))

	result, viable := s.Score(a, b)
	if viable {
		t.Fatal("pair beyond the distance gate must not be viable")
	}
	if result.Confidence != 0 {
		t.Fatalf("gated confidence = %v, want 0", result.Confidence)
	}
	if result.GeoDistanceM == nil || *result.GeoDistanceM < 499 {
		t.Fatalf("expected the gated distance to be reported, got %v", result.GeoDistanceM)
	}
}

func TestScoreMissingSignalsRelyOnName(t *testing.T) {
	s := New(DefaultPolicy())
	// 20-rune normalized names one edit apart: similarity 0.95.
	a := testsupport.Restaurant("osm", "1", "Portillos Hot Dogs X")
	b := testsupport.Restaurant("yelp", "y1", "Portillos Hot Dogs Y",
		testsupport.At(testsupport.Downtown.Lat, testsupport.Downtown.Lon))

	result, viable := s.Score(a, b)
	if math.Abs(result.NameSimilarity-0.95) > 1e-9 {
		t.Fatalf("name similarity = %v, want 0.95", result.NameSimilarity)
	}
	if math.Abs(result.Confidence-0.38) > 1e-9 {
		t.Fatalf("confidence = %v, want 0.38", result.Confidence)
	}
	if viable {
		t.Fatal("expected confidence below the minimum to be non-viable")
	}
	if result.GeoDistanceM != nil || result.GeoScore != 0 {
		t.Fatalf("expected no geo signal, got %v %v", result.GeoDistanceM, result.GeoScore)
	}
}

func TestScoreDegradedSignals(t *testing.T) {
	s := New(DefaultPolicy())
	tests := []struct {
		name string
		a, b entity.SourceEntity
		want float64
	}{
		{
			name: "empty names",
			a:    testsupport.Restaurant("osm", "1", "  "),
			b:    testsupport.Restaurant("yelp", "2", ""),
			want: 0,
		},
		{
			name: "unparseable phones",
			a:    testsupport.Restaurant("osm", "1", "", testsupport.WithPhone("n/a")),
			b:    testsupport.Restaurant("yelp", "2", "", testsupport.WithPhone("none")),
			want: 0,
		},
		{
			name: "invalid coordinates ignored",
			a:    testsupport.Restaurant("osm", "1", "", testsupport.At(95, 0), testsupport.WithPhone("3125550100")),
			b:    testsupport.Restaurant("yelp", "2", "", testsupport.At(0, 0), testsupport.WithPhone("3125550100")),
			want: 0.4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := s.Score(tt.a, tt.b)
			if math.Abs(result.Confidence-tt.want) > 1e-9 {
				t.Fatalf("confidence = %v, want %v", result.Confidence, tt.want)
			}
		})
	}
}

func TestScoreConfidenceClamped(t *testing.T) {
	s := New(Policy{NameWeight: 1, PhoneWeight: 1, GeoWeight: 1, GeoDistanceThresholdM: 100, MinMatchConfidence: 0.5})
	a := testsupport.Restaurant("osm", "1", "Alinea", testsupport.At(41.9, -87.6), testsupport.WithPhone("3125550100"))
	b := testsupport.Restaurant("yelp", "2", "Alinea", testsupport.At(41.9, -87.6), testsupport.WithPhone("3125550100"))
	result, viable := s.Score(a, b)
	if result.Confidence != 1 || !viable {
		t.Fatalf("confidence = %v viable=%v, want clamped 1", result.Confidence, viable)
	}
}

func TestPolicyNormalizedFallsBack(t *testing.T) {
	p := Policy{NameWeight: -1, GeoDistanceThresholdM: 0, MinMatchConfidence: 2}.normalized()
	if p != DefaultPolicy() {
		t.Fatalf("normalized = %+v, want defaults", p)
	}
	custom := Policy{NameWeight: 1, GeoDistanceThresholdM: 50, MinMatchConfidence: 0.7}.normalized()
	if custom.NameWeight != 1 || custom.PhoneWeight != 0 || custom.GeoDistanceThresholdM != 50 {
		t.Fatalf("custom policy altered: %+v", custom)
	}
}

func TestScoreAllMatchesSequentialForAnyWorkerCount(t *testing.T) {
	s := New(DefaultPolicy())
	var setA, setB []entity.SourceEntity
	names := []string{"Alinea", "Girl and the Goat", "Au Cheval", "Lou Malnatis", "Portillos", "Smoque BBQ", "Avec", "Publican"}
	for i, name := range names {
		setA = append(setA, testsupport.Restaurant("osm", string(rune('a'+i)), name,
			testsupport.NorthOf(testsupport.Downtown, float64(i*30))))
		setB = append(setB, testsupport.Restaurant("yelp", string(rune('A'+i)), name+" Restaurant",
			testsupport.NorthOf(testsupport.Downtown, float64(i*30+10))))
	}

	want := s.ScoreAll(setA, setB, 1)
	for _, workers := range []int{0, 2, 3, 16} {
		got := s.ScoreAll(setA, setB, workers)
		if len(got) != len(want) {
			t.Fatalf("workers=%d: rows = %d, want %d", workers, len(got), len(want))
		}
		for i := range want {
			for j := range want[i] {
				g, w := got[i][j], want[i][j]
				if g.Viable != w.Viable || g.Gated != w.Gated || g.Result.Confidence != w.Result.Confidence {
					t.Fatalf("workers=%d: cell (%d,%d) differs: %+v vs %+v", workers, i, j, g, w)
				}
				if g.Result.Confidence < 0 || g.Result.Confidence > 1 {
					t.Fatalf("confidence out of range: %v", g.Result.Confidence)
				}
			}
		}
	}
}

func TestScoreAllEmpty(t *testing.T) {
	s := New(DefaultPolicy())
	if rows := s.ScoreAll(nil, nil, 4); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
	a := []entity.SourceEntity{testsupport.Restaurant("osm", "1", "Avec")}
	rows := s.ScoreAll(a, nil, 1)
	if len(rows) != 1 || len(rows[0]) != 0 {
		t.Fatalf("expected one empty row, got %v", rows)
	}
}
