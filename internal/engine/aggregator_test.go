package engine

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"airquality/internal/models"
)

func values(vs ...float64) []models.DataPoint {
	pts := make([]models.DataPoint, len(vs))
	for i, v := range vs {
		pts[i] = models.DataPoint{GridCode: i + 1, Value: v}
	}
	return pts
}

func TestAverage(t *testing.T) {
	avg, err := Average(values(10, 20))
	if err != nil {
		t.Fatal(err)
	}
	if avg != 15.0 {
		t.Errorf("expected 15.0, got %f", avg)
	}

	if _, err := Average(nil); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData for empty set, got %v", err)
	}
}

func TestAverageDoesNotAllocate(t *testing.T) {
	pts := values(1, 2, 3, 4, 5, 6, 7, 8)
	Average(pts)
	allocs := testing.AllocsPerRun(100, func() {
		if avg, _ := Average(pts); avg != 4.5 {
			t.Fatalf("expected 4.5, got %f", avg)
		}
	})
	if allocs != 0 {
		t.Errorf("Average allocated %v times per call", allocs)
	}
}

func TestHighest(t *testing.T) {
	p, ok := Highest(values(3, 9.5, 9.5, 1))
	if !ok {
		t.Fatal("expected a highest point")
	}
	if p.Value != 9.5 || p.GridCode != 2 {
		t.Errorf("expected first 9.5 (gridcode 2), got %+v", p)
	}

	// Readings at or below zero never beat the zero baseline.
	if _, ok := Highest(values(-5, -1)); ok {
		t.Error("expected not found for all-negative values")
	}
	if _, ok := Highest(values(0, 0)); ok {
		t.Error("expected not found for all-zero values")
	}
	if _, ok := Highest(nil); ok {
		t.Error("expected not found for empty set")
	}
}

func TestTopK(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	vs := make([]float64, 1000)
	for i := range vs {
		vs[i] = r.Float64() * 50
	}
	pts := values(vs...)

	top := TopK(pts, DefaultTopK)
	if len(top) != DefaultTopK {
		t.Fatalf("expected %d points, got %d", DefaultTopK, len(top))
	}

	sorted := append([]float64(nil), vs...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	cutoff := sorted[DefaultTopK-1]

	minTop := top[0].Value
	for _, p := range top {
		if p.Value < minTop {
			minTop = p.Value
		}
	}
	if minTop != cutoff {
		t.Errorf("smallest kept value %f, expected cutoff %f", minTop, cutoff)
	}
	for _, v := range sorted[DefaultTopK:] {
		if v > minTop {
			t.Fatalf("excluded value %f is above kept value %f", v, minTop)
		}
	}
}

func TestTopKSmallInput(t *testing.T) {
	top := TopK(values(1, 2, 3), 100)
	if len(top) != 3 {
		t.Errorf("expected all 3 points, got %d", len(top))
	}
	if got := TopK(values(1, 2, 3), 0); len(got) != 0 {
		t.Errorf("expected empty result for k=0, got %d", len(got))
	}
	if got := TopK(nil, 5); len(got) != 0 {
		t.Errorf("expected empty result for empty input, got %d", len(got))
	}
}

func TestTopKRepeatable(t *testing.T) {
	pts := values(5, 5, 5, 1, 9, 9, 2, 5, 7, 7)
	sum := func(ps []models.DataPoint) float64 {
		var s float64
		for _, p := range ps {
			s += p.Value
		}
		return s
	}
	a, b := TopK(pts, 4), TopK(pts, 4)
	if len(a) != len(b) || sum(a) != sum(b) {
		t.Errorf("repeated TopK differs: %v vs %v", a, b)
	}
	if sum(a) != 32 {
		t.Errorf("expected top-4 sum 32 (9+9+7+7), got %f", sum(a))
	}
}

func TestSummaryAndCompare(t *testing.T) {
	s := NewStore(nil,
		&models.Dataset{Pollutant: "NO2", Year: "2019", Points: []models.DataPoint{
			{X: 520000, Y: 180000, GridCode: 1, Value: 10},
			{X: 521000, Y: 181000, GridCode: 2, Value: 30},
		}},
		&models.Dataset{Pollutant: "no2", Year: "2020", Points: []models.DataPoint{
			{X: 520000, Y: 180000, GridCode: 1, Value: 12},
		}},
	)

	sum := s.Summary("2019", "london")
	if len(sum) != len(models.Pollutants) {
		t.Fatalf("expected a row per pollutant, got %d", len(sum))
	}
	no2 := sum[0]
	if no2.Pollutant != "no2" || no2.Average == nil || *no2.Average != 20 {
		t.Errorf("unexpected no2 summary: %+v", no2)
	}
	if no2.Highest == nil || no2.Highest.GridCode != 2 {
		t.Errorf("expected gridcode 2 as highest, got %+v", no2.Highest)
	}
	if sum[1].Average != nil || sum[1].Highest != nil {
		t.Errorf("pm10 has no data, expected nil fields: %+v", sum[1])
	}

	cmp := s.Compare("2019", "2020", "london")
	if cmp[0].AverageDifference == nil || *cmp[0].AverageDifference != 8 {
		t.Errorf("expected average difference 8, got %+v", cmp[0].AverageDifference)
	}
	if cmp[0].HighestDifference == nil || *cmp[0].HighestDifference != 18 {
		t.Errorf("expected highest difference 18, got %+v", cmp[0].HighestDifference)
	}
	if cmp[2].AverageDifference != nil {
		t.Error("pm2.5 has no data, expected nil difference")
	}
}
