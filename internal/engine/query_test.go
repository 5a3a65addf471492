package engine

import (
	"errors"
	"testing"

	"airquality/internal/models"
)

func testStore() *Store {
	return NewStore(nil,
		&models.Dataset{Pollutant: "no2", Year: "2018", Points: []models.DataPoint{
			{X: 520000, Y: 180000, GridCode: 1, Value: 10},
			{X: 420000, Y: 430000, GridCode: 2, Value: 20},
			{X: 1, Y: 1, GridCode: 3, Value: 99},
		}},
		&models.Dataset{Pollutant: "no2", Year: "2020", Points: []models.DataPoint{
			{X: 520000, Y: 180000, GridCode: 1, Value: 14},
			{X: 450000, Y: 205000, GridCode: 4, Value: 6},
		}},
		&models.Dataset{Pollutant: "pm10", Year: "2020", Points: []models.DataPoint{
			{X: 520000, Y: 180000, GridCode: 1, Value: 30},
		}},
	)
}

func TestPointsRegionSubset(t *testing.T) {
	s := testStore()
	for _, y := range s.Years() {
		for _, pol := range models.Pollutants {
			all := map[models.DataPoint]bool{}
			for _, p := range s.Points(y, pol, LocationAll) {
				all[p] = true
			}
			for _, region := range DefaultCatalog.Regions() {
				for _, p := range s.Points(y, pol, region.Name) {
					if !all[p] {
						t.Errorf("%s/%s: %s point %+v not in all", y, pol, region.Name, p)
					}
				}
			}
		}
	}
}

func TestPointsMissingBucket(t *testing.T) {
	s := testStore()
	pts := s.Points("2023", "no2", "london")
	if pts == nil || len(pts) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", pts)
	}
	if got := s.Points("2018", "no2", "oxford"); len(got) != 0 {
		t.Errorf("expected no oxford points in 2018, got %+v", got)
	}
}

func TestPointsByPollutantAndGridCode(t *testing.T) {
	s := testStore()
	if n := len(s.PointsByPollutant("NO2")); n != 4 {
		t.Errorf("expected 4 no2 points across years, got %d", n)
	}
	series := s.PointsByGridCode(1, "no2")
	if len(series) != 2 || series[0].Value != 10 || series[1].Value != 14 {
		t.Errorf("unexpected gridcode 1 series: %+v", series)
	}

	avg, err := s.LocationAverage(1, "no2")
	if err != nil || avg != 12 {
		t.Errorf("expected average 12, got %v (%v)", avg, err)
	}
	if _, err := s.LocationAverage(42, "no2"); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData for unknown gridcode, got %v", err)
	}
}

func TestTimeSeries(t *testing.T) {
	s := testStore()
	ts := s.TimeSeries(1, "no2")
	if len(ts) != 2 || ts[0].Year != "2018" || ts[1].Year != "2020" || ts[1].Value != 14 {
		t.Errorf("unexpected series: %+v", ts)
	}
}

func TestFind(t *testing.T) {
	s := testStore()
	if p, ok := s.FindByGridCode("2018", "no2", "leeds", 2); !ok || p.Value != 20 {
		t.Errorf("expected gridcode 2 in leeds, got %+v %v", p, ok)
	}
	if _, ok := s.FindByGridCode("2018", "no2", "london", 2); ok {
		t.Error("gridcode 2 is not in london")
	}
	if p, ok := s.FindByCoordinates("2020", "no2", "all", 450000, 205000); !ok || p.GridCode != 4 {
		t.Errorf("expected gridcode 4 at coordinates, got %+v %v", p, ok)
	}
	if _, ok := s.FindByCoordinates("2020", "no2", "all", 1, 1); ok {
		t.Error("outside point should have been dropped")
	}
}
