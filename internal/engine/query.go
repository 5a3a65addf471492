package engine

import (
	"airquality/internal/models"
)

// Points returns the points of the (year, pollutant) bucket that lie in
// location, in bucket order. A missing bucket gives an empty slice.
func (s *Store) Points(year, pollutant, location string) []models.DataPoint {
	bucket := s.buckets[bucketKey{Year: year, Pollutant: models.CanonicalPollutant(pollutant)}]
	out := make([]models.DataPoint, 0, len(bucket))
	for _, p := range bucket {
		if s.catalog.InLocation(p, location) {
			out = append(out, p)
		}
	}
	return out
}

// PointsByPollutant returns every point of a pollutant across all years and
// regions, ordered by year.
func (s *Store) PointsByPollutant(pollutant string) []models.DataPoint {
	pol := models.CanonicalPollutant(pollutant)
	var out []models.DataPoint
	for _, y := range s.years {
		out = append(out, s.buckets[bucketKey{Year: y, Pollutant: pol}]...)
	}
	if out == nil {
		out = []models.DataPoint{}
	}
	return out
}

// PointsByGridCode returns one grid cell's readings of a pollutant across
// all years, ordered by year.
func (s *Store) PointsByGridCode(gridCode int, pollutant string) []models.DataPoint {
	out := []models.DataPoint{}
	for _, p := range s.PointsByPollutant(pollutant) {
		if p.GridCode == gridCode {
			out = append(out, p)
		}
	}
	return out
}

// LocationAverage is the mean reading of one grid cell over every year.
func (s *Store) LocationAverage(gridCode int, pollutant string) (float64, error) {
	return Average(s.PointsByGridCode(gridCode, pollutant))
}

// TimeSeries lists a grid cell's reading per year, ascending. If a year holds
// more than one reading for the cell, the last one in the bucket wins.
func (s *Store) TimeSeries(gridCode int, pollutant string) []models.SeriesPoint {
	pol := models.CanonicalPollutant(pollutant)
	out := []models.SeriesPoint{}
	for _, y := range s.years {
		var v float64
		found := false
		for _, p := range s.buckets[bucketKey{Year: y, Pollutant: pol}] {
			if p.GridCode == gridCode {
				v, found = p.Value, true
			}
		}
		if found {
			out = append(out, models.SeriesPoint{Year: y, Value: v})
		}
	}
	return out
}

// FindByGridCode returns the first point in the filtered set with gridCode.
func (s *Store) FindByGridCode(year, pollutant, location string, gridCode int) (models.DataPoint, bool) {
	for _, p := range s.Points(year, pollutant, location) {
		if p.GridCode == gridCode {
			return p, true
		}
	}
	return models.DataPoint{}, false
}

// FindByCoordinates returns the first point in the filtered set at exactly (x, y).
func (s *Store) FindByCoordinates(year, pollutant, location string, x, y int) (models.DataPoint, bool) {
	for _, p := range s.Points(year, pollutant, location) {
		if p.X == x && p.Y == y {
			return p, true
		}
	}
	return models.DataPoint{}, false
}
