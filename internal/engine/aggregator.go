package engine

import (
	"container/heap"
	"math"
	"sync"

	"airquality/internal/models"

	"gonum.org/v1/gonum/floats"
)

// DefaultTopK is the size of the "most polluted" marker set.
const DefaultTopK = 100

// sumBufs recycles the value buffers handed to floats.Sum.
var sumBufs = sync.Pool{New: func() any { return new([]float64) }}

// Average is the mean value of points, or ErrNoData when there are none.
func Average(points []models.DataPoint) (float64, error) {
	if len(points) == 0 {
		return 0, ErrNoData
	}
	bp := sumBufs.Get().(*[]float64)
	vals := (*bp)[:0]
	for _, p := range points {
		vals = append(vals, p.Value)
	}
	sum := floats.Sum(vals)
	*bp = vals[:0]
	sumBufs.Put(bp)
	return sum / float64(len(points)), nil
}

// Highest returns the point with the greatest value. The scan starts from a
// baseline of 0, so a set whose values are all <= 0 has no highest point.
// Ties keep the first point seen.
func Highest(points []models.DataPoint) (models.DataPoint, bool) {
	var best models.DataPoint
	level := 0.0
	found := false
	for _, p := range points {
		if p.Value > level {
			best, level, found = p, p.Value, true
		}
	}
	return best, found
}

// --- bounded top-K ---

type minHeap []models.DataPoint

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return h[i].Value < h[j].Value }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)        { *h = append(*h, x.(models.DataPoint)) }
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopK returns the k points with the greatest values, in no particular
// order, without sorting the input. Ties at the cut-off are broken by heap
// order. k <= 0 yields an empty result.
func TopK(points []models.DataPoint, k int) []models.DataPoint {
	if k <= 0 {
		return []models.DataPoint{}
	}
	h := make(minHeap, 0, min(k, len(points))+1)
	for _, p := range points {
		heap.Push(&h, p)
		if h.Len() > k {
			heap.Pop(&h)
		}
	}
	return []models.DataPoint(h)
}

// --- per-year tables ---

// Summary gives the average and highest reading of every known pollutant for
// one year within a location. Pollutants without data get nil fields.
func (s *Store) Summary(year, location string) []models.PollutantSummary {
	out := make([]models.PollutantSummary, 0, len(models.Pollutants))
	for _, pol := range models.Pollutants {
		pts := s.Points(year, pol, location)
		row := models.PollutantSummary{Pollutant: pol, PointCount: len(pts)}
		if avg, err := Average(pts); err == nil {
			row.Average = &avg
		}
		if hp, ok := Highest(pts); ok {
			row.Highest = &hp
		}
		out = append(out, row)
	}
	return out
}

// Compare gives the absolute difference of the averages and highest readings
// of two years. A difference is nil when either year lacks that figure.
func (s *Store) Compare(yearA, yearB, location string) []models.PollutantComparison {
	a := s.Summary(yearA, location)
	b := s.Summary(yearB, location)
	out := make([]models.PollutantComparison, len(a))
	for i := range a {
		out[i].Pollutant = a[i].Pollutant
		if a[i].Average != nil && b[i].Average != nil {
			d := math.Abs(*a[i].Average - *b[i].Average)
			out[i].AverageDifference = &d
		}
		if a[i].Highest != nil && b[i].Highest != nil {
			d := math.Abs(a[i].Highest.Value - b[i].Highest.Value)
			out[i].HighestDifference = &d
		}
	}
	return out
}
