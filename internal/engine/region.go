package engine

import (
	"strings"

	"airquality/internal/models"

	"github.com/paulmach/orb"
)

// LocationAll selects the union of every region in a catalog.
const LocationAll = "all"

// Region is a named rectangle in grid coordinates. Membership is strict on
// all four edges: a point lying on the boundary is outside.
type Region struct {
	Name  string
	Bound orb.Bound
}

func NewRegion(name string, minX, maxX, minY, maxY int) Region {
	return Region{
		Name: name,
		Bound: orb.Bound{
			Min: orb.Point{float64(minX), float64(minY)},
			Max: orb.Point{float64(maxX), float64(maxY)},
		},
	}
}

// Contains reports whether p lies strictly inside the region. orb.Bound.Contains
// is inclusive, so the edges are compared by hand.
func (r Region) Contains(p models.DataPoint) bool {
	x, y := float64(p.X), float64(p.Y)
	return x > r.Bound.Min.X() && x < r.Bound.Max.X() &&
		y > r.Bound.Min.Y() && y < r.Bound.Max.Y()
}

func (r Region) Info() models.RegionInfo {
	return models.RegionInfo{
		Name: r.Name,
		MinX: int(r.Bound.Min.X()),
		MaxX: int(r.Bound.Max.X()),
		MinY: int(r.Bound.Min.Y()),
		MaxY: int(r.Bound.Max.Y()),
	}
}

// Catalog is an ordered, read-only set of regions.
type Catalog struct {
	regions []Region
	byName  map[string]int
}

func NewCatalog(regions ...Region) *Catalog {
	c := &Catalog{
		regions: append([]Region(nil), regions...),
		byName:  make(map[string]int, len(regions)),
	}
	for i, r := range c.regions {
		c.byName[strings.ToLower(r.Name)] = i
	}
	return c
}

// DefaultCatalog holds the three cities the corpus is cut down to.
var DefaultCatalog = NewCatalog(
	NewRegion("London", 510394, 553297, 168504, 193305),
	NewRegion("Leeds", 408304, 451385, 420952, 447012),
	NewRegion("Oxford", 449416, 458115, 201110, 211085),
)

func (c *Catalog) Regions() []Region {
	return append([]Region(nil), c.regions...)
}

// Lookup finds a region by case-insensitive name.
func (c *Catalog) Lookup(name string) (Region, bool) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Region{}, false
	}
	return c.regions[i], true
}

// InLocation reports whether p lies in the named region. "all" and any name
// the catalog does not know fall back to the union of every region. Regions
// may overlap; the union is a plain OR.
func (c *Catalog) InLocation(p models.DataPoint, location string) bool {
	if r, ok := c.Lookup(location); ok {
		return r.Contains(p)
	}
	for _, r := range c.regions {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

// InLocation checks p against DefaultCatalog.
func InLocation(p models.DataPoint, location string) bool {
	return DefaultCatalog.InLocation(p, location)
}
