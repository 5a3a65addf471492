package api

import (
	"errors"
	"net/http"
	"strconv"

	"airquality/internal/engine"
	"airquality/internal/metrics"
	"airquality/internal/models"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	data *engine.Pending
	topK int
}

func NewHandler(data *engine.Pending, topK int) *Handler {
	if topK <= 0 {
		topK = engine.DefaultTopK
	}
	return &Handler{data: data, topK: topK}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api", countRequests)
	api.GET("/status", h.GetStatus)
	api.GET("/regions", h.GetRegions)
	api.GET("/points", h.GetPoints)
	api.GET("/markers", h.GetMarkers)
	api.GET("/stats/average", h.GetAverage)
	api.GET("/stats/highest", h.GetHighest)
	api.GET("/stats/top", h.GetTop)
	api.GET("/stats/summary", h.GetSummary)
	api.GET("/stats/compare", h.GetCompare)
	api.GET("/locations/lookup", h.LookupLocation)
	api.GET("/locations/:gridcode", h.GetLocation)
}

func countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		code := c.Response().Status
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}
		metrics.RequestsTotal.WithLabelValues(c.Path(), strconv.Itoa(code)).Inc()
		return err
	}
}

// --- HELPERS ---

// store returns 503 until ingestion has finished.
func (h *Handler) store() (*engine.Store, error) {
	s, err := h.data.Store()
	if errors.Is(err, engine.ErrNotReady) {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "data is still loading")
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return s, nil
}

type filter struct {
	year      string
	pollutant string
	location  string
}

func getFilter(c echo.Context) (filter, error) {
	f := filter{
		year:      c.QueryParam("year"),
		pollutant: models.CanonicalPollutant(c.QueryParam("pollutant")),
		location:  c.QueryParam("location"),
	}
	if f.location == "" {
		f.location = engine.LocationAll
	}
	if !models.ValidYear(f.year) {
		return f, echo.NewHTTPError(http.StatusBadRequest, "year must be one of 2018..2023")
	}
	if !models.ValidPollutant(f.pollutant) {
		return f, echo.NewHTTPError(http.StatusBadRequest, "pollutant must be no2, pm10 or pm2.5")
	}
	return f, nil
}

func intParam(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return n, nil
}

// limitParam reads ?top=N; "true" or an empty value with the key present
// means the configured top-K.
func (h *Handler) limitParam(c echo.Context) (int, bool, error) {
	v, ok := c.QueryParams()["top"]
	if !ok {
		return 0, false, nil
	}
	if len(v) == 0 || v[0] == "" || v[0] == "true" {
		return h.topK, true, nil
	}
	n, err := strconv.Atoi(v[0])
	if err != nil || n <= 0 {
		return 0, false, echo.NewHTTPError(http.StatusBadRequest, "top must be a positive integer")
	}
	return n, true, nil
}

// --- HANDLERS ---

func (h *Handler) GetStatus(c echo.Context) error {
	s, err := h.data.Store()
	if err != nil {
		return c.JSON(http.StatusOK, models.IngestStatus{State: h.data.State().String()})
	}
	return c.JSON(http.StatusOK, s.Report().Status(h.data.State()))
}

func (h *Handler) GetRegions(c echo.Context) error {
	regions := engine.DefaultCatalog.Regions()
	if s, err := h.data.Store(); err == nil {
		regions = s.Catalog().Regions()
	}
	out := make([]models.RegionInfo, len(regions))
	for i, r := range regions {
		out[i] = r.Info()
	}
	return c.JSON(http.StatusOK, out)
}

// filtered points, optionally cut to the most polluted ?top=N
func (h *Handler) GetPoints(c echo.Context) error {
	s, err := h.store()
	if err != nil {
		return err
	}
	f, err := getFilter(c)
	if err != nil {
		return err
	}
	k, top, err := h.limitParam(c)
	if err != nil {
		return err
	}
	pts := s.Points(f.year, f.pollutant, f.location)
	if top {
		pts = engine.TopK(pts, k)
	}
	return c.JSON(http.StatusOK, pts)
}

func (h *Handler) GetMarkers(c echo.Context) error {
	s, err := h.store()
	if err != nil {
		return err
	}
	f, err := getFilter(c)
	if err != nil {
		return err
	}
	k, top, err := h.limitParam(c)
	if err != nil {
		return err
	}
	pts := s.Points(f.year, f.pollutant, f.location)
	if top {
		pts = engine.TopK(pts, k)
	}
	return c.JSON(http.StatusOK, engine.Markers(f.pollutant, pts))
}

func (h *Handler) GetAverage(c echo.Context) error {
	s, err := h.store()
	if err != nil {
		return err
	}
	f, err := getFilter(c)
	if err != nil {
		return err
	}
	avg, err := engine.Average(s.Points(f.year, f.pollutant, f.location))
	if errors.Is(err, engine.ErrNoData) {
		return echo.NewHTTPError(http.StatusNotFound, "no data for this selection")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"year":      f.year,
		"pollutant": f.pollutant,
		"location":  f.location,
		"average":   avg,
	})
}

func (h *Handler) GetHighest(c echo.Context) error {
	s, err := h.store()
	if err != nil {
		return err
	}
	f, err := getFilter(c)
	if err != nil {
		return err
	}
	p, ok := engine.Highest(s.Points(f.year, f.pollutant, f.location))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no positive reading for this selection")
	}
	return c.JSON(http.StatusOK, p)
}

// returns the top-K most polluted points
func (h *Handler) GetTop(c echo.Context) error {
	s, err := h.store()
	if err != nil {
		return err
	}
	f, err := getFilter(c)
	if err != nil {
		return err
	}
	k, top, err := h.limitParam(c)
	if err != nil {
		return err
	}
	if !top {
		k = h.topK
	}
	return c.JSON(http.StatusOK, engine.TopK(s.Points(f.year, f.pollutant, f.location), k))
}

func (h *Handler) GetSummary(c echo.Context) error {
	s, err := h.store()
	if err != nil {
		return err
	}
	year := c.QueryParam("year")
	if !models.ValidYear(year) {
		return echo.NewHTTPError(http.StatusBadRequest, "year must be one of 2018..2023")
	}
	loc := c.QueryParam("location")
	if loc == "" {
		loc = engine.LocationAll
	}
	return c.JSON(http.StatusOK, s.Summary(year, loc))
}

func (h *Handler) GetCompare(c echo.Context) error {
	s, err := h.store()
	if err != nil {
		return err
	}
	left, right := c.QueryParam("left"), c.QueryParam("right")
	if !models.ValidYear(left) || !models.ValidYear(right) {
		return echo.NewHTTPError(http.StatusBadRequest, "left and right must be years in 2018..2023")
	}
	loc := c.QueryParam("location")
	if loc == "" {
		loc = engine.LocationAll
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"left":       s.Summary(left, loc),
		"right":      s.Summary(right, loc),
		"difference": s.Compare(left, right, loc),
	})
}

// average and per-year series of one grid cell
func (h *Handler) GetLocation(c echo.Context) error {
	s, err := h.store()
	if err != nil {
		return err
	}
	gc, err := intParam("gridcode", c.Param("gridcode"))
	if err != nil {
		return err
	}
	pol := models.CanonicalPollutant(c.QueryParam("pollutant"))
	if !models.ValidPollutant(pol) {
		return echo.NewHTTPError(http.StatusBadRequest, "pollutant must be no2, pm10 or pm2.5")
	}
	resp := map[string]interface{}{
		"gridcode":  gc,
		"pollutant": pol,
		"series":    s.TimeSeries(gc, pol),
	}
	if avg, err := s.LocationAverage(gc, pol); err == nil {
		resp["average"] = avg
	}
	return c.JSON(http.StatusOK, resp)
}

// finds a point by ?gridcode= or by exact ?x=&y=
func (h *Handler) LookupLocation(c echo.Context) error {
	s, err := h.store()
	if err != nil {
		return err
	}
	f, err := getFilter(c)
	if err != nil {
		return err
	}

	var p models.DataPoint
	var ok bool
	if v := c.QueryParam("gridcode"); v != "" {
		gc, err := intParam("gridcode", v)
		if err != nil {
			return err
		}
		p, ok = s.FindByGridCode(f.year, f.pollutant, f.location, gc)
	} else {
		x, err := intParam("x", c.QueryParam("x"))
		if err != nil {
			return err
		}
		y, err := intParam("y", c.QueryParam("y"))
		if err != nil {
			return err
		}
		p, ok = s.FindByCoordinates(f.year, f.pollutant, f.location, x, y)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no reading at that location")
	}
	return c.JSON(http.StatusOK, p)
}
