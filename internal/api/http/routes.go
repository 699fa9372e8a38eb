package httpapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/weatherpro/weatherdash/internal/app"
	"github.com/weatherpro/weatherdash/internal/export"
	"github.com/weatherpro/weatherdash/internal/geo"
	"github.com/weatherpro/weatherdash/internal/report"
	"github.com/weatherpro/weatherdash/internal/store"
	"github.com/weatherpro/weatherdash/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(router *fiber.App, ctrl *app.Controller, reports *report.Builder) {
	v1 := router.Group("/api/v1")

	v1.Get("/search", func(c *fiber.Ctx) error {
		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q query parameter is required")
		}

		candidates, err := ctrl.Search(c.Context(), query)
		if err != nil {
			if errors.Is(err, geo.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "location not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "search failed")
		}

		return c.JSON(fiber.Map{
			"query":      query,
			"candidates": candidates,
		})
	})

	v1.Get("/search/reverse", func(c *fiber.Ctx) error {
		lat, lon, err := parseCoords(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(ctrl.Reverse(c.Context(), lat, lon))
	})

	v1.Post("/search/input", func(c *fiber.Ctx) error {
		var req searchInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// The controller debounces; rapid input coalesces into one search.
		ctrl.OnSearchInput(req.Query)
		return c.SendStatus(fiber.StatusAccepted)
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		lat, lon, err := parseCoords(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := weather.Location{Latitude: lat, Longitude: lon, DisplayName: c.Query("name")}
		if loc.DisplayName == "" {
			loc = ctrl.Reverse(c.Context(), lat, lon)
		}

		model, err := ctrl.Load(c.Context(), loc)
		if err != nil {
			if errors.Is(err, weather.ErrFetchFailed) {
				return fiber.NewError(fiber.StatusBadGateway, "weather source unavailable")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}
		return c.JSON(model)
	})

	v1.Get("/current", func(c *fiber.Ctx) error {
		model, ok := ctrl.Current()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no weather data loaded yet")
		}
		return c.JSON(model)
	})

	v1.Get("/summary", func(c *fiber.Ctx) error {
		text, ok := ctrl.Summary()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no weather data loaded yet")
		}
		return c.JSON(fiber.Map{"summary": text})
	})

	v1.Get("/day/:index", func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "day index must be an integer")
		}
		day, ok := ctrl.Day(index)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no forecast for requested day")
		}
		return c.JSON(day)
	})

	v1.Get("/global", func(c *fiber.Ctx) error {
		if rep, ok := reports.Latest(); ok {
			return c.JSON(rep)
		}
		return c.JSON(reports.Refresh(c.Context()))
	})

	v1.Get("/export/json", func(c *fiber.Ctx) error {
		model, ok := ctrl.Current()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no weather data to export")
		}
		data, err := export.JSON(model)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "export failed")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		c.Set(fiber.HeaderContentDisposition, exportFilename(model, "json"))
		return c.Send(data)
	})

	v1.Get("/export/csv", func(c *fiber.Ctx) error {
		model, ok := ctrl.Current()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no weather data to export")
		}
		data, err := export.CSV(model)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "export failed")
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, exportFilename(model, "csv"))
		return c.Send(data)
	})

	v1.Get("/preferences", func(c *fiber.Ctx) error {
		return c.JSON(ctrl.Preferences())
	})

	v1.Put("/preferences", func(c *fiber.Ctx) error {
		var req preferencesBody
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if req.UseCelsius == nil {
			return fiber.NewError(fiber.StatusBadRequest, "useCelsius is required")
		}
		return c.JSON(ctrl.SetUseCelsius(*req.UseCelsius))
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		models, err := ctrl.History(req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
		}

		return c.JSON(fiber.Map{
			"from":      req.From,
			"to":        req.To,
			"snapshots": models,
		})
	})
}

type searchInput struct {
	Query string `json:"query" validate:"required"`
}

type preferencesBody struct {
	UseCelsius *bool `json:"useCelsius"`
}

func parseCoords(c *fiber.Ctx) (float64, float64, error) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return 0, 0, errors.New("lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, errors.New("lat must be a number between -90 and 90")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, errors.New("lon must be a number between -180 and 180")
	}
	return lat, lon, nil
}

func exportFilename(m *weather.Model, ext string) string {
	name := strings.ReplaceAll(m.Location.DisplayName, " ", "_")
	if name == "" {
		name = "location"
	}
	return "attachment; filename=weatherdash_" + name + "." + ext
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
