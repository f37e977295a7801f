package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ddui/walkability-api/internal/airquality"
	"github.com/ddui/walkability-api/internal/upstream"
	"github.com/ddui/walkability-api/internal/walkability"
)

var validate = validator.New()

const (
	defaultHours = 12
	maxHours     = 12
	defaultDays  = 7
	maxDays      = 7
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *walkability.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/walkability/current", func(c *fiber.Ctx) error {
		req, err := parseWalkQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		resp, err := service.Current(c.Context(), req.Lat, req.Lon, req.profile)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(resp)
	})

	v1.Get("/walkability/current/detail", func(c *fiber.Ctx) error {
		req, err := parseWalkQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		resp, err := service.CurrentDetail(c.Context(), req.Lat, req.Lon, req.profile)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(resp)
	})

	v1.Get("/walkability/hourly", func(c *fiber.Ctx) error {
		req, err := parseWalkQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		hours, err := parseCount(c.Query("hours"), defaultHours, maxHours)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entries, err := service.Hourly(c.Context(), req.Lat, req.Lon, req.profile, hours)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(fiber.Map{"hours": entries})
	})

	v1.Get("/walkability/weekly", func(c *fiber.Ctx) error {
		req, err := parseWalkQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		days, err := parseCount(c.Query("days"), defaultDays, maxDays)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entries, err := service.Weekly(c.Context(), req.Lat, req.Lon, req.profile, days)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(fiber.Map{"days": entries})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

// walkQuery holds the query parameters shared by every walkability
// endpoint.
type walkQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`

	profile walkability.DogProfile
}

func parseWalkQuery(c *fiber.Ctx) (walkQuery, error) {
	var q walkQuery

	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return q, errors.New("lat and lon query parameters are required")
	}

	var err error
	if q.Lat, err = strconv.ParseFloat(latStr, 64); err != nil {
		return q, errors.New("lat must be a number")
	}
	if q.Lon, err = strconv.ParseFloat(lonStr, 64); err != nil {
		return q, errors.New("lon must be a number")
	}
	if err := validate.Struct(q); err != nil {
		return q, err
	}

	if q.profile, err = parseProfile(c); err != nil {
		return q, err
	}
	return q, nil
}

func parseProfile(c *fiber.Ctx) (walkability.DogProfile, error) {
	p := walkability.DefaultProfile()

	size, err := walkability.ParseSize(c.Query("size"))
	if err != nil {
		return p, err
	}
	p.Size = size

	switch c.Query("coat_type") {
	case "":
	case string(walkability.CoatSingle):
		p.CoatType = walkability.CoatSingle
	case string(walkability.CoatDouble):
		p.CoatType = walkability.CoatDouble
	default:
		return p, errors.New("coat_type must be single or double")
	}

	switch c.Query("coat_length") {
	case "":
	case string(walkability.CoatShort):
		p.CoatLength = walkability.CoatShort
	case string(walkability.CoatLong):
		p.CoatLength = walkability.CoatLong
	default:
		return p, errors.New("coat_length must be short or long")
	}

	if p.Sensitivities, err = walkability.ParseSensitivities(c.Query("sensitivities")); err != nil {
		return p, err
	}

	std := c.Query("standard")
	if std != "" && std != "korean" && std != "who" {
		return p, errors.New("standard must be korean or who")
	}
	p.Standard = airquality.ParseStandard(std)
	return p, nil
}

func parseCount(raw string, def, max int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > max {
		return 0, errors.New("count must be between 1 and " + strconv.Itoa(max))
	}
	return n, nil
}

// upstreamError translates acquisition failures into HTTP errors using the
// provider code taxonomy; data absence maps to 404.
func upstreamError(err error) error {
	if errors.Is(err, upstream.ErrNoData) {
		return fiber.NewError(fiber.StatusNotFound, "no forecast data for requested location")
	}
	return fiber.NewError(upstream.StatusFromError(err), err.Error())
}
