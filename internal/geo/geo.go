// ABOUTME: Geolocation providers and coordinate helpers.
// ABOUTME: Positions come from configuration since a terminal has no location sensor.
package geo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/session"
)

// StaticLocator always reports the same position.
type StaticLocator struct {
	Position models.Coordinates
}

// Locate returns the configured position unless ctx is already done.
func (l StaticLocator) Locate(ctx context.Context) (models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinates{}, err
	}
	return l.Position, nil
}

// UnavailableLocator is used when no position is configured.
type UnavailableLocator struct{}

// Locate always fails.
func (UnavailableLocator) Locate(context.Context) (models.Coordinates, error) {
	return models.Coordinates{}, fmt.Errorf("%w: no position configured", session.ErrGeolocationUnavailable)
}

// NewLocator returns a StaticLocator for a "lat,lng" position, or an
// UnavailableLocator when position is empty.
func NewLocator(position string) (session.Locator, error) {
	if strings.TrimSpace(position) == "" {
		return UnavailableLocator{}, nil
	}
	c, err := ParseCoordinates(position)
	if err != nil {
		return nil, err
	}
	return StaticLocator{Position: c}, nil
}

// ParseCoordinates parses "lat,lng" (or "lat lng") in decimal degrees.
func ParseCoordinates(s string) (models.Coordinates, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(parts) != 2 {
		return models.Coordinates{}, fmt.Errorf("invalid coordinates %q: want lat,lng", s)
	}
	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lng, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("invalid longitude %q", parts[1])
	}
	return NewCoordinates(lat, lng)
}

// NewCoordinates range-checks a latitude/longitude pair.
func NewCoordinates(lat, lng float64) (models.Coordinates, error) {
	if !(lat >= -90 && lat <= 90) {
		return models.Coordinates{}, fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if !(lng >= -180 && lng <= 180) {
		return models.Coordinates{}, fmt.Errorf("longitude %v out of range [-180, 180]", lng)
	}
	return models.Coordinates{Lat: lat, Lng: lng}, nil
}

// OSMURL links to OpenStreetMap centered on c.
func OSMURL(c models.Coordinates, zoom int) string {
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.5f&mlon=%.5f#map=%d/%.5f/%.5f",
		c.Lat, c.Lng, zoom, c.Lat, c.Lng)
}
