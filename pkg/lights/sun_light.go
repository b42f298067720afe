package lights

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrSunBelowHorizon is returned when the sun cannot light the scene
var ErrSunBelowHorizon = errors.New("sun is below the horizon")

// SunPos is the sun's position in horizontal alt-azimuth coordinates
type SunPos struct {
	T time.Time

	// Altitude in degrees, from -90 to 90, where 0 is the horizon
	Altitude float64

	// Azimuth in degrees, from 0 to 360, where 0 is north and 90 is east
	Azimuth float64
}

// GetSunPos returns the sun position at the given time and location.
// Latitude and longitude are in degrees, north and east positive.
func GetSunPos(t time.Time, latitude, longitude float64) SunPos {
	p := suncalc.GetPosition(t, latitude, longitude)
	// suncalc returns radians, with azimuth measured from south toward west
	const rad2deg = 180 / math.Pi
	return SunPos{t, p.Altitude * rad2deg, p.Azimuth*rad2deg + 180}
}

// Direction returns the unit vector toward the sun in scene space,
// where +Y is up, +X is east and -Z is north.
func (p SunPos) Direction() r3.Vec {
	const deg2rad = math.Pi / 180
	al := p.Altitude * deg2rad
	az := p.Azimuth * deg2rad
	return r3.Unit(r3.Vec{
		X: math.Sin(az) * math.Cos(al),
		Y: math.Sin(al),
		Z: -math.Cos(az) * math.Cos(al),
	})
}

// NewSunLight places a point light distance units from target in the
// direction of the sun. The intensity is scaled by distance² so that the
// light arriving at target equals irradiance.
func NewSunLight(t time.Time, latitude, longitude float64, target r3.Vec, distance float64, irradiance core.Color) (*PointLight, error) {
	pos := GetSunPos(t, latitude, longitude)
	if pos.Altitude <= 0 {
		return nil, fmt.Errorf("%s at (%g, %g), altitude %.1f°: %w",
			t.Format(time.RFC3339), latitude, longitude, pos.Altitude, ErrSunBelowHorizon)
	}

	position := r3.Add(target, r3.Scale(distance, pos.Direction()))
	return NewPointLight(position, irradiance.Scale(distance*distance)), nil
}
