// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts longitude/latitude angles in degrees to a unit
// vector pointing towards the sun. Longitude is rotation around Y (0-360),
// latitude is elevation from the horizon (0-90).
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	lon := mgl32.DegToRad(longitude)
	lat := mgl32.DegToRad(latitude)
	return mgl32.Vec3{
		math32.Cos(lat) * math32.Sin(lon),
		math32.Sin(lat),
		math32.Cos(lat) * math32.Cos(lon),
	}
}

// Sun moves along a circle tilted away from the zenith, one revolution per
// 2*pi/Speed seconds.
type Sun struct {
	DayTime float32 // radians along the orbit; pi/2 is noon
	Speed   float32 // radians per second
	Tilt    float32 // radians
	Paused  bool
}

// NewSun starts the cycle at dayTime.
func NewSun(speed, dayTime float32) *Sun {
	return &Sun{DayTime: dayTime, Speed: speed, Tilt: mgl32.DegToRad(45)}
}

// Update advances the cycle.
func (s *Sun) Update(dt float32) {
	if s.Paused {
		return
	}
	s.DayTime = math32.Mod(s.DayTime+dt*s.Speed, 2*math32.Pi)
}

// Direction returns the unit vector towards the sun.
func (s *Sun) Direction() mgl32.Vec3 {
	sin, cos := math32.Sincos(s.DayTime)
	return mgl32.Vec3{
		cos,
		sin * math32.Cos(s.Tilt),
		-sin * math32.Sin(s.Tilt),
	}.Normalize()
}

// Daylight is 1 with the sun well above the horizon, fading to 0 as it sets.
func (s *Sun) Daylight() float32 {
	return min(max(s.Direction().Y()*4, 0), 1)
}

// Light returns the directional light the sun casts now.
func (s *Sun) Light(color, ambient mgl32.Vec3) DirectionalLight {
	return DirectionalLight{
		Direction: s.Direction().Mul(-1),
		Color:     color.Mul(s.Daylight()),
		Ambient:   ambient,
	}
}
