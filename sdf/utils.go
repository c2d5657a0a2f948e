package sdf

import "math"

const (
	pi        = math.Pi
	tolerance = 1e-9
)

// DtoR converts degrees to radians.
func DtoR(degrees float64) float64 {
	return (pi / 180) * degrees
}
