package types

import "math"

type AircraftID string

type Vec2 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{x, y}
}

func (v1 Vec2) DistanceTo(v2 Vec2) float64 {
	dx := v1.X - v2.X
	dy := v1.Y - v2.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func (v1 Vec2) Add(v2 Vec2) Vec2 {
	return Vec2{v1.X + v2.X, v1.Y + v2.Y}
}

func (v1 Vec2) Scale(s float64) Vec2 {
	return Vec2{v1.X * s, v1.Y * s}
}

func (v Vec2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b Vec2) float64 {
	return a.DistanceTo(b)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// IsFinite reports whether every value is neither NaN nor infinite.
func IsFinite(vals ...float64) bool {
	for _, v := range vals {
		if !isFinite(v) {
			return false
		}
	}
	return true
}
