package types

import "math"

// Project moves origin by speed*dt along headingDeg. Heading 0 points
// along +y and positive headings turn toward -x.
func Project(origin Vec2, headingDeg, speed, dt float64) Vec2 {
	d := speed * dt
	radians := headingDeg * math.Pi / 180.0
	return Vec2{
		X: origin.X - d*math.Sin(radians),
		Y: origin.Y + d*math.Cos(radians),
	}
}

// NormalizeHeading maps h into (-180, 180].
func NormalizeHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h <= -180 {
		h += 360
	} else if h > 180 {
		h -= 360
	}
	return h
}

// HeadingDifference returns the smallest angle between a and b, in [0, 180].
func HeadingDifference(a, b float64) float64 {
	return math.Abs(NormalizeHeading(a - b))
}

// ReverseHeading returns h turned around by 180 degrees.
func ReverseHeading(h float64) float64 {
	if h > 0 {
		return h - 180
	}
	return h + 180
}

// HeadingTo returns the heading, in the Project convention, that points
// from v1 toward v2.
func (v1 Vec2) HeadingTo(v2 Vec2) float64 {
	dx := v2.X - v1.X
	dy := v2.Y - v1.Y
	return NormalizeHeading(math.Atan2(-dx, dy) * 180.0 / math.Pi)
}

type Box struct {
	Min Vec2 `json:"min" msgpack:"min"`
	Max Vec2 `json:"max" msgpack:"max"`
}

// BoxAround returns the axis-aligned square with the given side length
// centered on c.
func BoxAround(c Vec2, side float64) Box {
	h := side / 2
	return Box{
		Min: Vec2{c.X - h, c.Y - h},
		Max: Vec2{c.X + h, c.Y + h},
	}
}

// Intersects treats both boxes as closed, so boxes that share an edge
// intersect.
func (b Box) Intersects(o Box) bool {
	return b.Min.X <= o.Max.X && o.Min.X <= b.Max.X &&
		b.Min.Y <= o.Max.Y && o.Min.Y <= b.Max.Y
}

func (b Box) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

func (b Box) Center() Vec2 {
	return Vec2{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

func (b Box) Width() float64  { return b.Max.X - b.Min.X }
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }

// Bezier evaluates the curve with the given control points at t using
// de Casteljau's algorithm.
func Bezier(points []Vec2, t float64) Vec2 {
	if len(points) == 0 {
		return Vec2{}
	}
	work := make([]Vec2, len(points))
	copy(work, points)
	for n := len(work) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			work[i] = work[i].Scale(1 - t).Add(work[i+1].Scale(t))
		}
	}
	return work[0]
}
