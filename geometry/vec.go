package geometry

import "math"

// Vec2 is a point in the simulation's horizontal plane.
type Vec2 struct {
	X float64
	Y float64
}

// Vec3 is a full world position. Z is elevation.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// XY projects onto the horizontal plane.
func (v Vec3) XY() Vec2 {
	return Vec2{X: v.X, Y: v.Y}
}

// SqMagnitude returns the squared length of the vector.
func (v Vec3) SqMagnitude() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Distance returns the planar distance between two points.
func Distance(a, b Vec2) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Lerp linearly interpolates between two points.
func Lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// PolylineLength returns the total length of a polyline.
func PolylineLength(points []Vec2) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}
