// Package geom provides the 2D primitives used by the layout engine:
// vectors for positions and displacements, and rectangles for drawing areas.
//
// All values are float64. Layout code treats a Vec2 both as a point (node
// position) and as a displacement; the distinction is contextual, matching
// how the rest of the codebase uses them.
package geom

import "math"

// Vec2 is a 2D vector or point.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Add returns v + w.
func (v Vec2) Add(w Vec2) Vec2 { return Vec2{v.X + w.X, v.Y + w.Y} }

// Sub returns v - w.
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{v.X - w.X, v.Y - w.Y} }

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Normalized returns v scaled to unit length.
// The zero vector is returned unchanged.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Clamp returns v with its length capped at max.
// Vectors shorter than max are returned unchanged.
func (v Vec2) Clamp(max float64) Vec2 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Scale(max / l)
}

// IsFinite reports whether both components are finite (no NaN or ±Inf).
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Dist returns the Euclidean distance between points a and b.
func Dist(a, b Vec2) float64 { return a.Sub(b).Len() }

// Rect is an axis-aligned rectangle defined by origin and size.
// It describes the drawing area handed to layout steps; it is informational
// and never a hard clipping constraint on node positions.
type Rect struct {
	Min  Vec2 `json:"min"`
	Size Vec2 `json:"size"`
}

// R constructs a Rect from origin (x, y) and extent (w, h).
func R(x, y, w, h float64) Rect {
	return Rect{Min: Vec2{x, y}, Size: Vec2{w, h}}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Size.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Size.Y }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.Min.X + r.Size.X/2, r.Min.Y + r.Size.Y/2}
}

// Area returns width times height.
func (r Rect) Area() float64 { return r.Size.X * r.Size.Y }

// Contains reports whether p lies inside the rectangle (inclusive of edges).
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Min.X+r.Size.X &&
		p.Y >= r.Min.Y && p.Y <= r.Min.Y+r.Size.Y
}
