package domain

import "math"

// Point is a position on the 0..100 normalised body plane.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Region is a named clickable body area used to tag pain locations.
type Region struct {
	ID     string  `yaml:"id" json:"id"`
	Name   string  `yaml:"name" json:"name"`
	Anchor Point   `yaml:"anchor" json:"anchor"`
	Radius float64 `yaml:"radius" json:"radius"`
}

// Contains reports whether p lies within the region's selection circle.
func (r Region) Contains(p Point) bool {
	return r.Distance(p) <= r.Radius
}

// Distance returns the distance from the region anchor to p.
func (r Region) Distance(p Point) float64 {
	return math.Hypot(p.X-r.Anchor.X, p.Y-r.Anchor.Y)
}

// Nearest returns the index of the region containing p whose anchor is
// closest, or -1 when no region contains p. Ties go to the earlier region.
func Nearest(regions []Region, p Point) int {
	best, bestDist := -1, 0.0
	for i, r := range regions {
		if !r.Contains(p) {
			continue
		}
		if d := r.Distance(p); best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
