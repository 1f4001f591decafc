package model

import "math"

// Line is y = Slope*x + Intercept, the least-squares fit of a beam.
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// FitLine fits points by ordinary least squares. A single point, or points
// sharing one abscissa, yield a horizontal line through their mean.
func FitLine(points []Point) Line {
	n := float64(len(points))
	if n == 0 {
		return Line{}
	}
	var sx, sy, sxx, sxy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
		sxx += p.X * p.X
		sxy += p.X * p.Y
	}
	den := n*sxx - sx*sx
	if math.Abs(den) < 1e-9 {
		return Line{Slope: 0, Intercept: sy / n}
	}
	slope := (n*sxy - sx*sy) / den
	return Line{Slope: slope, Intercept: (sy - slope*sx) / n}
}

func (l Line) YAt(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Distance is the Euclidean distance from p to the line.
func (l Line) Distance(p Point) float64 {
	return math.Abs(l.Slope*p.X-p.Y+l.Intercept) / math.Sqrt(l.Slope*l.Slope+1)
}
