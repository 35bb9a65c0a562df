package domain

import "math"

// Position - точка в мире с ориентацией (радианы).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	O float64 `json:"o,omitempty"`
}

// DistanceTo возвращает трехмерное расстояние до другой точки.
func (p Position) DistanceTo(other Position) float64 {
	return math.Sqrt(p.DistanceSquaredTo(other))
}

// DistanceSquaredTo возвращает квадрат расстояния для сравнения без корней.
func (p Position) DistanceSquaredTo(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	dz := p.Z - other.Z
	return dx*dx + dy*dy + dz*dz
}

// Shift возвращает новую позицию со смещением (ориентация сохраняется).
func (p Position) Shift(dx, dy, dz float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz, O: p.O}
}

// AngleTo возвращает ориентацию в плоскости XY, при которой p смотрит на other.
// Результат нормализован в [0, 2π).
func (p Position) AngleTo(other Position) float64 {
	return NormalizeOrientation(math.Atan2(other.Y-p.Y, other.X-p.X))
}

// NormalizeOrientation приводит угол к диапазону [0, 2π).
func NormalizeOrientation(o float64) float64 {
	o = math.Mod(o, 2*math.Pi)
	if o < 0 {
		o += 2 * math.Pi
	}
	return o
}
