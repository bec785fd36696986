package poster

// FixedSun reports a constant sun radius, standing in for a measured sprite
type FixedSun float64

// SunRadius implements scene.SunMeasurer
func (f FixedSun) SunRadius() (float64, bool) {
	return float64(f), f > 0
}
