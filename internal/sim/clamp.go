package sim

// Clamp bounds v to [lo, hi]. NaN goes to hi, so a clamped quantity always
// lands inside its range.
func Clamp(v, lo, hi float64) float64 {
	if !(v <= hi) {
		v = hi
	}
	if !(v >= lo) {
		v = lo
	}
	return v
}
