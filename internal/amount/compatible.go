package amount

// IsCompatible reports whether an implementation whose largest capability is
// maximal can satisfy required.
//
// Only precision and scale bounds are compared. Flavor and amount type are the
// caller's concern.
func IsCompatible(required, maximal Context) bool {
	if maximal.Precision != UnboundedPrecision {
		if required.Precision == UnboundedPrecision || required.Precision > maximal.Precision {
			return false
		}
	}
	if maximal.MaxScale != UnboundedScale && required.MaxScale > maximal.MaxScale {
		return false
	}
	return true
}
