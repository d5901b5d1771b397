package athlete

import "math"

const centimetersPerMeter = 100

// BMI computes weight / height_m^2. The boolean is false when no BMI can be
// computed: a missing (NaN) or infinite measurement, or a non-positive height.
func BMI(heightCM, weightKG float64) (float64, bool) {
	if !finite(heightCM) || !finite(weightKG) || heightCM <= 0 {
		return 0, false
	}
	h := heightCM / centimetersPerMeter
	return weightKG / (h * h), true
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
