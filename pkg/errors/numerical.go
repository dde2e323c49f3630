package errors

import (
	"math"
)

// CheckNumericalStability returns a NumericalInstabilityError when values
// contain NaN or Inf. The gradient descent loop calls this on its weight
// vector after every update so a diverging fit fails with context instead
// of silently producing NaN predictions.
func CheckNumericalStability(operation string, values []float64, iteration int) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, values, iteration)
		}
	}
	return nil
}

// ClipGradient rescales gradient to L2 norm maxNorm when it exceeds it.
// The slice is returned unchanged when already within the norm bound.
func ClipGradient(gradient []float64, maxNorm float64) []float64 {
	var norm float64
	for _, g := range gradient {
		norm += g * g
	}
	norm = math.Sqrt(norm)

	if norm <= maxNorm {
		return gradient
	}

	scale := maxNorm / norm
	clipped := make([]float64, len(gradient))
	for i, g := range gradient {
		clipped[i] = g * scale
	}
	return clipped
}

// StabilizeLog computes log(max(value, epsilon)), keeping loss terms
// finite when a predicted probability reaches exactly zero.
func StabilizeLog(value float64) float64 {
	const epsilon = 1e-10
	if value < epsilon {
		return math.Log(epsilon)
	}
	return math.Log(value)
}

// StabilizeExp computes exp with the argument clipped to ±700, just
// inside the range where float64 exp stays finite. The sigmoid uses it
// so extreme logits saturate instead of overflowing.
func StabilizeExp(value float64) float64 {
	const maxExp = 700.0
	if value > maxExp {
		return math.Exp(maxExp)
	}
	if value < -maxExp {
		return 0
	}
	return math.Exp(value)
}
