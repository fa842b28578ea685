package window

import (
	"errors"
	"fmt"
)

var errMismatchedLength = errors.New("samples and coefficients must have same length")

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window size must be > 0: %d", size)
	}
	return nil
}

func validateFraction(size int, fraction float64) error {
	if size <= 0 {
		return validateLength(size)
	}
	if !(fraction >= 0 && fraction <= 1) {
		return fmt.Errorf("taper fraction must be in [0,1]: %f", fraction)
	}
	return nil
}
