package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eugenenazirov/container-load/internal/calculator"
)

// ParseDimensions parses "LxWxH" in centimetres, e.g. "50x40x30" or "50 × 40 × 30".
func ParseDimensions(raw string) (length, width, height float64, err error) {
	normalized := strings.NewReplacer("×", "x", "X", "x", "*", "x").Replace(raw)
	parts := strings.Split(normalized, "x")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("dimensions %q must have the form LENGTHxWIDTHxHEIGHT", raw)
	}

	values := make([]float64, 3)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("dimensions %q: %q is not a number", raw, strings.TrimSpace(part))
		}
		values[i] = v
	}
	return values[0], values[1], values[2], nil
}

// ParsePackage builds a package specification from raw flag values and
// validates it before any calculation runs.
func ParsePackage(dimensions, weight string, stackable bool) (calculator.PackageSpec, error) {
	l, w, h, err := ParseDimensions(dimensions)
	if err != nil {
		return calculator.PackageSpec{}, err
	}
	kg, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
	if err != nil {
		return calculator.PackageSpec{}, fmt.Errorf("weight %q is not a number", weight)
	}

	spec := calculator.PackageSpec{Length: l, Width: w, Height: h, Weight: kg, Stackable: stackable}
	if err := calculator.ValidatePackage(spec); err != nil {
		return calculator.PackageSpec{}, err
	}
	return spec, nil
}
