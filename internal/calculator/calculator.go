package calculator

import (
	"math"
)

const (
	cubicCentimetersPerMeter = 1_000_000

	// maxExactUnits is the largest count a float64 quotient represents exactly.
	maxExactUnits = 1 << 53
)

type axisAlignedCalculator struct{}

// New creates a Calculator that packs non-rotated packages in an axis-aligned grid.
func New() Calculator {
	return &axisAlignedCalculator{}
}

func (c *axisAlignedCalculator) CalculateLoad(profile ContainerProfile, spec PackageSpec) (LoadResult, error) {
	return CalculateLoad(profile, spec)
}

func (c *axisAlignedCalculator) PlanShipment(profile ContainerProfile, spec PackageSpec, quantity int) (ShipmentPlan, error) {
	return PlanShipment(profile, spec, quantity)
}

// CalculateLoad returns how many packages described by spec fit into profile.
//
// Packages are never rotated. The per-axis count is the floor of the container
// dimension divided by the package dimension, and non-stackable packages use at
// most a single layer. The space-limited count is then capped by the weight-limited
// count; a tie reports LimitingSpace.
func CalculateLoad(profile ContainerProfile, spec PackageSpec) (LoadResult, error) {
	if err := ValidateProfile(profile); err != nil {
		return LoadResult{}, err
	}
	if err := ValidatePackage(spec); err != nil {
		return LoadResult{}, err
	}
	packageVolume := (spec.Length * spec.Width * spec.Height) / cubicCentimetersPerMeter
	if math.IsInf(packageVolume, 0) {
		return LoadResult{}, &ValidationError{Field: "package", Value: packageVolume, Reason: "package volume is not representable"}
	}

	alongLength, err := floorQuotient("length", profile.InnerLength, spec.Length)
	if err != nil {
		return LoadResult{}, err
	}
	alongWidth, err := floorQuotient("width", profile.InnerWidth, spec.Width)
	if err != nil {
		return LoadResult{}, err
	}
	alongHeight, err := floorQuotient("height", profile.InnerHeight, spec.Height)
	if err != nil {
		return LoadResult{}, err
	}
	// A package taller than the container fits zero times even in a single layer.
	if !spec.Stackable && alongHeight > 1 {
		alongHeight = 1
	}
	byWeight, err := floorQuotient("weight", profile.MaxWeight, spec.Weight)
	if err != nil {
		return LoadResult{}, err
	}

	bySpace := 0
	if alongLength > 0 && alongWidth > 0 && alongHeight > 0 {
		product := float64(alongLength) * float64(alongWidth) * float64(alongHeight)
		if product > maxExactUnits {
			return LoadResult{}, &ValidationError{Field: "package", Value: product, Reason: "package is too small relative to the container"}
		}
		bySpace = alongLength * alongWidth * alongHeight
	}

	capacity := bySpace
	limiting := LimitingSpace
	if byWeight < bySpace {
		capacity = byWeight
		limiting = LimitingWeight
	}

	totalVolume := packageVolume * float64(capacity)
	totalWeight := spec.Weight * float64(capacity)

	return LoadResult{
		CapacityUnits:        capacity,
		LimitingFactor:       limiting,
		UnitsAlongLength:     alongLength,
		UnitsAlongWidth:      alongWidth,
		UnitsAlongHeight:     alongHeight,
		UnitsBySpace:         bySpace,
		UnitsByWeight:        byWeight,
		PackageVolumeM3:      packageVolume,
		TotalVolumeM3:        totalVolume,
		TotalWeightKg:        totalWeight,
		VolumeUtilizationPct: (totalVolume / profile.VolumeCubicMeters) * 100,
		WeightUtilizationPct: (totalWeight / profile.MaxWeight) * 100,
	}, nil
}

// PlanShipment reports how many containers of profile are needed to ship quantity packages.
func PlanShipment(profile ContainerProfile, spec PackageSpec, quantity int) (ShipmentPlan, error) {
	if quantity <= 0 {
		return ShipmentPlan{}, ErrInvalidQuantity
	}
	load, err := CalculateLoad(profile, spec)
	if err != nil {
		return ShipmentPlan{}, err
	}
	if load.CapacityUnits == 0 {
		return ShipmentPlan{}, ErrDoesNotFit
	}

	containers := quantity / load.CapacityUnits
	last := quantity % load.CapacityUnits
	if last == 0 {
		last = load.CapacityUnits
	} else {
		containers++
	}

	return ShipmentPlan{
		Quantity:             quantity,
		ContainersRequired:   containers,
		UnitsInLastContainer: last,
		PerContainer:         load,
	}, nil
}

// ValidateProfile reports the first profile field that is not a finite positive number.
func ValidateProfile(profile ContainerProfile) error {
	return validatePositive(
		field{"innerLength", profile.InnerLength},
		field{"innerWidth", profile.InnerWidth},
		field{"innerHeight", profile.InnerHeight},
		field{"maxWeight", profile.MaxWeight},
		field{"volumeCubicMeters", profile.VolumeCubicMeters},
	)
}

// ValidatePackage reports the first package field that is not a finite positive number.
func ValidatePackage(spec PackageSpec) error {
	return validatePositive(
		field{"length", spec.Length},
		field{"width", spec.Width},
		field{"height", spec.Height},
		field{"weight", spec.Weight},
	)
}

type field struct {
	name  string
	value float64
}

func validatePositive(fields ...field) error {
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value <= 0 {
			return &ValidationError{Field: f.name, Value: f.value}
		}
	}
	return nil
}

func floorQuotient(name string, capacity, unit float64) (int, error) {
	q := math.Floor(capacity / unit)
	if q > maxExactUnits {
		return 0, &ValidationError{Field: name, Value: unit, Reason: "value is too small relative to the container"}
	}
	return int(q), nil
}
