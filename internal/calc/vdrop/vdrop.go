// Package vdrop validates a sized cable: percentage voltage drop against
// the standard's limit and adiabatic short-circuit withstand against a
// prospective fault current.
package vdrop

import (
	"math"

	"sceap/internal/calc/electrical"
)

const (
	// KCopper is the adiabatic constant for copper conductors.
	KCopper = 115.0
	// DefaultClearingTime is the assumed protective-device clearing time.
	DefaultClearingTime = 1.0
	// MinShortCircuitSize is the smallest size accepted without a stated
	// prospective fault current.
	MinShortCircuitSize = 1.5
)

// Drop returns the percentage voltage drop. With a known reactance the
// impedance magnitude √(R²+X²) is used; otherwise resistance only.
// Parallel runs divide the per-conductor current. Zero voltage yields 0.
func Drop(flc, lengthM, voltage float64, runs int, resistancePerM float64, reactancePerM *float64) float64 {
	if voltage == 0 {
		return 0
	}
	if runs < 1 {
		runs = 1
	}
	iPerRun := flc / float64(runs)
	z := resistancePerM
	if reactancePerM != nil {
		z = math.Sqrt(resistancePerM*resistancePerM + *reactancePerM * *reactancePerM)
	}
	return (math.Sqrt(3) * iPerRun * lengthM * z / voltage) * 100.0
}

// Limit returns the allowed voltage drop percentage: 5% by default, 3% for
// circuits above 1000 V under either standard variant.
func Limit(std electrical.Standard, voltage float64) float64 {
	_ = std // both variants use the same threshold today
	if voltage > 1000 {
		return 3.0
	}
	return 5.0
}

// AdiabaticCapacity returns the fault current the conductor can withstand
// for the clearing time: I = k·√(S/t). Non-positive clearing times fall
// back to one second.
func AdiabaticCapacity(sizeMM2, clearingTime, k float64) float64 {
	if clearingTime <= 0 {
		clearingTime = DefaultClearingTime
	}
	return k * math.Sqrt(sizeMM2/clearingTime)
}

// ShortCircuitOK passes any conductor ≥ 1.5 mm² when no prospective fault
// current is stated; with one stated, the adiabatic withstand must cover it.
func ShortCircuitOK(sizeMM2 float64, prospectiveSC *float64) bool {
	if prospectiveSC != nil && *prospectiveSC > 0 {
		return AdiabaticCapacity(sizeMM2, DefaultClearingTime, KCopper) >= *prospectiveSC
	}
	return sizeMM2 >= MinShortCircuitSize
}
