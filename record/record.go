// Package record holds the simulation configuration record.
//
// The values are fixed at compile time. Record is a plain value type, so a
// copy handed to a caller can never alter what other callers read.
package record

import "math/big"

// Configuration constants. Density is untyped so it keeps exact constant
// precision until it is assigned; Record.DensityExtended gives it as a
// binary128 value.
const (
	SimulationName           = "Configuration test"
	SimulationOutput         = true
	BoxWidth         float32 = 12.0
	BoxHeight        float64 = 15.0
	Density                  = 23.0
	NumCells         int32   = 100
	NumGroups        uint64  = 2399495729
)

// ExtendedPrecision is the mantissa size, in bits, of an IEEE-754 binary128
// float. Density is declared with this precision.
const ExtendedPrecision = 113

// Record is the aggregate, read-only view of the configuration constants.
type Record struct {
	SimulationName   string
	SimulationOutput bool
	BoxWidth         float32
	BoxHeight        float64
	Density          float64
	NumCells         int32
	NumGroups        uint64
}

// Default returns the configuration record.
func Default() Record {
	return Record{
		SimulationName:   SimulationName,
		SimulationOutput: SimulationOutput,
		BoxWidth:         BoxWidth,
		BoxHeight:        BoxHeight,
		Density:          Density,
		NumCells:         NumCells,
		NumGroups:        NumGroups,
	}
}

// DensityExtended returns the density at binary128 precision. Each call
// returns a new value.
func (r Record) DensityExtended() *big.Float {
	return new(big.Float).SetPrec(ExtendedPrecision).SetFloat64(r.Density)
}
