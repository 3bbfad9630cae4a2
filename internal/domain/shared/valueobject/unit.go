package valueobject

import (
	"github.com/erp/costengine/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Unit is a value object identifying a unit of measurement.
// Every unit belongs to exactly one family, and carries a fixed multiplicative
// factor to that family's canonical unit. Conversion is only defined between
// units of the same family; cross-family conversion is always an error, never
// a silent approximation.
type Unit string

// Count family units (canonical: UN)
const (
	UnitUN   Unit = "UN"   // Single unit
	UnitDZ   Unit = "DZ"   // Dozen
	UnitPKG  Unit = "PKG"  // Package
	UnitBOX  Unit = "BOX"  // Box
	UnitPR   Unit = "PR"   // Pair
	UnitROLL Unit = "ROLL" // Roll
)

// Weight family units (canonical: KG)
const (
	UnitMG Unit = "MG"
	UnitG  Unit = "G"
	UnitKG Unit = "KG"
	UnitLB Unit = "LB"
)

// Volume family units (canonical: L)
const (
	UnitML   Unit = "ML"
	UnitL    Unit = "L"
	UnitM3   Unit = "M3"
	UnitCM3  Unit = "CM3"
	UnitOZFL Unit = "OZ_FL"
	UnitGAL  Unit = "GAL"
)

// Length family units (canonical: M)
const (
	UnitMM Unit = "MM"
	UnitCM Unit = "CM"
	UnitM  Unit = "M"
	UnitKM Unit = "KM"
	UnitIN Unit = "IN"
	UnitFT Unit = "FT"
	UnitYD Unit = "YD"
)

// Area family units (canonical: M2)
const (
	UnitCM2 Unit = "CM2"
	UnitM2  Unit = "M2"
	UnitIN2 Unit = "IN2"
	UnitFT2 Unit = "FT2"
	UnitYD2 Unit = "YD2"
)

// UnitFamily groups units that can be converted between each other
type UnitFamily string

const (
	FamilyCount  UnitFamily = "COUNT"
	FamilyWeight UnitFamily = "WEIGHT"
	FamilyVolume UnitFamily = "VOLUME"
	FamilyLength UnitFamily = "LENGTH"
	FamilyArea   UnitFamily = "AREA"
)

type unitSpec struct {
	family UnitFamily
	factor decimal.Decimal
}

// unitTable maps every known unit to its family and fixed factor to the
// family's canonical unit (1 of this unit == factor canonical units).
var unitTable = map[Unit]unitSpec{
	UnitUN:   {FamilyCount, decimal.NewFromInt(1)},
	UnitDZ:   {FamilyCount, decimal.NewFromInt(12)},
	UnitPR:   {FamilyCount, decimal.NewFromInt(2)},
	UnitPKG:  {FamilyCount, decimal.NewFromInt(1)},
	UnitBOX:  {FamilyCount, decimal.NewFromInt(1)},
	UnitROLL: {FamilyCount, decimal.NewFromInt(1)},

	UnitMG: {FamilyWeight, decimal.RequireFromString("0.000001")},
	UnitG:  {FamilyWeight, decimal.RequireFromString("0.001")},
	UnitKG: {FamilyWeight, decimal.NewFromInt(1)},
	UnitLB: {FamilyWeight, decimal.RequireFromString("0.45359237")},

	UnitML:   {FamilyVolume, decimal.RequireFromString("0.001")},
	UnitL:    {FamilyVolume, decimal.NewFromInt(1)},
	UnitM3:   {FamilyVolume, decimal.NewFromInt(1000)},
	UnitCM3:  {FamilyVolume, decimal.RequireFromString("0.001")},
	UnitOZFL: {FamilyVolume, decimal.RequireFromString("0.0295735295625")},
	UnitGAL:  {FamilyVolume, decimal.RequireFromString("3.785411784")},

	UnitMM: {FamilyLength, decimal.RequireFromString("0.001")},
	UnitCM: {FamilyLength, decimal.RequireFromString("0.01")},
	UnitM:  {FamilyLength, decimal.NewFromInt(1)},
	UnitKM: {FamilyLength, decimal.NewFromInt(1000)},
	UnitIN: {FamilyLength, decimal.RequireFromString("0.0254")},
	UnitFT: {FamilyLength, decimal.RequireFromString("0.3048")},
	UnitYD: {FamilyLength, decimal.RequireFromString("0.9144")},

	UnitCM2: {FamilyArea, decimal.RequireFromString("0.0001")},
	UnitM2:  {FamilyArea, decimal.NewFromInt(1)},
	UnitIN2: {FamilyArea, decimal.RequireFromString("0.00064516")},
	UnitFT2: {FamilyArea, decimal.RequireFromString("0.09290304")},
	UnitYD2: {FamilyArea, decimal.RequireFromString("0.83612736")},
}

// ErrUnknownUnit is returned when a unit code is not in the conversion table
var ErrUnknownUnit = shared.NewDomainError("UNKNOWN_UNIT", "Unit code is not recognized")

// IsValid returns true if the unit is a known unit code
func (u Unit) IsValid() bool {
	_, ok := unitTable[u]
	return ok
}

// Family returns the unit family this unit belongs to
func (u Unit) Family() (UnitFamily, error) {
	spec, ok := unitTable[u]
	if !ok {
		return "", ErrUnknownUnit
	}
	return spec.family, nil
}

// String returns the unit code
func (u Unit) String() string {
	return string(u)
}

// CanonicalUnit returns the canonical unit of the given family
func CanonicalUnit(family UnitFamily) Unit {
	switch family {
	case FamilyCount:
		return UnitUN
	case FamilyWeight:
		return UnitKG
	case FamilyVolume:
		return UnitL
	case FamilyLength:
		return UnitM
	default:
		return UnitM2
	}
}

// Converter resolves unit conversion factors. The zero value uses the fixed
// table; per-item overrides can replace the factor of the container-style
// count units (PKG, BOX, ROLL), whose table default of 1 is a placeholder
// rather than real packaging data.
type Converter struct {
	overrides map[Unit]decimal.Decimal
}

// NewConverter creates a Converter with per-unit factor overrides. Only
// overridable units are honored; all other units always use the fixed table.
func NewConverter(overrides map[Unit]decimal.Decimal) Converter {
	return Converter{overrides: overrides}
}

// IsOverridable returns true for units whose factor may vary per item
func IsOverridable(u Unit) bool {
	switch u {
	case UnitPKG, UnitBOX, UnitROLL:
		return true
	}
	return false
}

func (c Converter) factor(u Unit) (decimal.Decimal, error) {
	spec, ok := unitTable[u]
	if !ok {
		return decimal.Zero, ErrUnknownUnit
	}
	if IsOverridable(u) {
		if f, ok := c.overrides[u]; ok && f.IsPositive() {
			return f, nil
		}
	}
	return spec.factor, nil
}

// ToCanonical converts a quantity from the given unit to the family's
// canonical unit.
func (c Converter) ToCanonical(qty decimal.Decimal, u Unit) (decimal.Decimal, error) {
	f, err := c.factor(u)
	if err != nil {
		return decimal.Zero, err
	}
	return qty.Mul(f), nil
}

// Convert converts a quantity between two units of the same family.
// Returns ErrIncompatibleUnits when the units belong to different families.
// Identity conversions short-circuit so they never lose precision.
func (c Converter) Convert(qty decimal.Decimal, from, to Unit) (decimal.Decimal, error) {
	if from == to {
		if !from.IsValid() {
			return decimal.Zero, ErrUnknownUnit
		}
		return qty, nil
	}
	fromFamily, err := from.Family()
	if err != nil {
		return decimal.Zero, err
	}
	toFamily, err := to.Family()
	if err != nil {
		return decimal.Zero, err
	}
	if fromFamily != toFamily {
		return decimal.Zero, shared.ErrIncompatibleUnits
	}

	fromFactor, err := c.factor(from)
	if err != nil {
		return decimal.Zero, err
	}
	toFactor, err := c.factor(to)
	if err != nil {
		return decimal.Zero, err
	}
	if toFactor.IsZero() {
		return decimal.Zero, shared.ErrDivisionByZero
	}
	return qty.Mul(fromFactor).Div(toFactor), nil
}

// ConvertUnitPrice converts a price per unit between two units of the same
// family. The ratio is the inverse of quantity conversion: a price per KG
// becomes a thousandth of itself per G, while a quantity in KG becomes a
// thousand times itself in G.
func (c Converter) ConvertUnitPrice(price decimal.Decimal, from, to Unit) (decimal.Decimal, error) {
	if from == to {
		if !from.IsValid() {
			return decimal.Zero, ErrUnknownUnit
		}
		return price, nil
	}
	fromFamily, err := from.Family()
	if err != nil {
		return decimal.Zero, err
	}
	toFamily, err := to.Family()
	if err != nil {
		return decimal.Zero, err
	}
	if fromFamily != toFamily {
		return decimal.Zero, shared.ErrIncompatibleUnits
	}

	fromFactor, err := c.factor(from)
	if err != nil {
		return decimal.Zero, err
	}
	toFactor, err := c.factor(to)
	if err != nil {
		return decimal.Zero, err
	}
	if fromFactor.IsZero() {
		return decimal.Zero, shared.ErrDivisionByZero
	}
	return price.Mul(toFactor).Div(fromFactor), nil
}

// Package-level helpers using the fixed table without overrides

// Convert converts a quantity between two units of the same family
func Convert(qty decimal.Decimal, from, to Unit) (decimal.Decimal, error) {
	return Converter{}.Convert(qty, from, to)
}

// ConvertUnitPrice converts a per-unit price between two units of the same family
func ConvertUnitPrice(price decimal.Decimal, from, to Unit) (decimal.Decimal, error) {
	return Converter{}.ConvertUnitPrice(price, from, to)
}

// ToCanonical converts a quantity to the family's canonical unit
func ToCanonical(qty decimal.Decimal, u Unit) (decimal.Decimal, error) {
	return Converter{}.ToCanonical(qty, u)
}

// Round2 rounds a monetary amount to 2 decimal places, half away from zero.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
