package inventory

import (
	"fmt"

	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Unit is the display unit an operator enters quantities in.
// Stock is always stored in the unit's base unit (g, ml or piece).
type Unit string

const (
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitPiece      Unit = "piece"
	UnitLiter      Unit = "liter"
	UnitMilliliter Unit = "ml"
)

var thousand = decimal.NewFromInt(1000)

// AllUnits returns every supported unit
func AllUnits() []Unit {
	return []Unit{UnitGram, UnitKilogram, UnitPiece, UnitLiter, UnitMilliliter}
}

// IsValid checks if the unit is supported
func (u Unit) IsValid() bool {
	switch u {
	case UnitGram, UnitKilogram, UnitPiece, UnitLiter, UnitMilliliter:
		return true
	}
	return false
}

// String returns the string representation
func (u Unit) String() string {
	return string(u)
}

// BaseUnit returns the canonical storage unit
func (u Unit) BaseUnit() Unit {
	switch u {
	case UnitKilogram:
		return UnitGram
	case UnitLiter:
		return UnitMilliliter
	default:
		return u
	}
}

// Factor returns how many base units one display unit holds
func (u Unit) Factor() decimal.Decimal {
	switch u {
	case UnitKilogram, UnitLiter:
		return thousand
	default:
		return decimal.NewFromInt(1)
	}
}

// CompatibleWith reports whether quantities in u can be applied to stock kept in other
func (u Unit) CompatibleWith(other Unit) bool {
	return u.BaseUnit() == other.BaseUnit()
}

// ParseUnit validates a raw unit string
func ParseUnit(s string) (Unit, error) {
	u := Unit(s)
	if !u.IsValid() {
		return "", shared.NewValidationError(fmt.Sprintf("invalid unit %q, expected one of g, kg, piece, liter, ml", s))
	}
	return u, nil
}

// ToBaseUnit converts a quantity entered in unit to its base-unit magnitude
func ToBaseUnit(quantity decimal.Decimal, unit Unit) (decimal.Decimal, error) {
	if !unit.IsValid() {
		return decimal.Zero, shared.NewValidationError(fmt.Sprintf("invalid unit %q", unit))
	}
	return quantity.Mul(unit.Factor()), nil
}

// FromBaseUnit converts a base-unit magnitude back into unit
func FromBaseUnit(baseQuantity decimal.Decimal, unit Unit) decimal.Decimal {
	return baseQuantity.Div(unit.Factor())
}

// FormatQuantity renders a base-unit quantity for display.
// Gram and millilitre amounts of 1000 or more are shown in kg and liter.
func FormatQuantity(baseQuantity decimal.Decimal, unit Unit) string {
	base := unit.BaseUnit()
	switch {
	case base == UnitGram && baseQuantity.GreaterThanOrEqual(thousand):
		return baseQuantity.Div(thousand).StringFixed(2) + " " + string(UnitKilogram)
	case base == UnitMilliliter && baseQuantity.GreaterThanOrEqual(thousand):
		return baseQuantity.Div(thousand).StringFixed(2) + " " + string(UnitLiter)
	default:
		return baseQuantity.String() + " " + string(base)
	}
}
