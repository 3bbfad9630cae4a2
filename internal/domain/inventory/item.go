package inventory

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/erp/costengine/internal/domain/shared"
	"github.com/erp/costengine/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// UnitOverrides holds per-item conversion factors for container-style count
// units (PKG, BOX, ROLL), whose global table factor of 1 is a placeholder.
// Stored as a JSON column.
type UnitOverrides map[valueobject.Unit]decimal.Decimal

// Value implements driver.Valuer for database storage
func (o UnitOverrides) Value() (driver.Value, error) {
	if len(o) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (o *UnitOverrides) Scan(value any) error {
	if value == nil {
		*o = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into UnitOverrides", value)
	}
	return json.Unmarshal(data, o)
}

// Item identifies a trackable good. All stock quantities and unit costs for
// the item are canonically expressed in BaseUnit; DisplayUnit is a UI
// preference in the same family. BaseUnit must not be edited directly once
// cost layers exist for the item - changing it is the job of the re-costing
// engine.
type Item struct {
	shared.BaseEntity
	SKU                  string `gorm:"uniqueIndex"`
	Name                 string
	BaseUnit             valueobject.Unit
	DisplayUnit          valueobject.Unit
	InventoryAccountCode string // empty = use configured default
	COGSAccountCode      string // empty = use configured default
	UnitOverrides        UnitOverrides `gorm:"type:text"`
}

// NewItem creates a new item. BaseUnit and DisplayUnit must belong to the
// same unit family.
func NewItem(sku, name string, baseUnit, displayUnit valueobject.Unit) (*Item, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item SKU cannot be empty")
	}
	baseFamily, err := baseUnit.Family()
	if err != nil {
		return nil, err
	}
	displayFamily, err := displayUnit.Family()
	if err != nil {
		return nil, err
	}
	if baseFamily != displayFamily {
		return nil, shared.ErrIncompatibleUnits
	}
	return &Item{
		BaseEntity:  shared.NewBaseEntity(),
		SKU:         sku,
		Name:        name,
		BaseUnit:    baseUnit,
		DisplayUnit: displayUnit,
	}, nil
}

// Converter returns a unit converter carrying this item's factor overrides
func (i *Item) Converter() valueobject.Converter {
	return valueobject.NewConverter(i.UnitOverrides)
}

// ToBaseUnit converts a quantity recorded in the given unit to the item's
// base unit. Fails with ErrIncompatibleUnits when the unit is outside the
// base unit's family.
func (i *Item) ToBaseUnit(qty decimal.Decimal, unit valueobject.Unit) (decimal.Decimal, error) {
	return i.Converter().Convert(qty, unit, i.BaseUnit)
}

// PriceToBaseUnit converts a per-unit price recorded in the given unit to a
// price per base unit.
func (i *Item) PriceToBaseUnit(price decimal.Decimal, unit valueobject.Unit) (decimal.Decimal, error) {
	return i.Converter().ConvertUnitPrice(price, unit, i.BaseUnit)
}
