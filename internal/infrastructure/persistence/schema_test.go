package persistence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/erp/costengine/internal/domain/inventory"
	"github.com/erp/costengine/internal/domain/ledger"
)

// Amount columns must migrate as SQL decimals, not as the text type GORM
// would infer from the Valuer. Predicates like remaining_qty > 0 and any
// SQL-side aggregation are only valid against numeric columns.
func TestDecimalColumnTypes(t *testing.T) {
	cache := &sync.Map{}
	namer := schema.NamingStrategy{}

	cases := []struct {
		name   string
		model  any
		fields []string
	}{
		{"cost layer", &inventory.CostLayer{}, []string{"RemainingQty", "UnitCost"}},
		{"receipt move", &inventory.ReceiptMove{}, []string{"Quantity", "UnitCost"}},
		{"consumption", &inventory.Consumption{}, []string{"Qty", "UnitCost"}},
		{"journal line", &ledger.JournalLine{}, []string{"Debit", "Credit"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := schema.Parse(tc.model, cache, namer)
			require.NoError(t, err)

			for _, fieldName := range tc.fields {
				field := parsed.LookUpField(fieldName)
				require.NotNil(t, field, "field %s not found", fieldName)
				assert.Contains(t, string(field.DataType), "decimal",
					"%s.%s must be a decimal column", parsed.Name, fieldName)
				assert.True(t, field.NotNull, "%s.%s must be NOT NULL", parsed.Name, fieldName)
			}
		})
	}
}
