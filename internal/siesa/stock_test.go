package siesa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateStockSumsMatchingRows(t *testing.T) {
	rows := []StockRow{
		{Sede: "PV001", OnHand: 10, Committed: 2},
		{Sede: " PV001 ", OnHand: 5, Committed: 1},
		{Sede: "00201", OnHand: 100, Committed: 50},
	}

	got := AggregateStock(rows, "PV001")
	assert.Equal(t, Stock{OnHand: 15, Committed: 3, Available: 12}, got)
}

func TestAggregateStockFiltersOtherCompanies(t *testing.T) {
	other := FlexNumber(2)
	rows := []StockRow{
		{CompanyID: &other, Sede: "PV001", OnHand: 99},
		{Sede: "PV001", OnHand: 4},
	}

	got := AggregateStock(rows, "PV001")
	assert.Equal(t, Stock{OnHand: 4, Committed: 0, Available: 4}, got)
}

func TestAggregateStockNoRowsYieldsZeroPosition(t *testing.T) {
	assert.Equal(t, Stock{}, AggregateStock(nil, "PV001"))
	assert.Equal(t, Stock{}, AggregateStock([]StockRow{{Sede: "00301", OnHand: 7}}, "PV001"))
}

func TestAggregateStockCommittedCanExceedOnHand(t *testing.T) {
	rows := []StockRow{{Sede: "PV001", OnHand: 3, Committed: 8}}
	got := AggregateStock(rows, "PV001")
	assert.Equal(t, -5.0, got.Available)
}
