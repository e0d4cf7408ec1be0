package siesa

import (
	"context"
	"fmt"
	"strings"
)

const stockQueryName = "API_v2_Inventarios_InvFecha"

// Stock is the inventory position of an item at a single warehouse.
type Stock struct {
	OnHand    float64
	Committed float64
	Available float64
}

// AggregateStock sums the inventory rows belonging to company 1 and the
// given warehouse. Committed units are subtracted from on-hand to yield the
// sellable quantity. No matching rows yields a zero position.
func AggregateStock(rows []StockRow, sede string) Stock {
	sede = strings.TrimSpace(sede)

	var stock Stock
	for _, row := range rows {
		if row.companyID() != 1 {
			continue
		}
		if strings.TrimSpace(string(row.Sede)) != sede {
			continue
		}
		stock.OnHand += float64(row.OnHand)
		stock.Committed += float64(row.Committed)
	}
	stock.Available = stock.OnHand - stock.Committed
	return stock
}

// GetLiveStock fetches the current inventory rows for an item and aggregates
// the position at one warehouse.
func (c *Client) GetLiveStock(ctx context.Context, item, sede string) (Stock, error) {
	var rows []StockRow
	if err := c.ExecuteQuery(ctx, stockQueryName, fmt.Sprintf("f120_id=%s", item), 1, &rows); err != nil {
		return Stock{}, err
	}
	return AggregateStock(rows, sede), nil
}
