package siesa

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const priceQueryName = "API_v2_ItemsPrecios"

// listBySede maps a warehouse code to the price list its storefront sells
// from. Unknown warehouses fall back to the general list.
var listBySede = map[string]string{
	"PV001": "P01",
	"00201": "P02",
	"00301": "P03",
	"00401": "P04",
	"00601": "P05",
	"00701": "P06",
	"00801": "P07",
}

const generalList = "GRAL"

// ListForSede resolves the price list assigned to a warehouse.
func ListForSede(sede string) string {
	if list, ok := listBySede[strings.TrimSpace(sede)]; ok {
		return list
	}
	return generalList
}

var standardUnits = map[string]struct{}{
	"UND":    {},
	"UN":     {},
	"UNID":   {},
	"UNIDAD": {},
}

func isStandardUnit(unit string) bool {
	_, ok := standardUnits[strings.ToUpper(strings.TrimSpace(unit))]
	return ok
}

// normalizeList reduces a price list code to a comparable number: the
// general list ("", "0", "GRAL") is 0, "P03" is 3, and codes without any
// digits are -1 so they never match a target.
func normalizeList(list string) int {
	list = strings.TrimSpace(list)
	if list == "" || list == "0" || list == generalList {
		return 0
	}
	var digits strings.Builder
	for _, r := range list {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return -1
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return -1
	}
	return n
}

// Price is the resolved selling price for an item.
type Price struct {
	List      string
	Unit      string
	Amount    decimal.Decimal
	Timestamp string
}

// ResolvePrice picks the best candidate out of a raw price row set. Rows
// outside company 1 or with non-positive prices are discarded; survivors are
// ranked by standard unit, then target list match, then general list, then
// newest timestamp. An empty candidate set resolves to nil.
func ResolvePrice(rows []PriceRow, targetList string) *Price {
	target := normalizeList(targetList)

	candidates := make([]Price, 0, len(rows))
	for _, row := range rows {
		if row.companyID() != 1 {
			continue
		}
		amount := decimal.NewFromFloat(float64(row.Price))
		if !amount.IsPositive() {
			continue
		}
		candidates = append(candidates, Price{
			List:      strings.TrimSpace(string(row.PriceList)),
			Unit:      strings.TrimSpace(string(row.Unit)),
			Amount:    amount,
			Timestamp: row.timestamp(),
		})
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		aStd, bStd := isStandardUnit(a.Unit), isStandardUnit(b.Unit)
		if aStd != bStd {
			return aStd
		}

		la, lb := normalizeList(a.List), normalizeList(b.List)
		if (la == target) != (lb == target) {
			return la == target
		}
		if (la == 0) != (lb == 0) {
			return la == 0
		}

		return a.Timestamp > b.Timestamp
	})

	best := candidates[0]
	return &best
}

// GetLivePrice fetches the current price rows for an item and resolves the
// best price for the given list. A nil result means the ERP has no usable
// price, which is not an error.
func (c *Client) GetLivePrice(ctx context.Context, item, targetList string) (*Price, error) {
	var rows []PriceRow
	if err := c.ExecuteQuery(ctx, priceQueryName, fmt.Sprintf("f120_id=%s", item), 1, &rows); err != nil {
		return nil, err
	}
	return ResolvePrice(rows, targetList), nil
}
