package woo

import "context"

// Sales returns the aggregated sales report for a period ("week", "month",
// "last_month", "year"). A period with no data yields nil, and so does a
// fetch failure: the stats are decorative, not worth failing a page over.
func (c *Client) Sales(ctx context.Context, period string) (*SalesReport, error) {
	if period == "" {
		period = "month"
	}

	var reports []SalesReport
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("period", period).
		SetResult(&reports).
		Get("/reports/sales")
	if err != nil || resp.IsError() {
		c.logger.Warn(ctx, "sales report unavailable, continuing without stats")
		return nil, nil
	}
	if len(reports) == 0 {
		return nil, nil
	}
	return &reports[0], nil
}
