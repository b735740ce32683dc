package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/types"
)

const (
	summaryPath = "/dashboard/summary/"
	historyPath = "/edit_history/"
)

// DashboardSummary returns the backend's aggregate for the program as of the date.
func (c *Client) DashboardSummary(ctx context.Context, programID types.ID, asOf types.Date) (models.DashboardSummary, error) {
	var summary models.DashboardSummary
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  summaryPath,
		path:   summaryPath,
		query: url.Values{
			"program_id": []string{programID.String()},
			"as_of_date": []string{asOf.String()},
		},
	}, &summary)

	return summary, err
}

// EditHistory returns a page of the audit log, newest first.
func (c *Client) EditHistory(ctx context.Context, skip, limit int) ([]models.EditHistoryEntry, error) {
	entries := make([]models.EditHistoryEntry, 0)
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  historyPath,
		path:   historyPath,
		query: url.Values{
			"skip":  []string{strconv.Itoa(skip)},
			"limit": []string{strconv.Itoa(limit)},
		},
	}, &entries)

	return entries, err
}
