package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Movements lists movements of one type.
func (c *Client) Movements(ctx context.Context, movementType string) ([]Movement, error) {
	var out []Movement
	path := "/movements?type=" + url.QueryEscape(movementType)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Movement fetches one movement with its items.
func (c *Client) Movement(ctx context.Context, id int64) (*Movement, error) {
	var out Movement
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/movements/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateMovement creates a movement and returns the stored record.
func (c *Client) CreateMovement(ctx context.Context, p MovementPayload) (*Movement, error) {
	var out Movement
	if err := c.do(ctx, http.MethodPost, "/movements", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMovement fully replaces a movement, items included. There is no
// partial item update on the backend; callers must always send the
// complete item collection.
func (c *Client) UpdateMovement(ctx context.Context, id int64, p MovementPayload) (*Movement, error) {
	var out Movement
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/movements/%d", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMovement removes a movement; its items are removed with it.
func (c *Client) DeleteMovement(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/movements/%d", id), nil, nil)
}

// StockReport requests the PDF stock report for the given filter.
func (c *Client) StockReport(ctx context.Context, req StockReportRequest) ([]byte, error) {
	return c.doPDF(ctx, "/reports/stock", req)
}
