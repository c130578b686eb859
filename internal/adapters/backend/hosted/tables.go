package hosted

import (
	"context"
	"net/http"
	"net/url"

	"pet-services-marketplace/internal/ports/backend"
)

const restPrefix = "/rest/v1/"

func (c *Client) Select(ctx context.Context, table string, filters ...backend.Filter) ([]map[string]any, error) {
	var out []map[string]any
	err := c.http.DoJSON(ctx, http.MethodGet, tablePath(table, filters), c.headers(""), nil, &out)
	if err != nil {
		return nil, asBackendError(err, backend.KindNoData)
	}
	return out, nil
}

func (c *Client) Insert(ctx context.Context, table string, row map[string]any) (map[string]any, error) {
	headers := c.headers("")
	headers["Prefer"] = "return=representation"

	var out []map[string]any
	err := c.http.DoJSON(ctx, http.MethodPost, tablePath(table, nil), headers, row, &out)
	if err != nil {
		return nil, asBackendError(err, backend.KindUpstream)
	}
	if len(out) == 0 {
		return map[string]any{}, nil
	}
	return out[0], nil
}

func (c *Client) Update(ctx context.Context, table string, changes map[string]any, filters ...backend.Filter) ([]map[string]any, error) {
	headers := c.headers("")
	headers["Prefer"] = "return=representation"

	var out []map[string]any
	err := c.http.DoJSON(ctx, http.MethodPatch, tablePath(table, filters), headers, changes, &out)
	if err != nil {
		return nil, asBackendError(err, backend.KindUpstream)
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, table string, filters ...backend.Filter) error {
	err := c.http.DoJSON(ctx, http.MethodDelete, tablePath(table, filters), c.headers(""), nil, nil)
	if err != nil {
		return asBackendError(err, backend.KindUpstream)
	}
	return nil
}

// tablePath arma /rest/v1/{table}?col=op.value&... con query encoding.
func tablePath(table string, filters []backend.Filter) string {
	path := restPrefix + url.PathEscape(table)
	if len(filters) == 0 {
		return path
	}

	q := url.Values{}
	for _, f := range filters {
		op := f.Op
		if op == "" {
			op = "eq"
		}
		q.Add(f.Column, op+"."+f.Value)
	}
	return path + "?" + q.Encode()
}
