package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fintracker/fintrack/pkg/domain"
)

// MethodFilter narrows a finance method listing. Empty fields are omitted.
type MethodFilter struct {
	Category domain.Category
	Search   string
}

// Query encodes the filter as request parameters.
func (f MethodFilter) Query() url.Values {
	params := url.Values{}
	if f.Category != "" {
		params.Set("category", string(f.Category))
	}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	return params
}

// ListFinanceMethods fetches finance methods matching the filter.
func (c *Client) ListFinanceMethods(ctx context.Context, f MethodFilter) ([]domain.FinanceMethod, error) {
	path := "/finance-methods"
	if q := f.Query(); len(q) > 0 {
		path += "?" + q.Encode()
	}
	var methods []domain.FinanceMethod
	if err := c.get(ctx, path, false, &methods); err != nil {
		return nil, fmt.Errorf("client.ListFinanceMethods: %w", err)
	}
	return methods, nil
}

// GetFinanceMethod fetches a single finance method by ID.
func (c *Client) GetFinanceMethod(ctx context.Context, id string) (*domain.FinanceMethod, error) {
	var m domain.FinanceMethod
	if err := c.get(ctx, "/finance-methods/"+url.PathEscape(id), false, &m); err != nil {
		return nil, fmt.Errorf("client.GetFinanceMethod: %w", err)
	}
	return &m, nil
}

// CreateFinanceMethod creates a finance method. Admin only.
func (c *Client) CreateFinanceMethod(ctx context.Context, in domain.FinanceMethodInput) (*domain.FinanceMethod, error) {
	var created domain.FinanceMethod
	if err := c.post(ctx, "/finance-methods", true, in, &created); err != nil {
		return nil, fmt.Errorf("client.CreateFinanceMethod: %w", err)
	}
	return &created, nil
}

// UpdateFinanceMethod replaces a finance method's editable fields. Admin only.
func (c *Client) UpdateFinanceMethod(ctx context.Context, id string, in domain.FinanceMethodInput) (*domain.FinanceMethod, error) {
	var updated domain.FinanceMethod
	if err := c.doRequest(ctx, http.MethodPut, "/finance-methods/"+url.PathEscape(id), true, in, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateFinanceMethod: %w", err)
	}
	return &updated, nil
}

// DeleteFinanceMethod removes a finance method. Admin only.
func (c *Client) DeleteFinanceMethod(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/finance-methods/"+url.PathEscape(id), true, nil, nil); err != nil {
		return fmt.Errorf("client.DeleteFinanceMethod: %w", err)
	}
	return nil
}
