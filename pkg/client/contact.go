package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fintracker/fintrack/pkg/domain"
)

// SubmitContact sends an anonymous inquiry.
func (c *Client) SubmitContact(ctx context.Context, in domain.ContactInput) (*domain.Contact, error) {
	var created domain.Contact
	if err := c.post(ctx, "/contact", false, in, &created); err != nil {
		return nil, fmt.Errorf("client.SubmitContact: %w", err)
	}
	return &created, nil
}

// ListContacts returns every inquiry. Admin only.
func (c *Client) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	var contacts []domain.Contact
	if err := c.get(ctx, "/contact", true, &contacts); err != nil {
		return nil, fmt.Errorf("client.ListContacts: %w", err)
	}
	return contacts, nil
}

// UpdateContactStatus sets an inquiry's status. Admin only.
func (c *Client) UpdateContactStatus(ctx context.Context, id string, status domain.ContactStatus) (*domain.Contact, error) {
	var updated domain.Contact
	body := map[string]domain.ContactStatus{"status": status}
	if err := c.doRequest(ctx, http.MethodPut, "/contact/"+url.PathEscape(id), true, body, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateContactStatus: %w", err)
	}
	return &updated, nil
}

// DeleteContact removes an inquiry. Admin only.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/contact/"+url.PathEscape(id), true, nil, nil); err != nil {
		return fmt.Errorf("client.DeleteContact: %w", err)
	}
	return nil
}
