package api

import (
	"context"
	"net/url"

	"trainingcal/internal/model"
)

// Categories fetches category metadata.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	if err := c.get(ctx, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Category fetches a single category by id.
func (c *Client) Category(ctx context.Context, id string) (model.Category, error) {
	var out model.Category
	if err := c.get(ctx, "/categories/"+url.PathEscape(id), nil, &out); err != nil {
		return model.Category{}, err
	}
	return out, nil
}

// InitializeCategories seeds the default categories (admin only).
func (c *Client) InitializeCategories(ctx context.Context) error {
	return c.post(ctx, "/categories/initialize", nil, nil)
}
