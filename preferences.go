package roamauth

import (
	"context"
	"net/http"
)

// Districts fetches the preference catalogue of districts. The catalogue is
// public; no session is required, so signup forms can populate before any
// account exists.
func (c *Client) Districts(ctx context.Context) ([]District, error) {
	var out []District
	if err := c.doJSON(ctx, http.MethodGet, "/preferences/districts/", nil, &out, "failed to fetch districts", WithoutAuth()); err != nil {
		return nil, err
	}
	return out, nil
}

// Geographies fetches the preference catalogue of geography types. Public,
// like [Client.Districts].
func (c *Client) Geographies(ctx context.Context) ([]Geography, error) {
	var out []Geography
	if err := c.doJSON(ctx, http.MethodGet, "/preferences/geographies/", nil, &out, "failed to fetch geographies", WithoutAuth()); err != nil {
		return nil, err
	}
	return out, nil
}
