package roamauth

import (
	"context"
	"net/http"
)

// GetProfile fetches the authenticated user's profile from the backend and
// refreshes the in-memory session's user record with the result. The stored
// user JSON is updated too, so the next hydration sees the fresh copy.
func (c *Client) GetProfile(ctx context.Context) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, c.config.API.ProfilePath, nil, &user, "failed to get user profile"); err != nil {
		return nil, err
	}

	snap := c.Session()
	if snap.IsAuthenticated {
		c.state.setAuthenticated(&user, snap.AccessToken)
		if err := c.persistUser(ctx, &user); err != nil {
			// The session already carries the fresh record; storage catches
			// up on the next successful write.
			return &user, nil
		}
	}

	return &user, nil
}
