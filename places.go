package roamauth

import (
	"context"
	"net/http"
	"net/url"
)

// Place is a destination entry from the places feed. The backend enriches
// each entry from an external place directory, so most fields are optional.
type Place struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           float64  `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total,omitempty"`
	PriceLevel       int      `json:"price_level,omitempty"`
	Types            []string `json:"types,omitempty"`
	URL              string   `json:"url,omitempty"`
	PhotoURL         string   `json:"photo_url,omitempty"`
}

type placesResponse struct {
	Places []Place `json:"places"`
}

type placeDetailsResponse struct {
	PlaceDetails Place `json:"place_details"`
}

// Places fetches the destination feed curated for the authenticated user's
// preferences. Requires an authenticated session.
func (c *Client) Places(ctx context.Context) ([]Place, error) {
	var pr placesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/places/", nil, &pr, "failed to fetch places"); err != nil {
		return nil, err
	}
	return pr.Places, nil
}

// PlaceDetails fetches the full record for a single place.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (*Place, error) {
	if placeID == "" {
		return nil, &ServerError{Message: "place id is required"}
	}

	var pr placeDetailsResponse
	path := "/places/" + url.PathEscape(placeID) + "/"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &pr, "failed to fetch place details"); err != nil {
		return nil, err
	}
	return &pr.PlaceDetails, nil
}
