package roamauth

import (
	"context"
	"fmt"
	"net/http"
)

// CodeName is a code/label pair used by the local-host constant catalogues.
type CodeName struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// HostConstants lists the valid service, document, and status codes for
// local-host applications.
type HostConstants struct {
	Services  []CodeName `json:"services"`
	Documents []CodeName `json:"documents"`
	Statuses  []CodeName `json:"statuses"`
}

// HostApplication is the payload for applying to become a local host.
// Field names follow the backend's snake_case wire contract; service and
// document codes must come from [Client.HostConstants].
type HostApplication struct {
	FullName           string   `json:"full_name"`
	Age                int      `json:"age"`
	Address            string   `json:"address"`
	PhoneNumber        string   `json:"phone_number"`
	AadhaarNumber      string   `json:"aadhaar_number"`
	PANNumber          string   `json:"pan_number"`
	ServicesOffered    []string `json:"services_offered"`
	CustomService      string   `json:"custom_service,omitempty"`
	ServiceDescription string   `json:"service_description"`
	ExperienceYears    int      `json:"experience_years,omitempty"`
	PriceRange         string   `json:"price_range,omitempty"`
	Availability       string   `json:"availability,omitempty"`
	DocumentsProvided  []string `json:"documents_provided"`
}

// HostApplicationReceipt acknowledges a submitted application.
type HostApplicationReceipt struct {
	Message       string `json:"message"`
	ApplicationID int    `json:"application_id"`
	Status        string `json:"status"`
}

// HostProfile is the applicant's own view of their local-host record.
type HostProfile struct {
	ID                 int      `json:"id"`
	User               string   `json:"user"`
	FullName           string   `json:"full_name"`
	Age                int      `json:"age"`
	Address            string   `json:"address"`
	PhoneNumber        string   `json:"phone_number"`
	ServicesOffered    []string `json:"services_offered"`
	ServiceNames       []string `json:"service_names"`
	CustomService      string   `json:"custom_service,omitempty"`
	ServiceDescription string   `json:"service_description"`
	ExperienceYears    int      `json:"experience_years,omitempty"`
	PriceRange         string   `json:"price_range,omitempty"`
	Availability       string   `json:"availability,omitempty"`
	Status             string   `json:"status"`
	IsApproved         bool     `json:"is_approved"`
	ApplicationDate    string   `json:"application_date"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

// HostApplicationStatus reports whether the current user has an application
// on file, and its record when they do.
type HostApplicationStatus struct {
	HasApplication bool         `json:"has_application"`
	Application    *HostProfile `json:"application"`
}

// HostReview is a traveler review attached to a local host.
type HostReview struct {
	ID           int    `json:"id"`
	ReviewerName string `json:"reviewer_name"`
	Rating       int    `json:"rating"`
	ReviewText   string `json:"review_text"`
	ServiceType  string `json:"service_type"`
	CreatedAt    string `json:"created_at"`
}

// LocalHost is the public browse/search view of an approved host.
type LocalHost struct {
	ID                 int          `json:"id"`
	FullName           string       `json:"full_name"`
	ServicesOffered    []string     `json:"services_offered"`
	ServiceNames       []string     `json:"service_names"`
	CustomService      string       `json:"custom_service,omitempty"`
	ServiceDescription string       `json:"service_description"`
	ExperienceYears    int          `json:"experience_years,omitempty"`
	PriceRange         string       `json:"price_range,omitempty"`
	Availability       string       `json:"availability,omitempty"`
	AverageRating      *float64     `json:"average_rating"`
	ReviewCount        int          `json:"review_count"`
	RecentReviews      []HostReview `json:"recent_reviews,omitempty"`
}

// LocalHostPage is one page of the public local-host directory.
type LocalHostPage struct {
	Count    int         `json:"count"`
	Next     string      `json:"next"`
	Previous string      `json:"previous"`
	Results  []LocalHost `json:"results"`
}

// LocalHostFilter narrows a directory listing. The zero value lists the
// first page unfiltered.
type LocalHostFilter struct {
	Services string
	Search   string
	Page     int
}

// BookingRequest asks an approved host for a service booking.
type BookingRequest struct {
	LocalHost       int    `json:"local_host"`
	ServiceType     string `json:"service_type"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	NumberOfPeople  int    `json:"number_of_people"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

// Booking is a traveler's booking record with a local host.
type Booking struct {
	ID              int    `json:"id"`
	LocalHost       int    `json:"local_host"`
	LocalHostName   string `json:"local_host_name"`
	TravelerName    string `json:"traveler_name"`
	ServiceType     string `json:"service_type"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	NumberOfPeople  int    `json:"number_of_people"`
	SpecialRequests string `json:"special_requests,omitempty"`
	QuotedPrice     string `json:"quoted_price,omitempty"`
	FinalPrice      string `json:"final_price,omitempty"`
	Status          string `json:"status"`
	HostResponse    string `json:"host_response,omitempty"`
	TravelerNotes   string `json:"traveler_notes,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// BookingPage is one page of the traveler's booking history.
type BookingPage struct {
	Count    int       `json:"count"`
	Next     string    `json:"next"`
	Previous string    `json:"previous"`
	Results  []Booking `json:"results"`
}

// HostConstants fetches the valid service, document, and status codes.
// Public endpoint.
func (c *Client) HostConstants(ctx context.Context) (*HostConstants, error) {
	var out HostConstants
	if err := c.doJSON(ctx, http.MethodGet, "/local-hosts/constants/", nil, &out, "failed to fetch constants", WithoutAuth()); err != nil {
		return nil, err
	}
	return &out, nil
}

// LocalHosts browses the public directory of approved hosts. Public
// endpoint; filters are optional.
func (c *Client) LocalHosts(ctx context.Context, filter LocalHostFilter) (*LocalHostPage, error) {
	opts := []RequestOption{WithoutAuth()}
	if filter.Services != "" {
		opts = append(opts, WithQuery("services", filter.Services))
	}
	if filter.Search != "" {
		opts = append(opts, WithQuery("search", filter.Search))
	}
	if filter.Page > 0 {
		opts = append(opts, WithQuery("page", fmt.Sprintf("%d", filter.Page)))
	}

	var out LocalHostPage
	if err := c.doJSON(ctx, http.MethodGet, "/local-hosts/", nil, &out, "failed to fetch local hosts", opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

// LocalHostDetail fetches one host's public record including recent
// reviews. Public endpoint.
func (c *Client) LocalHostDetail(ctx context.Context, id int) (*LocalHost, error) {
	var out LocalHost
	path := fmt.Sprintf("/local-hosts/%d/", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, "failed to fetch local host details", WithoutAuth()); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitHostApplication applies to become a local host. Requires an
// authenticated session; backend validation failures arrive as a
// [*ServerError] with one line per rejected field.
func (c *Client) SubmitHostApplication(ctx context.Context, app HostApplication) (*HostApplicationReceipt, error) {
	var out HostApplicationReceipt
	if err := c.doJSON(ctx, http.MethodPost, "/local-hosts/apply/", app, &out, "application submission failed"); err != nil {
		return nil, err
	}
	return &out, nil
}

// HostApplicationStatus reports the authenticated user's application state.
func (c *Client) HostApplicationStatus(ctx context.Context) (*HostApplicationStatus, error) {
	var out HostApplicationStatus
	if err := c.doJSON(ctx, http.MethodGet, "/local-hosts/status/", nil, &out, "failed to fetch application status"); err != nil {
		return nil, err
	}
	return &out, nil
}

// HostProfile fetches the authenticated user's own local-host record.
func (c *Client) HostProfile(ctx context.Context) (*HostProfile, error) {
	var out HostProfile
	if err := c.doJSON(ctx, http.MethodGet, "/local-hosts/profile/", nil, &out, "failed to fetch profile"); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBooking books a service with an approved host. Requires an
// authenticated session.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (*Booking, error) {
	var out Booking
	if err := c.doJSON(ctx, http.MethodPost, "/local-hosts/bookings/create/", req, &out, "failed to create booking"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Bookings fetches the authenticated traveler's booking history.
func (c *Client) Bookings(ctx context.Context) (*BookingPage, error) {
	var out BookingPage
	if err := c.doJSON(ctx, http.MethodGet, "/local-hosts/bookings/", nil, &out, "failed to fetch bookings"); err != nil {
		return nil, err
	}
	return &out, nil
}
