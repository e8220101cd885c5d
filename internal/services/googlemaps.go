package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	geocodeAPIURL  = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultTimeout = 10 * time.Second
)

var (
	ErrNoResults      = errors.New("no results found")
	ErrAPIError       = errors.New("google maps api error")
	ErrInvalidAPIKey  = errors.New("invalid or missing api key")
	ErrRequestDenied  = errors.New("request denied by google api")
	ErrOverQueryLimit = errors.New("over query limit")
	ErrInvalidRequest = errors.New("invalid request")
)

// GoogleMapsService resolves coordinates and addresses with the Geocoding API
type GoogleMapsService struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

// GeocodingResult represents the result of a geocoding operation
type GeocodingResult struct {
	FormattedAddress string            `json:"formatted_address"`
	Latitude         float64           `json:"latitude"`
	Longitude        float64           `json:"longitude"`
	PlaceID          string            `json:"place_id"`
	Components       AddressComponents `json:"components"`
}

// AddressComponents contains parsed address components
type AddressComponents struct {
	StreetNumber string `json:"street_number,omitempty"`
	Route        string `json:"route,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	StateCode    string `json:"state_code,omitempty"`
	Country      string `json:"country,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
}

// Short renders "Route, Number - Neighborhood" falling back to the city
func (a AddressComponents) Short() string {
	street := a.Route
	if street != "" && a.StreetNumber != "" {
		street += ", " + a.StreetNumber
	}
	parts := []string{}
	if street != "" {
		parts = append(parts, street)
	}
	if a.Neighborhood != "" {
		parts = append(parts, a.Neighborhood)
	}
	if len(parts) == 0 && a.City != "" {
		parts = append(parts, a.City)
	}
	return strings.Join(parts, " - ")
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		PlaceID          string `json:"place_id"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		AddressComponents []addressComponent `json:"address_components"`
	} `json:"results"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type addressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// GoogleMapsOption configures a GoogleMapsService
type GoogleMapsOption func(*GoogleMapsService)

// WithGeocodeURL points the service at another endpoint
func WithGeocodeURL(u string) GoogleMapsOption {
	return func(s *GoogleMapsService) {
		s.baseURL = u
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) GoogleMapsOption {
	return func(s *GoogleMapsService) {
		s.httpClient = c
	}
}

// NewGoogleMapsService creates a new Google Maps service
func NewGoogleMapsService(apiKey string, opts ...GoogleMapsOption) *GoogleMapsService {
	s := &GoogleMapsService{
		apiKey:     apiKey,
		baseURL:    geocodeAPIURL,
		language:   "pt-BR",
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enabled reports whether an API key is configured
func (s *GoogleMapsService) Enabled() bool {
	return s != nil && s.apiKey != ""
}

// Geocode converts an address to coordinates
func (s *GoogleMapsService) Geocode(ctx context.Context, address string) (*GeocodingResult, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("region", "br")
	return s.geocode(ctx, params)
}

// ReverseGeocode converts coordinates to an address
func (s *GoogleMapsService) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodingResult, error) {
	params := url.Values{}
	params.Set("latlng", fmt.Sprintf("%f,%f", lat, lng))
	return s.geocode(ctx, params)
}

func (s *GoogleMapsService) geocode(ctx context.Context, params url.Values) (*GeocodingResult, error) {
	if s.apiKey == "" {
		return nil, ErrInvalidAPIKey
	}
	params.Set("key", s.apiKey)
	params.Set("language", s.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	var geocodeResp geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&geocodeResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if err := checkGoogleAPIStatus(geocodeResp.Status, geocodeResp.ErrorMessage); err != nil {
		return nil, err
	}
	if len(geocodeResp.Results) == 0 {
		return nil, ErrNoResults
	}

	result := geocodeResp.Results[0]
	return &GeocodingResult{
		FormattedAddress: result.FormattedAddress,
		Latitude:         result.Geometry.Location.Lat,
		Longitude:        result.Geometry.Location.Lng,
		PlaceID:          result.PlaceID,
		Components:       parseAddressComponents(result.AddressComponents),
	}, nil
}

func parseAddressComponents(components []addressComponent) AddressComponents {
	ac := AddressComponents{}
	for _, c := range components {
		for _, t := range c.Types {
			switch t {
			case "street_number":
				ac.StreetNumber = c.LongName
			case "route":
				ac.Route = c.LongName
			case "sublocality", "sublocality_level_1", "neighborhood":
				if ac.Neighborhood == "" {
					ac.Neighborhood = c.LongName
				}
			case "administrative_area_level_2":
				if ac.City == "" {
					ac.City = c.LongName
				}
			case "locality":
				ac.City = c.LongName
			case "administrative_area_level_1":
				ac.State = c.LongName
				ac.StateCode = c.ShortName
			case "country":
				ac.Country = c.LongName
				ac.CountryCode = c.ShortName
			case "postal_code":
				ac.PostalCode = c.LongName
			}
		}
	}
	return ac
}

// checkGoogleAPIStatus converts Google API status codes to errors
func checkGoogleAPIStatus(status, errorMessage string) error {
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS":
		return ErrNoResults
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return ErrOverQueryLimit
	case "REQUEST_DENIED":
		if errorMessage != "" {
			return fmt.Errorf("%w: %s", ErrRequestDenied, errorMessage)
		}
		return ErrRequestDenied
	case "INVALID_REQUEST":
		if errorMessage != "" {
			return fmt.Errorf("%w: %s", ErrInvalidRequest, errorMessage)
		}
		return ErrInvalidRequest
	default:
		if errorMessage != "" {
			return fmt.Errorf("%w: %s - %s", ErrAPIError, status, errorMessage)
		}
		return fmt.Errorf("%w: %s", ErrAPIError, status)
	}
}
