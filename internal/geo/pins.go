package geo

import (
	"net/url"
	"strconv"

	"github.com/foxxcyber/healthy-food/internal/models"
)

// DefaultCenter is the map center when the user position is unknown (Recife, PE)
var DefaultCenter = Position{Latitude: -8.0476, Longitude: -34.8688}

// City is appended to supplier addresses for directions
const City = "Recife, PE"

// Pin is a map marker
type Pin struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Label     string  `json:"label"`
	Category  string  `json:"category"`
	Color     string  `json:"color"`
	Address   string  `json:"address,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Distance  float64 `json:"distance,omitempty"`
	// Directions is a Google Maps link to the supplier
	Directions string `json:"directions,omitempty"`
}

// MapView is the data needed to draw the supplier map
type MapView struct {
	Center Position `json:"center"`
	Zoom   int      `json:"zoom"`
	Pins   []Pin    `json:"pins"`
}

const (
	userPinID    = "user"
	userCategory = "user"
	userColor    = "#706f18"
)

func pinColor(t models.SupplierType) string {
	switch t {
	case models.SupplierNaturalStore:
		return "#98a550"
	case models.SupplierMarket:
		return "#4285f4"
	default:
		return "#9c27b0"
	}
}

// BuildPins returns one pin per supplier plus a user pin when user is known.
// Suppliers without coordinates are placed at DefaultCenter.
func BuildPins(suppliers []models.Supplier, user *Position) []Pin {
	pins := make([]Pin, 0, len(suppliers)+1)
	if user != nil {
		pins = append(pins, Pin{
			ID:        userPinID,
			Latitude:  user.Latitude,
			Longitude: user.Longitude,
			Label:     "Sua Localização",
			Category:  userCategory,
			Color:     userColor,
		})
	}

	for _, s := range suppliers {
		lat, lng := s.Latitude, s.Longitude
		if lat == 0 && lng == 0 {
			lat, lng = DefaultCenter.Latitude, DefaultCenter.Longitude
		}
		pins = append(pins, Pin{
			ID:         strconv.Itoa(s.ID),
			Latitude:   lat,
			Longitude:  lng,
			Label:      s.Name,
			Category:   string(s.Type),
			Color:      pinColor(s.Type),
			Address:    s.Address,
			Rating:     s.Rating,
			Distance:   s.Distance,
			Directions: DirectionsURL(s),
		})
	}
	return pins
}

// BuildMap centers the map on the user when known, else on DefaultCenter
func BuildMap(suppliers []models.Supplier, user *Position) MapView {
	view := MapView{Center: DefaultCenter, Zoom: 11, Pins: BuildPins(suppliers, user)}
	if user != nil {
		view.Center = Position{Latitude: user.Latitude, Longitude: user.Longitude}
		view.Zoom = 13
	}
	return view
}

// DirectionsURL returns a Google Maps directions link to the supplier address
func DirectionsURL(s models.Supplier) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("destination", s.Address+", "+City)
	return "https://www.google.com/maps/dir/?" + q.Encode()
}
