package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"routeflow-service/internal/domain"
	"routeflow-service/internal/platform/httpx"
	"routeflow-service/internal/platform/obs"
	"routeflow-service/internal/ports"
	"strconv"
	"strings"
	"time"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimGeocoder implements Geocoder using the OpenStreetMap Nominatim
// search API.
//
// Nominatim's usage policy requires an identifying User-Agent. Region, when
// set, is appended to every query to narrow results to one country.
// The geocoder is safe for concurrent use.
type NominatimGeocoder struct {
	retrier   *httpx.Retrier
	baseURL   string
	userAgent string
	region    string
}

func NewNominatimGeocoder(baseURL, userAgent, region string) (*NominatimGeocoder, error) {
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("nominatim user agent is empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultNominatimURL
	}

	return &NominatimGeocoder{
		retrier:   httpx.NewRetrier(&http.Client{Timeout: 10 * time.Second}),
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		region:    strings.TrimSpace(region),
	}, nil
}

func (n *NominatimGeocoder) query(address string) string {
	if n.region == "" {
		return address
	}
	return address + ", " + n.region
}

// Geocode resolves a single address to the top Nominatim match.
func (n *NominatimGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.nominatim")(&err)

	norm := Normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("geocode: address must be non-empty")
	}

	endpoint := n.baseURL + "/search"
	q := n.query(norm)

	resp, err := n.retrier.Do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", n.userAgent)
		req.Header.Set("Accept", "application/json")

		params := req.URL.Query()
		params.Set("q", q)
		params.Set("format", "jsonv2")
		params.Set("limit", "1")
		req.URL.RawQuery = params.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, err)
	}
	defer resp.Body.Close()

	var decoded []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: decode response: %w", norm, err)
	}

	if len(decoded) == 0 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, ports.ErrAddressNotFound)
	}

	lat, errLat := strconv.ParseFloat(decoded[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(decoded[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: invalid coordinate format: %w", norm, ports.ErrAddressNotFound)
	}

	coords := domain.Coordinates{Lat: lat, Lon: lon}
	if !coords.Valid() {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: coordinates out of range: %w", norm, ports.ErrAddressNotFound)
	}

	return coords, nil
}

// Normalize ensures consistent lookup and cache keys by collapsing whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
