package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Geolocator resolves an approximate current position over a
// GeoIP-style JSON endpoint. It is the getCurrentLocation collaborator
// behind the "use my location" helper.
type Geolocator struct {
	req *http.Request
}

type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func InitGeolocator(endpoint string) (Geolocator, error) {
	if endpoint == "" {
		return Geolocator{}, fmt.Errorf("InitGeolocator: endpoint is blank")
	}
	var err error
	var geolocator Geolocator
	geolocator.req, err = http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return Geolocator{}, fmt.Errorf("InitGeolocator: failed to create request: %w", err)
	}
	geolocator.req.Header.Set("Accept", "application/json")
	return geolocator, nil
}

func (g *Geolocator) Current() (Position, error) {
	resp, err := http.DefaultClient.Do(g.req)
	if err != nil {
		return Position{}, fmt.Errorf("(*Geolocator).Current: failed to do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Position{}, fmt.Errorf("(*Geolocator).Current: bad status code: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Position{}, fmt.Errorf("(*Geolocator).Current: failed to read body: %w", err)
	}

	var respBody struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.Unmarshal(body, &respBody); err != nil {
		return Position{}, fmt.Errorf("(*Geolocator).Current: failed to unmarshal response: %w", err)
	}
	if respBody.Status != "success" {
		return Position{}, fmt.Errorf("(*Geolocator).Current: position unavailable: %s", respBody.Message)
	}

	return Position{Latitude: respBody.Lat, Longitude: respBody.Lon}, nil
}
