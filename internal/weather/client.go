// Package weather fetches current conditions from Open-Meteo and keeps the
// dashboard's weather summary up to date.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
)

var ErrLocationNotFound = errors.New("location not found")

// Place is a geocoded location.
type Place struct {
	Name      string  `json:"name"`
	Admin1    string  `json:"admin1"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DisplayName is "name, region", or just the name when the region is unknown.
func (p Place) DisplayName() string {
	if p.Admin1 == "" {
		return p.Name
	}
	return p.Name + ", " + p.Admin1
}

// Conditions are the current readings in imperial units.
type Conditions struct {
	Place     string `json:"place"`
	TempF     int    `json:"temp_f"`
	FeelsF    int    `json:"feels_f"`
	Condition string `json:"condition"`
	Humidity  int    `json:"humidity"`
	WindMph   int    `json:"wind_mph"`
	UV        int    `json:"uv"`
}

// Summary is the one-line form stored for the assistant's context.
func (c Conditions) Summary() string {
	return fmt.Sprintf("%d°F, %s in %s", c.TempF, c.Condition, c.Place)
}

// ClientConfig configures Client. Zero values select the public endpoints.
type ClientConfig struct {
	HTTPClient  *http.Client
	GeocodeURL  string
	ForecastURL string
}

// Client talks to the Open-Meteo geocoding and forecast APIs.
type Client struct {
	http        *http.Client
	geocodeURL  string
	forecastURL string
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.GeocodeURL == "" {
		cfg.GeocodeURL = DefaultGeocodeURL
	}
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = DefaultForecastURL
	}
	return &Client{http: cfg.HTTPClient, geocodeURL: cfg.GeocodeURL, forecastURL: cfg.ForecastURL}
}

// Geocode resolves a free-text location to its best match.
func (c *Client) Geocode(ctx context.Context, query string) (Place, error) {
	q := url.Values{}
	q.Set("name", query)
	q.Set("count", "1")
	q.Set("language", "en")

	var resp struct {
		Results []Place `json:"results"`
	}
	if err := c.getJSON(ctx, c.geocodeURL, q, &resp); err != nil {
		return Place{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	if len(resp.Results) == 0 {
		return Place{}, fmt.Errorf("geocode %q: %w", query, ErrLocationNotFound)
	}
	return resp.Results[0], nil
}

// Current fetches the current conditions at place.
func (c *Client) Current(ctx context.Context, place Place) (Conditions, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(place.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(place.Longitude, 'f', -1, 64))
	q.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m,uv_index")
	q.Set("temperature_unit", "celsius")
	q.Set("wind_speed_unit", "kmh")

	var resp struct {
		Current struct {
			Temperature         float64 `json:"temperature_2m"`
			RelativeHumidity    float64 `json:"relative_humidity_2m"`
			ApparentTemperature float64 `json:"apparent_temperature"`
			WeatherCode         int     `json:"weather_code"`
			WindSpeed           float64 `json:"wind_speed_10m"`
			UVIndex             float64 `json:"uv_index"`
		} `json:"current"`
	}
	if err := c.getJSON(ctx, c.forecastURL, q, &resp); err != nil {
		return Conditions{}, fmt.Errorf("forecast for %s: %w", place.DisplayName(), err)
	}

	cur := resp.Current
	return Conditions{
		Place:     place.DisplayName(),
		TempF:     celsiusToFahrenheit(cur.Temperature),
		FeelsF:    celsiusToFahrenheit(cur.ApparentTemperature),
		Condition: ConditionName(cur.WeatherCode),
		Humidity:  round(cur.RelativeHumidity),
		WindMph:   round(cur.WindSpeed * 0.621371),
		UV:        round(cur.UVIndex),
	}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// round matches JavaScript's Math.round, which rounds halves up.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func celsiusToFahrenheit(c float64) int {
	return round(c*9/5 + 32)
}
