// +build ignore

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type successEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type geocodeData struct {
	Query       string  `json:"query"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

type searchData struct {
	Places []struct {
		Name      string  `json:"name"`
		Lat       float64 `json:"lat"`
		Lon       float64 `json:"lon"`
		DistanceM float64 `json:"distance_m"`
		Address   string  `json:"address"`
		OSMType   string  `json:"osm_type"`
		OSMID     int64   `json:"osm_id"`
	} `json:"places"`
	Total int `json:"total"`
}

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "Base URL of a running instance")
	query := flag.String("query", "Тверская улица, Москва", "Geocode query")
	category := flag.String("category", "cafe", "Search category")
	radius := flag.Int("radius", 1500, "Search radius in meters")
	limit := flag.Int("limit", 10, "Max results")
	wheelchair := flag.String("wheelchair", "", "Optional wheelchair filter (yes|no|limited|unknown)")
	flag.Parse()

	client := &http.Client{Timeout: 30 * time.Second}

	geo, err := fetchGeocode(client, *baseURL, *query)
	if err != nil {
		log.Fatalf("Geocode failed: %v", err)
	}
	fmt.Printf("Geocoded %q -> (%.5f, %.5f) %s\n", geo.Query, geo.Lat, geo.Lon, geo.DisplayName)

	res, err := fetchSearch(client, *baseURL, geo.Lat, geo.Lon, *category, *radius, *limit, *wheelchair)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	fmt.Printf("Found %d places in category %q:\n", res.Total, *category)
	for i, p := range res.Places {
		fmt.Printf("%2d. %-40s %7.0f m  %s (%s:%d)\n", i+1, p.Name, p.DistanceM, p.Address, p.OSMType, p.OSMID)
	}
}

func fetchGeocode(client *http.Client, baseURL, query string) (*geocodeData, error) {
	params := url.Values{}
	params.Set("q", query)

	var data geocodeData
	if err := getJSON(client, baseURL+"/api/geocode?"+params.Encode(), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func fetchSearch(client *http.Client, baseURL string, lat, lon float64, category string, radius, limit int, wheelchair string) (*searchData, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("category", category)
	params.Set("radius_m", strconv.Itoa(radius))
	params.Set("limit", strconv.Itoa(limit))
	if wheelchair != "" {
		params.Set("wheelchair", wheelchair)
	}

	var data searchData
	if err := getJSON(client, baseURL+"/api/search?"+params.Encode(), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func getJSON(client *http.Client, rawURL string, out interface{}) error {
	resp, err := client.Get(rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body json.RawMessage
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var envelope successEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return json.Unmarshal(envelope.Data, out)
}
