package domain

import (
	"encoding/json"
	"fmt"
)

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies inside the WGS 84 coordinate ranges.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// LineString is an ordered sequence of geographic coordinates. On the wire it
// is a GeoJSON LineString object with [lng, lat] coordinate pairs.
type LineString struct {
	Points []GeoPoint
}

// Line builds a LineString through the given points.
func Line(points ...GeoPoint) LineString {
	return LineString{Points: points}
}

type geoJSONLine struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

func (l LineString) MarshalJSON() ([]byte, error) {
	out := geoJSONLine{Type: "LineString", Coordinates: make([][2]float64, len(l.Points))}
	for i, p := range l.Points {
		out.Coordinates[i] = [2]float64{p.Lng, p.Lat}
	}
	return json.Marshal(out)
}

func (l *LineString) UnmarshalJSON(data []byte) error {
	var raw geoJSONLine
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Type != "" && raw.Type != "LineString" {
		return fmt.Errorf("unexpected geometry type %q", raw.Type)
	}
	l.Points = make([]GeoPoint, len(raw.Coordinates))
	for i, c := range raw.Coordinates {
		l.Points[i] = GeoPoint{Lat: c[1], Lng: c[0]}
	}
	return nil
}
