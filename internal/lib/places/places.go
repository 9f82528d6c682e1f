// Package places holds destination records handed over by the place-search collaborator.
package places

import (
	"strings"

	"github.com/zack5769/saferide/internal/lib/geo"
)

const (
	unknownName     = "名称不明"
	defaultCategory = "place"
)

// Place is one search result
type Place struct {
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Category string  `json:"category,omitempty"`
}

// NewPlace normalizes a raw search record. The short name is the first component
// of the display name, then the record's own name, then a placeholder.
func NewPlace(displayName, name string, lat, lon float64, class string) Place {
	short := strings.TrimSpace(strings.SplitN(displayName, ",", 2)[0])
	if short == "" {
		short = strings.TrimSpace(name)
	}
	if short == "" {
		short = unknownName
	}
	if class == "" {
		class = defaultCategory
	}
	return Place{
		Name:     short,
		Address:  displayName,
		Lat:      lat,
		Lon:      lon,
		Category: class,
	}
}

// Coordinate converts the place into a route endpoint
func (p Place) Coordinate() geo.Coordinate {
	return geo.NewCoordinate(p.Lon, p.Lat)
}
