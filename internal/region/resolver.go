// Package region maps WGS84 coordinates onto the discrete reference frames
// the upstream feeds are keyed by: the 5 km forecast grid, advisory
// sub-regions, mid-range forecast region codes, and air-quality observation
// stations. All lookups run against static tables embedded in the binary.
package region

import (
	"embed"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

//go:embed assets/*.json
var assetsFS embed.FS

// Lambert conformal conic parameters of the KMA forecast grid.
const (
	earthRadiusKM = 6371.00877
	gridSpacingKM = 5.0
	projLat1Deg   = 30.0
	projLat2Deg   = 60.0
	originLonDeg  = 126.0
	originLatDeg  = 38.0
	originX       = 43
	originY       = 136
)

const (
	// Advisory blobs and mid-range codes cover the whole country, so any
	// coordinate resolves somewhere; these defaults absorb points far off
	// every reference row.
	defaultSubRegion   = "서울"
	defaultMidRegionID = "11C20401"

	// Mid-range rows further than this (in grid cells) from the requested
	// point are considered out of coverage.
	midDistanceThreshold = 10.0

	// Latitude/longitude degree weights approximating the km ratio at
	// Korean latitudes.
	latWeight = 1.0
	lonWeight = 0.8

	stationRankSize = 3
)

// Grid is a KMA forecast grid cell.
type Grid struct {
	NX int `json:"nx"`
	NY int `json:"ny"`
}

// Region is everything the acquisition layer needs to query upstream feeds
// for one coordinate.
type Region struct {
	Grid        Grid     `json:"grid"`
	SubRegion   string   `json:"subRegion"`
	MidRegionID string   `json:"midRegionId"`
	Stations    []string `json:"stations"`
}

type district struct {
	SubRegion string  `json:"subregion"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type midRegion struct {
	RegID string `json:"regId"`
	Name  string `json:"name"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

type station struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Resolver answers pure lat/lon lookups over the embedded reference tables.
type Resolver struct {
	districts  []district
	midRegions []midRegion
	stations   []station
}

// NewResolver loads the embedded reference tables.
func NewResolver() (*Resolver, error) {
	r := &Resolver{}
	if err := loadAsset("assets/districts.json", &r.districts); err != nil {
		return nil, err
	}
	if err := loadAsset("assets/midregions.json", &r.midRegions); err != nil {
		return nil, err
	}
	if err := loadAsset("assets/stations.json", &r.stations); err != nil {
		return nil, err
	}
	return r, nil
}

func loadAsset(name string, v interface{}) error {
	raw, err := assetsFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read region asset %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse region asset %s: %w", name, err)
	}
	return nil
}

// Resolve maps a coordinate onto every upstream reference frame. It is total:
// coordinates outside the covered area get the default region rather than an
// error, because an approximate answer beats none.
func (r *Resolver) Resolve(lat, lon float64) Region {
	grid := ToGrid(lat, lon)
	return Region{
		Grid:        grid,
		SubRegion:   r.subRegion(lat, lon),
		MidRegionID: r.midRegionID(grid),
		Stations:    r.rankStations(lat, lon),
	}
}

// ToGrid projects a WGS84 coordinate onto the KMA forecast grid.
func ToGrid(lat, lon float64) Grid {
	degrad := math.Pi / 180.0

	re := earthRadiusKM / gridSpacingKM
	slat1 := projLat1Deg * degrad
	slat2 := projLat2Deg * degrad
	olon := originLonDeg * degrad
	olat := originLatDeg * degrad

	sn := math.Tan(math.Pi*0.25+slat2*0.5) / math.Tan(math.Pi*0.25+slat1*0.5)
	sn = math.Log(math.Cos(slat1)/math.Cos(slat2)) / math.Log(sn)
	sf := math.Tan(math.Pi*0.25 + slat1*0.5)
	sf = math.Pow(sf, sn) * math.Cos(slat1) / sn
	ro := math.Tan(math.Pi*0.25 + olat*0.5)
	ro = re * sf / math.Pow(ro, sn)

	ra := math.Tan(math.Pi*0.25 + lat*degrad*0.5)
	ra = re * sf / math.Pow(ra, sn)
	theta := lon*degrad - olon
	if theta > math.Pi {
		theta -= 2.0 * math.Pi
	}
	if theta < -math.Pi {
		theta += 2.0 * math.Pi
	}
	theta *= sn

	return Grid{
		NX: int(math.Floor(ra*math.Sin(theta) + originX + 0.5)),
		NY: int(math.Floor(ro - ra*math.Cos(theta) + originY + 0.5)),
	}
}

func (r *Resolver) subRegion(lat, lon float64) string {
	best := defaultSubRegion
	min := math.Inf(1)
	for _, d := range r.districts {
		dist := math.Hypot(lat-d.Latitude, lon-d.Longitude)
		if dist < min {
			min = dist
			best = d.SubRegion
		}
	}
	return best
}

func (r *Resolver) midRegionID(g Grid) string {
	var best *midRegion
	min := math.Inf(1)
	for i, m := range r.midRegions {
		dist := math.Hypot(float64(g.NX-m.X), float64(g.NY-m.Y))
		if dist < min {
			min = dist
			best = &r.midRegions[i]
		}
	}
	if best == nil || min > midDistanceThreshold {
		return defaultMidRegionID
	}
	return best.RegID
}

func (r *Resolver) rankStations(lat, lon float64) []string {
	type candidate struct {
		name string
		dist float64
	}
	candidates := make([]candidate, 0, len(r.stations))
	for _, s := range r.stations {
		latDiff := (lat - s.Latitude) * latWeight
		lonDiff := (lon - s.Longitude) * lonWeight
		candidates = append(candidates, candidate{
			name: s.Name,
			dist: math.Sqrt(latDiff*latDiff + lonDiff*lonDiff),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	n := stationRankSize
	if len(candidates) < n {
		n = len(candidates)
	}
	ranked := make([]string, 0, n)
	for _, c := range candidates[:n] {
		ranked = append(ranked, c.name)
	}
	return ranked
}
