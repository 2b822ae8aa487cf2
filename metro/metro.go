// Package metro is the static list of US metro areas that events and user
// preferences are grouped by. Each state has a state-level area covering all of
// its metros.
package metro

import (
	"math"
	"sort"
	"strings"
)

// IDs encode the state's FIPS code in the first two digits.
const (
	stateLevelSuffix = "000000-0000-0000-0000-000000000001"
	earthRadiusMiles = 3958.8
	kmPerMile        = 1.609344
)

type MetroArea struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	State        string  `json:"state"`
	StateName    string  `json:"stateName"`
	CenterLat    float64 `json:"centerLatitude"`
	CenterLng    float64 `json:"centerLongitude"`
	RadiusMiles  int     `json:"radiusMiles"`
	IsStateLevel bool    `json:"isStateLevelArea"`
}

// StateGroup is one state's areas, state-level area first.
type StateGroup struct {
	State     string      `json:"state"`
	StateName string      `json:"stateName"`
	Areas     []MetroArea `json:"areas"`
}

func stateArea(fips, state string, lat, lng float64) MetroArea {
	return MetroArea{
		ID:           StateLevelID(fips),
		Name:         "All " + stateNames[state],
		State:        state,
		StateName:    stateNames[state],
		CenterLat:    lat,
		CenterLng:    lng,
		IsStateLevel: true,
	}
}

func metroArea(id, name, state string, lat, lng float64, radius int) MetroArea {
	return MetroArea{
		ID:          id,
		Name:        name,
		State:       state,
		StateName:   stateNames[state],
		CenterLat:   lat,
		CenterLng:   lng,
		RadiusMiles: radius,
	}
}

// StateLevelID builds the state-level area ID for a two digit FIPS code.
func StateLevelID(fips string) string {
	return fips + stateLevelSuffix
}

func IsStateLevelID(id string) bool {
	return len(id) == 2+len(stateLevelSuffix) && strings.HasSuffix(id, stateLevelSuffix)
}

var (
	byID    = make(map[string]int, len(seed))
	byState = make(map[string][]int)
)

func init() {
	for i, a := range seed {
		byID[strings.ToLower(a.ID)] = i
		byState[a.State] = append(byState[a.State], i)
	}
}

// All returns every area in seed order.
func All() []MetroArea {
	return append([]MetroArea(nil), seed...)
}

func ByID(id string) (MetroArea, bool) {
	i, ok := byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return MetroArea{}, false
	}
	return seed[i], true
}

// ByState returns the state's areas, state-level first. state is a two letter code.
func ByState(state string) []MetroArea {
	idx := byState[strings.ToUpper(strings.TrimSpace(state))]
	out := make([]MetroArea, 0, len(idx))
	for _, i := range idx {
		out = append(out, seed[i])
	}
	sortAreas(out)
	return out
}

func StateLevel(state string) (MetroArea, bool) {
	for _, a := range ByState(state) {
		if a.IsStateLevel {
			return a, true
		}
	}
	return MetroArea{}, false
}

func sortAreas(areas []MetroArea) {
	sort.SliceStable(areas, func(i, j int) bool {
		if areas[i].IsStateLevel != areas[j].IsStateLevel {
			return areas[i].IsStateLevel
		}
		return areas[i].Name < areas[j].Name
	})
}

// GroupByState returns every state that has areas, ordered by state name.
func GroupByState() []StateGroup {
	groups := make([]StateGroup, 0, len(byState))
	for state := range byState {
		groups = append(groups, StateGroup{State: state, StateName: stateNames[state], Areas: ByState(state)})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].StateName < groups[j].StateName
	})
	return groups
}

// Search matches query case-insensitively against area names, state names and
// state codes. A state match returns all of that state's areas.
func Search(query string) []MetroArea {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []MetroArea
	for _, a := range seed {
		if strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.StateName), q) ||
			strings.ToLower(a.State) == q {
			out = append(out, a)
		}
	}
	return out
}

// Nearest returns the metro (never a state-level area) closest to the point, and
// the distance to its centre in miles.
func Nearest(lat, lng float64) (MetroArea, float64) {
	var (
		best     MetroArea
		bestDist = math.Inf(1)
	)
	for _, a := range seed {
		if a.IsStateLevel {
			continue
		}
		if d := DistanceMiles(lat, lng, a.CenterLat, a.CenterLng); d < bestDist {
			best, bestDist = a, d
		}
	}
	return best, bestDist
}

// Covers reports whether the point lies within the metro's radius. State-level
// areas cover every point within their metros.
func (a MetroArea) Covers(lat, lng float64) bool {
	if !a.IsStateLevel {
		return DistanceMiles(lat, lng, a.CenterLat, a.CenterLng) <= float64(a.RadiusMiles)
	}
	for _, m := range ByState(a.State) {
		if !m.IsStateLevel && m.Covers(lat, lng) {
			return true
		}
	}
	return false
}

// ExpandIDs replaces each state-level ID with the IDs of that state's metros,
// dropping duplicates. Unknown IDs are kept.
func ExpandIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	add := func(id string) {
		key := strings.ToLower(id)
		if !seen[key] {
			seen[key] = true
			out = append(out, id)
		}
	}
	for _, id := range ids {
		a, ok := ByID(id)
		if !ok || !a.IsStateLevel {
			add(id)
			continue
		}
		for _, m := range ByState(a.State) {
			if !m.IsStateLevel {
				add(m.ID)
			}
		}
	}
	return out
}

// DistanceMiles is the great-circle distance between two points.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	return DistanceMiles(lat1, lng1, lat2, lng2) * kmPerMile
}
