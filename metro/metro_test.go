package metro_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jrsteele09/lankaconnect-client/metro"
	"github.com/stretchr/testify/require"
)

func TestSeedIntegrity(t *testing.T) {
	all := metro.All()
	require.NotEmpty(t, all)

	seen := map[string]bool{}
	for _, a := range all {
		_, err := uuid.Parse(a.ID)
		require.NoError(t, err, a.ID)
		require.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true

		require.NotEmpty(t, a.StateName, a.State)
		require.Len(t, a.State, 2)
		if a.IsStateLevel {
			require.True(t, metro.IsStateLevelID(a.ID))
			require.True(t, strings.HasPrefix(a.Name, "All "))
		} else {
			require.False(t, metro.IsStateLevelID(a.ID))
			require.Positive(t, a.RadiusMiles)
		}
	}
}

func TestLookups(t *testing.T) {
	cleveland, ok := metro.ByID("39111111-1111-1111-1111-111111111001")
	require.True(t, ok)
	require.Equal(t, "Cleveland", cleveland.Name)
	require.Equal(t, "Ohio", cleveland.StateName)

	_, ok = metro.ByID(uuid.NewString())
	require.False(t, ok)

	ohio := metro.ByState("oh")
	require.True(t, ohio[0].IsStateLevel)
	require.Equal(t, "All Ohio", ohio[0].Name)
	require.Equal(t, metro.StateLevelID("39"), ohio[0].ID)
	for i := 2; i < len(ohio); i++ {
		require.Less(t, ohio[i-1].Name, ohio[i].Name)
	}

	st, ok := metro.StateLevel("OH")
	require.True(t, ok)
	require.Equal(t, ohio[0], st)

	_, ok = metro.StateLevel("ZZ")
	require.False(t, ok)
}

func TestGroupByState(t *testing.T) {
	groups := metro.GroupByState()
	require.NotEmpty(t, groups)
	for i, g := range groups {
		if i > 0 {
			require.Less(t, groups[i-1].StateName, g.StateName)
		}
		require.True(t, g.Areas[0].IsStateLevel, g.State)
	}
}

func TestSearch(t *testing.T) {
	require.Nil(t, metro.Search("  "))

	res := metro.Search("cleve")
	require.Len(t, res, 1)
	require.Equal(t, "Cleveland", res[0].Name)

	byCode := metro.Search("oh")
	require.Equal(t, len(metro.ByState("OH")), countState(byCode, "OH"))
}

func countState(areas []metro.MetroArea, state string) int {
	n := 0
	for _, a := range areas {
		if a.State == state {
			n++
		}
	}
	return n
}

func TestNearestAndCovers(t *testing.T) {
	near, dist := metro.Nearest(41.45, -81.7)
	require.Equal(t, "Cleveland", near.Name)
	require.Less(t, dist, 10.0)
	require.True(t, near.Covers(41.45, -81.7))

	ohio, _ := metro.StateLevel("OH")
	require.True(t, ohio.Covers(41.45, -81.7))
	require.False(t, ohio.Covers(40.7128, -74.0060))
}

func TestDistance(t *testing.T) {
	require.InDelta(t, 0, metro.DistanceMiles(40, -80, 40, -80), 1e-9)
	// Cleveland to Columbus is roughly 126 miles.
	require.InDelta(t, 126, metro.DistanceMiles(41.4993, -81.6944, 39.9612, -82.9988), 5)
	require.InDelta(t, metro.DistanceMiles(41, -81, 40, -82)*1.609344, metro.DistanceKm(41, -81, 40, -82), 1e-9)
}

func TestExpandIDs(t *testing.T) {
	cleveland := "39111111-1111-1111-1111-111111111001"
	unknown := uuid.NewString()

	ids := metro.ExpandIDs([]string{cleveland, metro.StateLevelID("39"), unknown})
	require.Equal(t, cleveland, ids[0])
	require.Contains(t, ids, unknown)
	require.NotContains(t, ids, metro.StateLevelID("39"))

	metros := 0
	for _, a := range metro.ByState("OH") {
		if !a.IsStateLevel {
			metros++
			require.Contains(t, ids, a.ID)
		}
	}
	require.Len(t, ids, metros+1)
}
