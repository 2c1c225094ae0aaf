package itinerary

import (
	"testing"
	"time"

	"github.com/serendibtrip/serendibtrip-api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(d types.Day) []string {
	out := make([]string, len(d.Activities))
	for i, a := range d.Activities {
		out[i] = a.Name
	}
	return out
}

func sample() types.Itinerary {
	return types.Itinerary{Days: []types.Day{
		{DayNumber: 1, Date: "2025-03-01", Activities: []types.Activity{
			{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"},
		}},
		{DayNumber: 2, Date: "2025-03-02", Activities: []types.Activity{}},
	}}
}

func TestAddActivity(t *testing.T) {
	it := sample()
	out, err := AddActivity(it, 1, types.Activity{Name: "Nine Arch Bridge"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Nine Arch Bridge"}, names(out.Days[1]))
	assert.Empty(t, it.Days[1].Activities, "input untouched")

	_, err = AddActivity(it, 2, types.Activity{Name: "X"})
	assert.ErrorIs(t, err, ErrDayOutOfRange)
	_, err = AddActivity(it, -1, types.Activity{Name: "X"})
	assert.ErrorIs(t, err, ErrDayOutOfRange)
}

func TestAddActivityDoesNotAliasInput(t *testing.T) {
	base := types.Itinerary{Days: []types.Day{{Activities: make([]types.Activity, 1, 10)}}}
	first, err := AddActivity(base, 0, types.Activity{Name: "first"})
	require.NoError(t, err)
	second, err := AddActivity(base, 0, types.Activity{Name: "second"})
	require.NoError(t, err)

	assert.Equal(t, "first", first.Days[0].Activities[1].Name)
	assert.Equal(t, "second", second.Days[0].Activities[1].Name)
	assert.Len(t, base.Days[0].Activities, 1)
}

func TestUpdateActivity(t *testing.T) {
	it := sample()
	name, cost, lat := "B (sunrise)", int64(1500), 7.0
	out, err := UpdateActivity(it, 0, 1, types.ActivityPatch{Name: &name, Cost: &cost, Lat: &lat})
	require.NoError(t, err)

	updated := out.Days[0].Activities[1]
	assert.Equal(t, "B (sunrise)", updated.Name)
	assert.Equal(t, int64(1500), updated.Cost)
	require.NotNil(t, updated.Lat)
	assert.Equal(t, 7.0, *updated.Lat)
	assert.Equal(t, "B", it.Days[0].Activities[1].Name, "input untouched")

	_, err = UpdateActivity(it, 0, 4, types.ActivityPatch{Name: &name})
	assert.ErrorIs(t, err, ErrActivityOutOfRange)
	_, err = UpdateActivity(it, 5, 0, types.ActivityPatch{Name: &name})
	assert.ErrorIs(t, err, ErrDayOutOfRange)
}

func TestDeleteActivity(t *testing.T) {
	it := sample()
	out, err := DeleteActivity(it, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "D"}, names(out.Days[0]))
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(it.Days[0]))

	_, err = DeleteActivity(it, 1, 0)
	assert.ErrorIs(t, err, ErrActivityOutOfRange)
}

func TestReorderActivity(t *testing.T) {
	tests := []struct {
		from, to int
		want     []string
	}{
		{0, 2, []string{"B", "C", "A", "D"}},
		{3, 0, []string{"D", "A", "B", "C"}},
		{1, 1, []string{"A", "B", "C", "D"}},
		{0, 3, []string{"B", "C", "D", "A"}},
	}
	for _, tt := range tests {
		out, err := ReorderActivity(sample(), 0, tt.from, tt.to)
		require.NoError(t, err)
		assert.Equal(t, tt.want, names(out.Days[0]), "from %d to %d", tt.from, tt.to)
	}

	_, err := ReorderActivity(sample(), 0, 0, 4)
	assert.ErrorIs(t, err, ErrActivityOutOfRange)
}

func TestReorderRoundTrip(t *testing.T) {
	it := sample()
	for from := 0; from < 4; from++ {
		for to := 0; to < 4; to++ {
			moved, err := ReorderActivity(it, 0, from, to)
			require.NoError(t, err)
			back, err := ReorderActivity(moved, 0, to, from)
			require.NoError(t, err)
			assert.Equal(t, names(it.Days[0]), names(back.Days[0]), "%d -> %d -> %d", from, to, from)
		}
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(it.Days[0]))
}

func TestBuildDays(t *testing.T) {
	start := time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	days := BuildDays(start, end)
	require.Len(t, days, 3)
	assert.Equal(t, "2025-02-27", days[0].Date)
	assert.Equal(t, "2025-03-01", days[2].Date)
	assert.Equal(t, 3, days[2].DayNumber)
	assert.NotNil(t, days[0].Activities)

	assert.Len(t, BuildDays(start, start), 1)
}

func TestRebuildKeepsActivities(t *testing.T) {
	it := sample()
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	longer := Rebuild(it, start, start.AddDate(0, 0, 3))
	require.Len(t, longer.Days, 3)
	assert.Equal(t, "2025-04-01", longer.Days[0].Date)
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(longer.Days[0]))
	assert.Empty(t, longer.Days[2].Activities)

	it.Days[1].Activities = []types.Activity{{Name: "E"}}
	shorter := Rebuild(it, start, start.AddDate(0, 0, 1))
	require.Len(t, shorter.Days, 1)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, names(shorter.Days[0]))
	assert.Equal(t, 5, shorter.ActivityCount())
}
