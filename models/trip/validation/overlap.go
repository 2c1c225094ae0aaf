package validation

import (
	"time"

	"github.com/serendibtrip/serendibtrip-api/types"
)

// CheckDateOverlap reports the first trip whose dates collide with
// [newStart, newEnd]. Both ends are inclusive, so a trip ending on the day
// another starts is a conflict. Persisted trips are checked before local
// ones; local trips without saved items are ignored. Unparseable dates are
// skipped, and an unparseable candidate never conflicts.
func CheckDateOverlap(newStart, newEnd string, existing []types.TripDates, local []types.LocalTripMetadata) *types.DateConflict {
	start, err := types.ParseDate(newStart)
	if err != nil {
		return nil
	}
	end, err := types.ParseDate(newEnd)
	if err != nil {
		return nil
	}

	for _, t := range existing {
		if overlaps(start, end, t.StartDate, t.EndDate) {
			return &types.DateConflict{Destination: t.Destination, StartDate: t.StartDate, EndDate: t.EndDate}
		}
	}

	for _, t := range local {
		if t.SavedItemCount == 0 {
			continue
		}
		if overlaps(start, end, t.StartDate, t.EndDate) {
			return &types.DateConflict{Destination: t.Destination, StartDate: t.StartDate, EndDate: t.EndDate}
		}
	}

	return nil
}

func overlaps(start, end time.Time, otherStart, otherEnd string) bool {
	oStart, err := types.ParseDate(otherStart)
	if err != nil {
		return false
	}
	oEnd, err := types.ParseDate(otherEnd)
	if err != nil {
		return false
	}
	return !start.After(oEnd) && !end.Before(oStart)
}

// TripDatesExcluding converts stored trips for the overlap check, leaving
// out excludeID so a trip never conflicts with itself.
func TripDatesExcluding(trips []*types.Trip, excludeID string) []types.TripDates {
	out := make([]types.TripDates, 0, len(trips))
	for _, t := range trips {
		if t.ID == excludeID {
			continue
		}
		out = append(out, types.TripDates{
			ID:          t.ID,
			Destination: t.Destination,
			StartDate:   types.FormatDate(t.StartDate),
			EndDate:     types.FormatDate(t.EndDate),
		})
	}
	return out
}
