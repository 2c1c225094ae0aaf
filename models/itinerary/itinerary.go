// Package itinerary edits a trip's day-by-day plan. Every operation returns
// a new Itinerary and leaves its input untouched.
package itinerary

import (
	"errors"
	"time"

	"github.com/serendibtrip/serendibtrip-api/types"
)

var (
	ErrDayOutOfRange      = errors.New("day index out of range")
	ErrActivityOutOfRange = errors.New("activity index out of range")
)

// AddActivity appends a to the day at dayIndex.
func AddActivity(it types.Itinerary, dayIndex int, a types.Activity) (types.Itinerary, error) {
	if !validDay(it, dayIndex) {
		return types.Itinerary{}, ErrDayOutOfRange
	}
	out := cloneDays(it)
	day := &out.Days[dayIndex]
	day.Activities = append(cloneActivities(day.Activities), a)
	return out, nil
}

// UpdateActivity merges the non-nil fields of patch into one activity.
func UpdateActivity(it types.Itinerary, dayIndex, activityIndex int, patch types.ActivityPatch) (types.Itinerary, error) {
	if err := checkIndices(it, dayIndex, activityIndex); err != nil {
		return types.Itinerary{}, err
	}
	out := cloneDays(it)
	day := &out.Days[dayIndex]
	day.Activities = cloneActivities(day.Activities)
	day.Activities[activityIndex] = applyPatch(day.Activities[activityIndex], patch)
	return out, nil
}

// DeleteActivity removes the activity at activityIndex.
func DeleteActivity(it types.Itinerary, dayIndex, activityIndex int) (types.Itinerary, error) {
	if err := checkIndices(it, dayIndex, activityIndex); err != nil {
		return types.Itinerary{}, err
	}
	out := cloneDays(it)
	day := &out.Days[dayIndex]
	src := day.Activities
	activities := make([]types.Activity, 0, len(src)-1)
	activities = append(activities, src[:activityIndex]...)
	activities = append(activities, src[activityIndex+1:]...)
	day.Activities = activities
	return out, nil
}

// ReorderActivity moves the activity at from so that it ends up at to,
// shifting the activities in between.
func ReorderActivity(it types.Itinerary, dayIndex, from, to int) (types.Itinerary, error) {
	if err := checkIndices(it, dayIndex, from); err != nil {
		return types.Itinerary{}, err
	}
	if err := checkIndices(it, dayIndex, to); err != nil {
		return types.Itinerary{}, err
	}
	out := cloneDays(it)
	day := &out.Days[dayIndex]
	activities := cloneActivities(day.Activities)

	moved := activities[from]
	activities = append(activities[:from], activities[from+1:]...)
	activities = append(activities[:to], append([]types.Activity{moved}, activities[to:]...)...)
	day.Activities = activities
	return out, nil
}

// BuildDays returns one empty Day per calendar date in [start, end). A trip
// starting and ending on the same date still gets one day.
func BuildDays(start, end time.Time) []types.Day {
	start, end = types.DateOnly(start), types.DateOnly(end)
	n := int(end.Sub(start).Hours() / 24)
	if n < 1 {
		n = 1
	}
	days := make([]types.Day, n)
	for i := range days {
		days[i] = types.Day{
			DayNumber:  i + 1,
			Date:       types.FormatDate(start.AddDate(0, 0, i)),
			Activities: []types.Activity{},
		}
	}
	return days
}

// Rebuild lays out fresh days for [start, end) and carries existing
// activities over by day position. Activities on days past the new end are
// appended to the last day so nothing saved is lost.
func Rebuild(it types.Itinerary, start, end time.Time) types.Itinerary {
	days := BuildDays(start, end)
	for i, old := range it.Days {
		target := i
		if target >= len(days) {
			target = len(days) - 1
		}
		d := &days[target]
		d.Activities = append(d.Activities, old.Activities...)
		if target == i {
			d.Meals = old.Meals
			d.Transportation = old.Transportation
			d.DailyTips = old.DailyTips
		}
	}
	return types.Itinerary{Days: days}
}

func validDay(it types.Itinerary, dayIndex int) bool {
	return dayIndex >= 0 && dayIndex < len(it.Days)
}

func checkIndices(it types.Itinerary, dayIndex, activityIndex int) error {
	if !validDay(it, dayIndex) {
		return ErrDayOutOfRange
	}
	if activityIndex < 0 || activityIndex >= len(it.Days[dayIndex].Activities) {
		return ErrActivityOutOfRange
	}
	return nil
}

// cloneDays copies the day slice; activity slices are still shared and
// must be cloned before being written.
func cloneDays(it types.Itinerary) types.Itinerary {
	days := make([]types.Day, len(it.Days))
	copy(days, it.Days)
	return types.Itinerary{Days: days}
}

func cloneActivities(src []types.Activity) []types.Activity {
	out := make([]types.Activity, len(src), len(src)+1)
	copy(out, src)
	return out
}

func applyPatch(a types.Activity, p types.ActivityPatch) types.Activity {
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.Lat != nil {
		v := *p.Lat
		a.Lat = &v
	}
	if p.Lng != nil {
		v := *p.Lng
		a.Lng = &v
	}
	if p.Duration != nil {
		a.Duration = *p.Duration
	}
	if p.Cost != nil {
		a.Cost = *p.Cost
	}
	if p.Currency != nil {
		a.Currency = *p.Currency
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Tips != nil {
		a.Tips = *p.Tips
	}
	return a
}
