package types

import "strings"

// Activity is one entry in a day's plan. Its position within Day.Activities
// is the only ordering key.
type Activity struct {
	Time        string   `json:"time"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Cost        int64    `json:"cost"`
	Currency    string   `json:"currency,omitempty"`
	Category    string   `json:"category,omitempty"`
	Type        string   `json:"type,omitempty"`
	Tips        string   `json:"tips,omitempty"`
}

// ActivityPatch carries the fields of an in-place activity edit. Nil fields
// keep their current value.
type ActivityPatch struct {
	Time        *string  `json:"time,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	Duration    *string  `json:"duration,omitempty"`
	Cost        *int64   `json:"cost,omitempty"`
	Currency    *string  `json:"currency,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Tips        *string  `json:"tips,omitempty"`
}

type Meals struct {
	Breakfast string `json:"breakfast,omitempty"`
	Lunch     string `json:"lunch,omitempty"`
	Dinner    string `json:"dinner,omitempty"`
}

type Transportation struct {
	Mode          string `json:"mode,omitempty"`
	Details       string `json:"details,omitempty"`
	EstimatedCost int64  `json:"estimatedCost,omitempty"`
}

// Day groups the activities planned for one calendar date of a trip.
type Day struct {
	DayNumber      int             `json:"dayNumber"`
	Date           string          `json:"date"`
	Activities     []Activity      `json:"activities"`
	Meals          *Meals          `json:"meals,omitempty"`
	Transportation *Transportation `json:"transportation,omitempty"`
	DailyTips      []string        `json:"dailyTips,omitempty"`
}

type Itinerary struct {
	Days []Day `json:"days"`
}

// SavedItem is an itinerary entry reduced to what budget tracking needs.
type SavedItem struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Category string `json:"category,omitempty"`
	Cost     int64  `json:"cost" binding:"min=0"`
}

// IsRestaurant reports whether the item counts against the food budget.
func (s SavedItem) IsRestaurant() bool {
	return strings.EqualFold(s.Type, "restaurant")
}

// SavedItems flattens every activity of every day, in day order.
func (it Itinerary) SavedItems() []SavedItem {
	items := make([]SavedItem, 0, it.ActivityCount())
	for _, d := range it.Days {
		for _, a := range d.Activities {
			items = append(items, SavedItem{
				Name:     a.Name,
				Type:     a.Type,
				Category: a.Category,
				Cost:     a.Cost,
			})
		}
	}
	return items
}

// ActivityCount is the number of saved items across all days.
func (it Itinerary) ActivityCount() int {
	n := 0
	for _, d := range it.Days {
		n += len(d.Activities)
	}
	return n
}

// ActivityNames lists saved item names, used as the recommendation exclude list.
func (it Itinerary) ActivityNames() []string {
	names := make([]string, 0, it.ActivityCount())
	for _, d := range it.Days {
		for _, a := range d.Activities {
			names = append(names, a.Name)
		}
	}
	return names
}

// ActivityAddRequest is the body of POST /v1/trips/:id/days/:day/activities.
type ActivityAddRequest struct {
	Activity Activity `json:"activity" binding:"required"`
}

// ReorderRequest is the body of POST /v1/trips/:id/days/:day/reorder.
type ReorderRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}
