// Package budget splits a trip budget across spending categories and
// classifies expenses against that split.
package budget

import (
	"fmt"
	"strings"

	"github.com/serendibtrip/serendibtrip-api/errors"
	"github.com/serendibtrip/serendibtrip-api/pkg/valueobjects"
	"github.com/serendibtrip/serendibtrip-api/types"
	"github.com/shopspring/decimal"
)

// Utilization thresholds, in percent of the total budget.
const (
	warningThreshold    = 80
	overBudgetThreshold = 100
	interestShiftPoints = 5
)

// basePercentages sum to 100.
var basePercentages = map[types.BudgetCategory]int64{
	types.BudgetAccommodation: 35,
	types.BudgetFood:          25,
	types.BudgetTransport:     20,
	types.BudgetActivities:    15,
	types.BudgetMisc:          5,
}

// BudgetInput is everything the allocator needs. SavedItems costs are per
// person and are multiplied by GroupSize.
type BudgetInput struct {
	TotalBudget int64
	Duration    int
	GroupSize   int
	Interests   []string
	SavedItems  []types.SavedItem
}

func (in BudgetInput) validate() error {
	var problems []string
	if in.TotalBudget < 0 {
		problems = append(problems, "total budget must not be negative")
	}
	if in.Duration < 1 {
		problems = append(problems, "duration must be at least 1 day")
	}
	if in.GroupSize < 1 {
		problems = append(problems, "group size must be at least 1")
	}
	for i, item := range in.SavedItems {
		if item.Cost < 0 {
			problems = append(problems, fmt.Sprintf("saved item %d cost must not be negative", i))
		}
	}
	if len(problems) > 0 {
		return errors.ValidationFailed("Invalid budget input", strings.Join(problems, "; "))
	}
	return nil
}

// CategoryPercentages returns the split for the given interests: the base
// split shifted by interest tags, each value clamped at zero.
func CategoryPercentages(interests []string) map[types.BudgetCategory]int64 {
	pct := make(map[types.BudgetCategory]int64, len(basePercentages))
	for c, p := range basePercentages {
		pct[c] = p
	}

	if hasAny(interests, "adventure", "wildlife") {
		pct[types.BudgetAccommodation] -= interestShiftPoints
		pct[types.BudgetActivities] += interestShiftPoints
	}
	if hasAny(interests, "food", "culture") {
		pct[types.BudgetMisc] -= interestShiftPoints
		pct[types.BudgetFood] += interestShiftPoints
	}

	for c, p := range pct {
		if p < 0 {
			pct[c] = 0
		}
	}
	return pct
}

// CalculateBudgetAllocation distributes in.TotalBudget across categories.
// Committed restaurant spend is deducted from food and all other committed
// spend from activities; the remaining categories share what is left after
// both deductions. Totals outside food and activities may go negative when
// committed spend exceeds the budget.
func CalculateBudgetAllocation(in BudgetInput) (*types.BudgetAllocation, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	groupSize := int64(in.GroupSize)
	committedFood := valueobjects.LKRAmount(0)
	committedActivities := valueobjects.LKRAmount(0)
	for _, item := range in.SavedItems {
		cost := valueobjects.LKRAmount(item.Cost).Mul(groupSize)
		if item.IsRestaurant() {
			committedFood, _ = committedFood.Add(cost)
		} else {
			committedActivities, _ = committedActivities.Add(cost)
		}
	}
	committed, _ := committedFood.Add(committedActivities)

	total := valueobjects.LKRAmount(in.TotalBudget)
	remainingBudget, _ := total.Sub(committed)

	pct := CategoryPercentages(in.Interests)
	categories := make(map[types.BudgetCategory]types.CategoryBudget, len(pct))
	for _, c := range types.BudgetCategories {
		share := decimal.NewFromInt(pct[c])

		var amount, allocated valueobjects.Money
		switch c {
		case types.BudgetFood:
			amount, _ = total.Percent(share).Sub(committedFood)
			amount = amount.Floor0()
			allocated = committedFood
		case types.BudgetActivities:
			amount, _ = total.Percent(share).Sub(committedActivities)
			amount = amount.Floor0()
			allocated = committedActivities
		default:
			amount = remainingBudget.Percent(share)
			allocated = valueobjects.LKRAmount(0)
		}

		perDay := amount.Div(int64(in.Duration))
		categories[c] = types.CategoryBudget{
			Percentage:      float64(pct[c]),
			Total:           amount.Units(),
			PerDay:          perDay.Units(),
			PerDayPerPerson: perDay.Div(groupSize).Units(),
			Allocated:       allocated.Units(),
			Remaining:       amount.Units(),
		}
	}

	utilization := Utilization(committed.Units(), in.TotalBudget)

	return &types.BudgetAllocation{
		TotalBudget:           in.TotalBudget,
		Duration:              in.Duration,
		GroupSize:             in.GroupSize,
		Categories:            categories,
		CommittedExpense:      committed.Units(),
		CommittedFood:         committedFood.Units(),
		CommittedActivities:   committedActivities.Units(),
		RemainingBudget:       remainingBudget.Units(),
		UtilizationPercentage: utilization,
		Status:                StatusFor(utilization),
		DailyBreakdown:        dailyBreakdown(categories, in.Duration),
	}, nil
}

// Utilization is round(committed / total * 100). A zero budget reports 0.
// Values above 100 are expected for over-budget trips.
func Utilization(committed, total int64) int64 {
	if total == 0 {
		return 0
	}
	ratio := decimal.NewFromInt(committed).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(total))
	return valueobjects.RoundHalfAwayFromZero(ratio)
}

// StatusFor maps a utilization percentage onto a display status.
func StatusFor(utilization int64) types.BudgetStatus {
	switch {
	case utilization > overBudgetThreshold:
		return types.BudgetStatusOverBudget
	case utilization > warningThreshold:
		return types.BudgetStatusWarning
	default:
		return types.BudgetStatusOK
	}
}

// dailyBreakdown seeds one entry per day with each category's per-day budget
// and nothing spent.
func dailyBreakdown(categories map[types.BudgetCategory]types.CategoryBudget, duration int) []types.DailyBudget {
	days := make([]types.DailyBudget, duration)
	for i := range days {
		day := types.DailyBudget{
			Day:        i + 1,
			Categories: make(map[types.BudgetCategory]types.DailyCategoryBudget, len(categories)),
		}
		for c, cb := range categories {
			day.Categories[c] = types.DailyCategoryBudget{Budget: cb.PerDay}
		}
		days[i] = day
	}
	return days
}

func hasAny(interests []string, tags ...string) bool {
	for _, i := range interests {
		i = strings.ToLower(strings.TrimSpace(i))
		for _, t := range tags {
			if i == t {
				return true
			}
		}
	}
	return false
}

// FromTrip builds allocator input from a stored trip and its itinerary.
func FromTrip(trip *types.Trip) BudgetInput {
	return BudgetInput{
		TotalBudget: trip.Budget,
		Duration:    trip.Duration(),
		GroupSize:   trip.GroupSize,
		Interests:   trip.Interests,
		SavedItems:  trip.Itinerary.SavedItems(),
	}
}
