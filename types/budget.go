package types

// BudgetCategory names one bucket of a budget allocation.
type BudgetCategory string

const (
	BudgetAccommodation BudgetCategory = "accommodation"
	BudgetFood          BudgetCategory = "food"
	BudgetTransport     BudgetCategory = "transport"
	BudgetActivities    BudgetCategory = "activities"
	BudgetMisc          BudgetCategory = "misc"
)

// BudgetCategories is the canonical category order.
var BudgetCategories = []BudgetCategory{
	BudgetAccommodation,
	BudgetFood,
	BudgetTransport,
	BudgetActivities,
	BudgetMisc,
}

// ExpenseCategory is the coarse classification of an arbitrary item.
type ExpenseCategory string

const (
	ExpenseFood           ExpenseCategory = "food"
	ExpenseAccommodation  ExpenseCategory = "accommodation"
	ExpenseTransportation ExpenseCategory = "transportation"
	ExpenseActivities     ExpenseCategory = "activities"
)

// BudgetCategory maps an expense category onto its allocation bucket.
func (e ExpenseCategory) BudgetCategory() BudgetCategory {
	switch e {
	case ExpenseFood:
		return BudgetFood
	case ExpenseAccommodation:
		return BudgetAccommodation
	case ExpenseTransportation:
		return BudgetTransport
	default:
		return BudgetActivities
	}
}

type BudgetStatus string

const (
	BudgetStatusOK         BudgetStatus = "ok"
	BudgetStatusWarning    BudgetStatus = "warning"
	BudgetStatusOverBudget BudgetStatus = "over_budget"
)

// CategoryBudget is one category's share of a trip budget. All amounts are
// whole LKR.
type CategoryBudget struct {
	Percentage      float64 `json:"percentage"`
	Total           int64   `json:"total"`
	PerDay          int64   `json:"perDay"`
	PerDayPerPerson int64   `json:"perDayPerPerson"`
	Allocated       int64   `json:"allocated"`
	Remaining       int64   `json:"remaining"`
}

// DailyCategoryBudget seeds spend tracking for one category on one day.
type DailyCategoryBudget struct {
	Budget int64 `json:"budget"`
	Spent  int64 `json:"spent"`
}

type DailyBudget struct {
	Day        int                                    `json:"day"`
	Categories map[BudgetCategory]DailyCategoryBudget `json:"categories"`
}

// BudgetAllocation is derived on demand and never persisted.
type BudgetAllocation struct {
	TotalBudget           int64                             `json:"totalBudget"`
	Duration              int                               `json:"duration"`
	GroupSize             int                               `json:"groupSize"`
	Categories            map[BudgetCategory]CategoryBudget `json:"categories"`
	CommittedExpense      int64                             `json:"committedExpense"`
	CommittedFood         int64                             `json:"committedFood"`
	CommittedActivities   int64                             `json:"committedActivities"`
	RemainingBudget       int64                             `json:"remainingBudget"`
	UtilizationPercentage int64                             `json:"utilizationPercentage"`
	Status                BudgetStatus                      `json:"status"`
	DailyBreakdown        []DailyBudget                     `json:"dailyBreakdown"`
}

// BudgetAllocationRequest is the body of POST /v1/budget/allocation.
type BudgetAllocationRequest struct {
	TotalBudget int64       `json:"totalBudget"`
	Duration    int         `json:"duration"`
	GroupSize   int         `json:"groupSize"`
	Interests   []string    `json:"interests"`
	SavedItems  []SavedItem `json:"savedItems" binding:"omitempty,dive"`
}

// ExpenseItem is an item to classify or fit into a budget.
type ExpenseItem struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type,omitempty"`
	Category string `json:"category,omitempty"`
	Cost     int64  `json:"cost" binding:"min=0"`
}

type CategorizeResponse struct {
	Category ExpenseCategory `json:"category"`
}

// BudgetFitRequest is the body of POST /v1/budget/fit.
type BudgetFitRequest struct {
	Item       ExpenseItem      `json:"item" binding:"required"`
	Allocation BudgetAllocation `json:"allocation" binding:"required"`
	Category   ExpenseCategory  `json:"category,omitempty" binding:"omitempty,oneof=food accommodation transportation activities"`
}

// BudgetFit is advisory; nothing is deducted from the allocation.
type BudgetFit struct {
	Fits      bool           `json:"fits"`
	Overage   int64          `json:"overage"`
	Remaining int64          `json:"remaining"`
	Category  BudgetCategory `json:"category"`
	Warning   string         `json:"warning,omitempty"`
}
