package budget

import (
	"fmt"
	"strings"

	"github.com/serendibtrip/serendibtrip-api/pkg/valueobjects"
	"github.com/serendibtrip/serendibtrip-api/types"
)

// explicitCategories maps type and category values onto expense categories.
var explicitCategories = map[string]types.ExpenseCategory{
	"restaurant":     types.ExpenseFood,
	"food":           types.ExpenseFood,
	"cafe":           types.ExpenseFood,
	"dining":         types.ExpenseFood,
	"accommodation":  types.ExpenseAccommodation,
	"hotel":          types.ExpenseAccommodation,
	"lodging":        types.ExpenseAccommodation,
	"transport":      types.ExpenseTransportation,
	"transportation": types.ExpenseTransportation,
	"activity":       types.ExpenseActivities,
	"activities":     types.ExpenseActivities,
	"attraction":     types.ExpenseActivities,
}

type keywordList struct {
	category types.ExpenseCategory
	keywords []string
}

// nameKeywords are checked in order against the lowercased item name.
// Food is checked first so "dinner" is not caught by "inn".
var nameKeywords = []keywordList{
	{types.ExpenseFood, []string{
		"restaurant", "cafe", "café", "bakery", "bistro", "dining", "kottu",
		"hoppers", "rice and curry", "seafood", "street food", "eatery",
		"tea room", "buffet", "breakfast", "lunch", "dinner",
	}},
	{types.ExpenseAccommodation, []string{
		"hotel", "resort", "stay", "homestay", "hostel", "lodge", "inn", "villa",
	}},
	{types.ExpenseTransportation, []string{
		"taxi", "transfer", "train", "bus", "transport", "tuk-tuk",
	}},
}

// CategorizeExpense classifies item by its explicit type, then its explicit
// category, then name keywords. Anything unmatched is an activity.
func CategorizeExpense(item types.ExpenseItem) types.ExpenseCategory {
	for _, field := range []string{item.Type, item.Category} {
		if c, ok := explicitCategories[strings.ToLower(strings.TrimSpace(field))]; ok {
			return c
		}
	}

	name := strings.ToLower(item.Name)
	for _, list := range nameKeywords {
		for _, kw := range list.keywords {
			if strings.Contains(name, kw) {
				return list.category
			}
		}
	}
	return types.ExpenseActivities
}

// FitInput is a candidate item checked against an allocation. An empty
// Category is derived with CategorizeExpense.
type FitInput struct {
	Item       types.ExpenseItem
	Allocation *types.BudgetAllocation
	Category   types.ExpenseCategory
}

// CheckBudgetFit compares the item's cost with what its category has left.
// The allocation is not modified. Remaining is what the category would have
// left after the item, never below zero. A negative cost counts as zero.
func CheckBudgetFit(in FitInput) types.BudgetFit {
	category := in.Category
	if category == "" {
		category = CategorizeExpense(in.Item)
	}
	bucket := category.BudgetCategory()

	var available int64
	if in.Allocation != nil {
		available = in.Allocation.Categories[bucket].Remaining
	}

	cost := max(in.Item.Cost, 0)
	fit := types.BudgetFit{Category: bucket}
	if cost <= available {
		fit.Fits = true
		fit.Remaining = available - cost
		return fit
	}

	fit.Overage = cost - available
	fit.Warning = fmt.Sprintf("%s exceeds the remaining %s budget by %s",
		displayName(in.Item.Name), bucket, valueobjects.LKRAmount(fit.Overage))
	return fit
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "This item"
	}
	return name
}
