package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/serendibtrip/serendibtrip-api/models/budget"
	"github.com/serendibtrip/serendibtrip-api/models/pricing"
	"github.com/serendibtrip/serendibtrip-api/types"
)

// BudgetHandler exposes the stateless budget and pricing calculators. None
// of its routes need an identity.
type BudgetHandler struct{}

func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{}
}

// AllocationHandler godoc
// @Summary Split a trip budget into categories
// @Tags budget
// @Accept json
// @Produce json
// @Param request body types.BudgetAllocationRequest true "Budget input"
// @Success 200 {object} types.BudgetAllocation
// @Failure 400 {object} types.ErrorResponse
// @Router /budget/allocation [post]
func (h *BudgetHandler) AllocationHandler(c *gin.Context) {
	var req types.BudgetAllocationRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	alloc, err := budget.CalculateBudgetAllocation(budget.BudgetInput{
		TotalBudget: req.TotalBudget,
		Duration:    req.Duration,
		GroupSize:   req.GroupSize,
		Interests:   req.Interests,
		SavedItems:  req.SavedItems,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, alloc)
}

// CategorizeHandler godoc
// @Summary Classify an expense item
// @Tags budget
// @Accept json
// @Produce json
// @Param request body types.ExpenseItem true "Item"
// @Success 200 {object} types.CategorizeResponse
// @Failure 400 {object} types.ErrorResponse
// @Router /budget/categorize [post]
func (h *BudgetHandler) CategorizeHandler(c *gin.Context) {
	var item types.ExpenseItem
	if !bindJSONOrError(c, &item) {
		return
	}
	c.JSON(http.StatusOK, types.CategorizeResponse{Category: budget.CategorizeExpense(item)})
}

// FitHandler godoc
// @Summary Check whether an item fits the remaining budget
// @Description Advisory only; the allocation is not modified.
// @Tags budget
// @Accept json
// @Produce json
// @Param request body types.BudgetFitRequest true "Item and allocation"
// @Success 200 {object} types.BudgetFit
// @Failure 400 {object} types.ErrorResponse
// @Router /budget/fit [post]
func (h *BudgetHandler) FitHandler(c *gin.Context) {
	var req types.BudgetFitRequest
	if !bindJSONOrError(c, &req) {
		return
	}
	c.JSON(http.StatusOK, budget.CheckBudgetFit(budget.FitInput{
		Item:       req.Item,
		Allocation: &req.Allocation,
		Category:   req.Category,
	}))
}

// PriceEstimateHandler godoc
// @Summary Price a batch of items
// @Description Explicit prices win, then known attraction fees, then AI estimates, then category ranges.
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body types.PriceEstimateRequest true "Items"
// @Success 200 {object} types.PriceEstimateResponse
// @Failure 400 {object} types.ErrorResponse
// @Router /pricing/estimate [post]
func (h *BudgetHandler) PriceEstimateHandler(c *gin.Context) {
	var req types.PriceEstimateRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	resp := types.PriceEstimateResponse{Items: make([]types.PricedItemResult, 0, len(req.Items))}
	for _, item := range req.Items {
		resp.Items = append(resp.Items, types.PricedItemResult{Name: item.Name, Price: pricing.GetItemPrice(item)})
	}
	c.JSON(http.StatusOK, resp)
}
