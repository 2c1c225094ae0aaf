package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/serendibtrip/serendibtrip-api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBudgetRouter() *gin.Engine {
	r := newTestRouter("")
	h := NewBudgetHandler()
	r.POST("/v1/budget/allocation", h.AllocationHandler)
	r.POST("/v1/budget/categorize", h.CategorizeHandler)
	r.POST("/v1/budget/fit", h.FitHandler)
	r.POST("/v1/pricing/estimate", h.PriceEstimateHandler)
	return r
}

func TestAllocationHandler(t *testing.T) {
	r := setupBudgetRouter()

	w := doJSON(r, http.MethodPost, "/v1/budget/allocation", types.BudgetAllocationRequest{
		TotalBudget: 100000,
		Duration:    4,
		GroupSize:   2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var alloc types.BudgetAllocation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alloc))
	assert.Equal(t, int64(100000), alloc.TotalBudget)
	assert.Len(t, alloc.DailyBreakdown, 4)
	assert.Equal(t, types.BudgetStatusOK, alloc.Status)

	w = doJSON(r, http.MethodPost, "/v1/budget/allocation", types.BudgetAllocationRequest{TotalBudget: 100000})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/v1/budget/allocation", types.BudgetAllocationRequest{
		TotalBudget: 100000,
		Duration:    5,
		GroupSize:   2,
		SavedItems:  []types.SavedItem{{Name: "Refund", Type: "restaurant", Cost: -20000}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFitHandler(t *testing.T) {
	alloc := types.BudgetAllocation{
		Categories: map[types.BudgetCategory]types.CategoryBudget{
			types.BudgetFood:       {Remaining: 5000},
			types.BudgetTransport:  {Remaining: 3000},
			types.BudgetActivities: {Remaining: 1000},
		},
	}

	tests := []struct {
		name         string
		body         interface{}
		wantStatus   int
		wantFits     bool
		wantCategory types.BudgetCategory
	}{
		{
			name:         "derived category fits",
			body:         types.BudgetFitRequest{Item: types.ExpenseItem{Name: "Lunch", Type: "restaurant", Cost: 2000}, Allocation: alloc},
			wantStatus:   http.StatusOK,
			wantFits:     true,
			wantCategory: types.BudgetFood,
		},
		{
			name:         "explicit category over budget",
			body:         types.BudgetFitRequest{Item: types.ExpenseItem{Name: "Private driver", Cost: 4000}, Allocation: alloc, Category: types.ExpenseTransportation},
			wantStatus:   http.StatusOK,
			wantFits:     false,
			wantCategory: types.BudgetTransport,
		},
		{
			name:       "unknown category",
			body:       types.BudgetFitRequest{Item: types.ExpenseItem{Name: "Souvenirs", Cost: 500}, Allocation: alloc, Category: "bogus"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "allocation bucket is not an expense category",
			body:       types.BudgetFitRequest{Item: types.ExpenseItem{Name: "Souvenirs", Cost: 500}, Allocation: alloc, Category: "misc"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative cost",
			body:       types.BudgetFitRequest{Item: types.ExpenseItem{Name: "Voucher", Cost: -100}, Allocation: alloc},
			wantStatus: http.StatusBadRequest,
		},
	}

	r := setupBudgetRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/v1/budget/fit", tt.body)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var fit types.BudgetFit
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fit))
			assert.Equal(t, tt.wantFits, fit.Fits)
			assert.Equal(t, tt.wantCategory, fit.Category)
		})
	}
}

func TestCategorizeHandler(t *testing.T) {
	tests := []struct {
		item types.ExpenseItem
		want types.ExpenseCategory
	}{
		{types.ExpenseItem{Name: "Ministry of Crab", Type: "restaurant"}, types.ExpenseFood},
		{types.ExpenseItem{Name: "Dinner at the Inn"}, types.ExpenseFood},
		{types.ExpenseItem{Name: "Cinnamon Grand Hotel"}, types.ExpenseAccommodation},
		{types.ExpenseItem{Name: "Sigiriya Rock"}, types.ExpenseActivities},
	}

	r := setupBudgetRouter()
	for _, tt := range tests {
		t.Run(tt.item.Name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/v1/budget/categorize", tt.item)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, string(tt.want), decodeBody(t, w)["category"])
		})
	}
}

func TestPriceEstimateHandler(t *testing.T) {
	r := setupBudgetRouter()
	cost := int64(2500)

	w := doJSON(r, http.MethodPost, "/v1/pricing/estimate", types.PriceEstimateRequest{
		Items: []types.PricedItem{{Name: "Spice garden tour", Cost: &cost}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.PriceEstimateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	require.NotNil(t, resp.Items[0].Price.Exact)
	assert.Equal(t, cost, *resp.Items[0].Price.Exact)
	assert.Equal(t, types.PriceSourceExplicit, resp.Items[0].Price.Source)

	w = doJSON(r, http.MethodPost, "/v1/pricing/estimate", types.PriceEstimateRequest{
		Items: []types.PricedItem{{Name: "Spice garden tour", Cost: &cost}, {Category: "restaurant"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var batch types.PriceEstimateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	require.Len(t, batch.Items, 2)
	assert.Equal(t, types.PriceSourceCategory, batch.Items[1].Price.Source)
	assert.NotNil(t, batch.Items[1].Price.Range)

	w = doJSON(r, http.MethodPost, "/v1/pricing/estimate", types.PriceEstimateRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
