package types

// PriceSource records which rule produced a PriceInfo.
type PriceSource string

const (
	PriceSourceExplicit   PriceSource = "explicit"
	PriceSourceKnownPlace PriceSource = "known"
	PriceSourceAIEstimate PriceSource = "ai_estimate"
	PriceSourceCategory   PriceSource = "category"
)

type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// PriceInfo carries either an exact price or a range, never both.
type PriceInfo struct {
	Exact      *int64      `json:"exact,omitempty"`
	Range      *PriceRange `json:"range,omitempty"`
	IsEstimate bool        `json:"isEstimate"`
	IsFree     bool        `json:"isFree"`
	Source     PriceSource `json:"source"`
	Display    string      `json:"display,omitempty"`
}

// PricedItem is anything the pricing table can price: an activity, an AI
// recommendation or a bare name. Cost and EntryFee are explicit prices;
// EstimatedCost is an AI guess.
type PricedItem struct {
	Name          string `json:"name"`
	Category      string `json:"category,omitempty"`
	Cost          *int64 `json:"cost,omitempty"`
	EntryFee      *int64 `json:"entryFee,omitempty"`
	EstimatedCost *int64 `json:"estimatedCost,omitempty"`
}

// PriceEstimateRequest is the body of POST /v1/pricing/estimate.
type PriceEstimateRequest struct {
	Items []PricedItem `json:"items" binding:"required,min=1,dive"`
}

type PricedItemResult struct {
	Name  string    `json:"name"`
	Price PriceInfo `json:"price"`
}

type PriceEstimateResponse struct {
	Items []PricedItemResult `json:"items"`
}
