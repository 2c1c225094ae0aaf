package gemini

import (
	"fmt"
	"strings"

	"github.com/serendibtrip/serendibtrip-api/types"
)

const recommendationSchema = `{
  "topAttractions": [{"name": "", "description": "", "category": "", "location": "", "lat": 0, "lng": 0, "rating": 0, "entryFee": 0, "duration": "", "bestTime": "", "tips": ""}],
  "recommendedRestaurants": [{"name": "", "description": "", "cuisine": "", "location": "", "priceRange": "", "estimatedCost": 0, "rating": 0}],
  "recommendedAccommodations": [{"name": "", "description": "", "type": "", "location": "", "priceRange": "", "estimatedCost": 0, "rating": 0}],
  "transportEstimate": {"mode": "", "estimatedCost": 0, "notes": ""},
  "budgetBreakdown": {"accommodation": 0, "food": 0, "transport": 0, "activities": 0, "misc": 0},
  "tripSummary": ""
}`

func recommendationPrompt(req types.RecommendationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a Sri Lanka travel planner. Suggest places for a trip to %s.\n", req.Destination)
	if req.StartDate != "" && req.EndDate != "" {
		fmt.Fprintf(&b, "Dates: %s to %s.\n", req.StartDate, req.EndDate)
	}
	if req.Duration > 0 {
		fmt.Fprintf(&b, "Duration: %d days.\n", req.Duration)
	}
	if req.GroupSize > 0 {
		fmt.Fprintf(&b, "Travellers: %d.\n", req.GroupSize)
	}
	if req.Budget > 0 {
		fmt.Fprintf(&b, "Total budget: LKR %d.\n", req.Budget)
	}
	if len(req.Interests) > 0 {
		fmt.Fprintf(&b, "Interests: %s.\n", strings.Join(req.Interests, ", "))
	}
	if req.AccommodationType != "" {
		fmt.Fprintf(&b, "Accommodation preference: %s.\n", req.AccommodationType)
	}
	if req.TransportMode != "" {
		fmt.Fprintf(&b, "Transport preference: %s.\n", req.TransportMode)
	}
	if len(req.Exclude) > 0 {
		fmt.Fprintf(&b, "Do not suggest these, they are already planned: %s.\n", strings.Join(req.Exclude, "; "))
	}
	b.WriteString("All prices are in Sri Lankan rupees as whole numbers. Omit fields you do not know.\n")
	b.WriteString("Respond with JSON only, matching this shape:\n")
	b.WriteString(recommendationSchema)
	return b.String()
}

func chatInstruction(req types.ChatRequest) string {
	s := "You are a friendly Sri Lanka travel assistant. Answer briefly and quote prices in LKR."
	if req.Destination != "" {
		s += fmt.Sprintf(" The traveller is planning a trip to %s.", req.Destination)
	}
	return s
}
