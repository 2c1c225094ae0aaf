// Package pricing estimates what a place or activity costs to visit.
package pricing

import (
	"fmt"
	"strings"

	"github.com/serendibtrip/serendibtrip-api/pkg/valueobjects"
	"github.com/serendibtrip/serendibtrip-api/types"
	"github.com/shopspring/decimal"
)

var (
	estimateLow  = decimal.NewFromFloat(0.8)
	estimateHigh = decimal.NewFromFloat(1.2)
)

// GetItemPrice resolves a price for item. It never fails; the broadest
// fallback is the attraction range.
func GetItemPrice(item types.PricedItem) types.PriceInfo {
	info := resolve(item)
	info.Display = FormatPrice(info)
	return info
}

func resolve(item types.PricedItem) types.PriceInfo {
	if explicit := explicitPrice(item); explicit != nil {
		v := *explicit
		return types.PriceInfo{
			Exact:  &v,
			IsFree: v == 0,
			Source: types.PriceSourceExplicit,
		}
	}

	if price, ok := LookupKnownPlace(item.Name); ok {
		return types.PriceInfo{
			Exact:  &price,
			IsFree: price == 0,
			Source: types.PriceSourceKnownPlace,
		}
	}

	if item.EstimatedCost != nil {
		est := decimal.NewFromInt(*item.EstimatedCost)
		return types.PriceInfo{
			Range: &types.PriceRange{
				Min: valueobjects.RoundHalfAwayFromZero(est.Mul(estimateLow)),
				Max: valueobjects.RoundHalfAwayFromZero(est.Mul(estimateHigh)),
			},
			IsEstimate: true,
			IsFree:     *item.EstimatedCost == 0,
			Source:     types.PriceSourceAIEstimate,
		}
	}

	r := CategoryRange(item.Category)
	return types.PriceInfo{
		Range:      &r,
		IsEstimate: true,
		Source:     types.PriceSourceCategory,
	}
}

// explicitPrice prefers Cost over EntryFee.
func explicitPrice(item types.PricedItem) *int64 {
	if item.Cost != nil {
		return item.Cost
	}
	return item.EntryFee
}

// LookupKnownPlace matches name case-insensitively against the known place
// table. The first fragment found in name wins.
func LookupKnownPlace(name string) (int64, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return 0, false
	}
	for _, p := range knownPlaces {
		if strings.Contains(lower, p.match) {
			return p.price, true
		}
	}
	return 0, false
}

// CategoryRange returns the default band for category, falling back to the
// attraction band.
func CategoryRange(category string) types.PriceRange {
	key := normalizeCategory(category)
	if r, ok := categoryRanges[key]; ok {
		return r
	}
	if alias, ok := categoryAliases[key]; ok {
		return categoryRanges[alias]
	}
	return categoryRanges[defaultCategory]
}

func normalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	c = strings.NewReplacer(" ", "_", "-", "_").Replace(c)
	return c
}

// FormatPrice renders a price for display, e.g. "Free", "LKR 2,500" or
// "LKR 1,000 – 5,000".
func FormatPrice(info types.PriceInfo) string {
	switch {
	case info.Exact != nil:
		if *info.Exact == 0 {
			return "Free"
		}
		return valueobjects.LKRAmount(*info.Exact).String()
	case info.Range != nil:
		if info.Range.Max == 0 {
			return "Free"
		}
		if info.Range.Min == info.Range.Max {
			return "~" + valueobjects.LKRAmount(info.Range.Min).String()
		}
		return fmt.Sprintf("%s %s – %s",
			valueobjects.DefaultCurrency,
			valueobjects.GroupThousands(info.Range.Min),
			valueobjects.GroupThousands(info.Range.Max),
		)
	default:
		return ""
	}
}

// PriceRecommendation prices an AI suggestion, treating its entry fee as
// explicit and its estimated cost as a guess.
func PriceRecommendation(item types.RecommendedItem) types.PriceInfo {
	return GetItemPrice(types.PricedItem{
		Name:          item.Name,
		Category:      firstNonEmpty(item.Category, item.Type),
		EntryFee:      item.EntryFee,
		EstimatedCost: item.EstimatedCost,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
