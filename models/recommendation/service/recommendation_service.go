package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	apperrors "github.com/serendibtrip/serendibtrip-api/errors"
	"github.com/serendibtrip/serendibtrip-api/logger"
	"github.com/serendibtrip/serendibtrip-api/models/pricing"
	"github.com/serendibtrip/serendibtrip-api/types"
	"golang.org/x/sync/singleflight"
)

const (
	cacheKeyPrefix = "recommendations:"
	// maxChatHistory bounds the conversation sent upstream.
	maxChatHistory = 20
)

// RecommendationService fronts the AI provider with a response cache and
// collapses concurrent identical requests into one upstream call.
type RecommendationService struct {
	provider types.RecommendationProvider
	cache    *cache.Cache
	flight   singleflight.Group
	metrics  *Metrics
	ttl      time.Duration
}

// NewRecommendationService wires the service. cache may be nil to disable
// caching; metrics may be nil.
func NewRecommendationService(provider types.RecommendationProvider, c *cache.Cache, ttl time.Duration, metrics *Metrics) *RecommendationService {
	return &RecommendationService{
		provider: provider,
		cache:    c,
		ttl:      ttl,
		metrics:  metrics,
	}
}

// GetRecommendations returns priced suggestions for a destination, with
// excluded names filtered out.
func (s *RecommendationService) GetRecommendations(ctx context.Context, req types.RecommendationRequest) (*types.RecommendationResponse, error) {
	req = normalizeRequest(req)
	if req.Destination == "" {
		return nil, apperrors.ValidationFailed("Invalid recommendation request", "destination is required")
	}

	key := cacheKey(req)
	if cached, ok := s.lookup(key); ok {
		s.metrics.observe("hit")
		return cached, nil
	}
	s.metrics.observe("miss")

	ch := s.flight.DoChan(key, func() (interface{}, error) {
		// Shared by every waiter; one caller leaving does not cancel it.
		resp, err := s.provider.Recommend(context.WithoutCancel(ctx), req)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			resp = &types.RecommendationResponse{}
		}
		out := prepare(*resp, req.Exclude)
		if s.cache != nil {
			s.cache.Set(key, out, s.ttl)
		}
		return out, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			logger.GetLogger().Errorw("Recommendation provider failed", "destination", req.Destination, "error", res.Err)
			return nil, apperrors.UpstreamUnavailable("AI recommendations", res.Err)
		}
		out := res.Val.(*types.RecommendationResponse)
		cp := *out
		return &cp, nil
	}
}

// Chat relays a travel question to the provider.
func (s *RecommendationService) Chat(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error) {
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return nil, apperrors.ValidationFailed("Invalid chat request", "message is required")
	}
	if len(req.History) > maxChatHistory {
		req.History = req.History[len(req.History)-maxChatHistory:]
	}

	resp, err := s.provider.Chat(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.GetLogger().Errorw("Chat provider failed", "error", err)
		return nil, apperrors.UpstreamUnavailable("AI chat", err)
	}
	if resp == nil {
		return &types.ChatResponse{}, nil
	}
	return resp, nil
}

func (s *RecommendationService) lookup(key string) (*types.RecommendationResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	cp := *v.(*types.RecommendationResponse)
	cp.Cached = true
	return &cp, true
}

// prepare drops excluded items and attaches prices. The input is not modified.
func prepare(resp types.RecommendationResponse, exclude []string) *types.RecommendationResponse {
	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	resp.TopAttractions = filterAndPrice(resp.TopAttractions, skip, "attraction")
	resp.RecommendedRestaurants = filterAndPrice(resp.RecommendedRestaurants, skip, "restaurant")
	resp.RecommendedAccommodations = filterAndPrice(resp.RecommendedAccommodations, skip, "accommodation")
	resp.Cached = false
	return &resp
}

func filterAndPrice(items []types.RecommendedItem, skip map[string]struct{}, fallbackCategory string) []types.RecommendedItem {
	out := make([]types.RecommendedItem, 0, len(items))
	for _, item := range items {
		if _, ok := skip[strings.ToLower(strings.TrimSpace(item.Name))]; ok {
			continue
		}
		if item.Category == "" && item.Type == "" {
			item.Category = fallbackCategory
		}
		price := pricing.PriceRecommendation(item)
		item.Price = &price
		out = append(out, item)
	}
	return out
}

func normalizeRequest(req types.RecommendationRequest) types.RecommendationRequest {
	req.Destination = strings.TrimSpace(req.Destination)
	req.Interests = types.NormalizeInterests(req.Interests)
	sort.Strings(req.Interests)

	exclude := make([]string, 0, len(req.Exclude))
	seen := make(map[string]struct{}, len(req.Exclude))
	for _, name := range req.Exclude {
		n := strings.TrimSpace(name)
		k := strings.ToLower(n)
		if n == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		exclude = append(exclude, n)
	}
	sort.Slice(exclude, func(i, j int) bool { return strings.ToLower(exclude[i]) < strings.ToLower(exclude[j]) })
	req.Exclude = exclude
	return req
}

func cacheKey(req types.RecommendationRequest) string {
	keyed := req
	keyed.Destination = strings.ToLower(req.Destination)
	keyed.Exclude = make([]string, len(req.Exclude))
	for i, name := range req.Exclude {
		keyed.Exclude[i] = strings.ToLower(name)
	}
	b, _ := json.Marshal(keyed)
	sum := sha256.Sum256(b)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
