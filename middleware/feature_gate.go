package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/serendibtrip/serendibtrip-api/logger"
	"github.com/serendibtrip/serendibtrip-api/models/featuregate"
	"github.com/serendibtrip/serendibtrip-api/types"
)

// FeatureAcquirer reserves one use of a gated feature.
type FeatureAcquirer interface {
	Acquire(ctx context.Context, actor types.Actor, name types.FeatureName) (types.FeatureAccess, featuregate.Release, error)
}

// RequireFeature reserves one use of name before the handler runs and
// refunds it when the handler fails, so failed AI calls do not burn quota.
func RequireFeature(gate FeatureAcquirer, name types.FeatureName) gin.HandlerFunc {
	return func(c *gin.Context) {
		access, release, err := gate.Acquire(c.Request.Context(), GetActor(c), name)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(string(FeatureAccessKey), access)
		if access.Remaining != nil {
			c.Header("X-Feature-Remaining", strconv.Itoa(*access.Remaining))
		}

		c.Next()

		if len(c.Errors) == 0 && c.Writer.Status() < http.StatusInternalServerError {
			return
		}
		if err := release(context.WithoutCancel(c.Request.Context())); err != nil {
			logger.GetLogger().Warnw("Failed to refund feature usage",
				"feature", name,
				"userID", c.GetString(string(UserIDKey)),
				"error", err)
		}
	}
}
