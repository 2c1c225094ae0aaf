package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/serendibtrip/serendibtrip-api/errors"
	"github.com/serendibtrip/serendibtrip-api/store"
	"github.com/serendibtrip/serendibtrip-api/types"
	"go.uber.org/zap"
)

// NotificationHandler handles the caller's notification preferences.
type NotificationHandler struct {
	settings store.NotificationSettingsStore
	logger   *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(settings store.NotificationSettingsStore, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		settings: settings,
		logger:   logger.Named("NotificationHandler"),
	}
}

// GetSettingsHandler godoc
// @Summary Get notification settings
// @Description Users who never saved settings get the defaults.
// @Tags notifications
// @Produce json
// @Success 200 {object} types.NotificationSettings
// @Failure 401 {object} types.ErrorResponse
// @Router /users/me/notification-settings [get]
// @Security BearerAuth
func (h *NotificationHandler) GetSettingsHandler(c *gin.Context) {
	settings, err := h.load(c, getUserIDFromContext(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettingsHandler godoc
// @Summary Update notification settings
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body types.NotificationSettingsUpdate true "Fields to change"
// @Success 200 {object} types.NotificationSettings
// @Failure 400 {object} types.ErrorResponse
// @Router /users/me/notification-settings [put]
// @Security BearerAuth
func (h *NotificationHandler) UpdateSettingsHandler(c *gin.Context) {
	var update types.NotificationSettingsUpdate
	if !bindJSONOrError(c, &update) {
		return
	}

	userID := getUserIDFromContext(c)
	current, err := h.load(c, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	next := current.Apply(update)
	if err := h.settings.UpsertNotificationSettings(c.Request.Context(), &next); err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	h.logger.Info("Notification settings updated", zap.String("userID", userID))
	c.JSON(http.StatusOK, next)
}

func (h *NotificationHandler) load(c *gin.Context, userID string) (types.NotificationSettings, error) {
	settings, err := h.settings.GetNotificationSettings(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		return types.DefaultNotificationSettings(userID), nil
	}
	if err != nil {
		return types.NotificationSettings{}, apperrors.NewDatabaseError(err)
	}
	return *settings, nil
}
