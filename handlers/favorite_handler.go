package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperrors "github.com/serendibtrip/serendibtrip-api/errors"
	"github.com/serendibtrip/serendibtrip-api/store"
	"github.com/serendibtrip/serendibtrip-api/types"
)

// FavoriteHandler manages the caller's bookmarked places.
type FavoriteHandler struct {
	favorites store.FavoriteStore
	newID     func() string
}

func NewFavoriteHandler(favorites store.FavoriteStore) *FavoriteHandler {
	return &FavoriteHandler{
		favorites: favorites,
		newID:     uuid.NewString,
	}
}

// ListFavoritesHandler godoc
// @Summary List favorites
// @Tags favorites
// @Produce json
// @Success 200 {array} types.Favorite
// @Failure 401 {object} types.ErrorResponse
// @Router /favorites [get]
// @Security BearerAuth
func (h *FavoriteHandler) ListFavoritesHandler(c *gin.Context) {
	favs, err := h.favorites.ListFavorites(c.Request.Context(), getUserIDFromContext(c))
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	if favs == nil {
		favs = []*types.Favorite{}
	}
	c.JSON(http.StatusOK, favs)
}

// AddFavoriteHandler godoc
// @Summary Bookmark an item
// @Tags favorites
// @Accept json
// @Produce json
// @Param request body types.FavoriteCreate true "Item"
// @Success 201 {object} types.Favorite
// @Failure 400 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse "Already saved"
// @Router /favorites [post]
// @Security BearerAuth
func (h *FavoriteHandler) AddFavoriteHandler(c *gin.Context) {
	var req types.FavoriteCreate
	if !bindJSONOrError(c, &req) {
		return
	}
	if !req.ItemType.IsValid() {
		_ = c.Error(apperrors.ValidationFailed("Invalid item type", "itemType must be attraction, restaurant, accommodation or destination"))
		return
	}
	name := strings.TrimSpace(req.ItemName)
	if name == "" {
		_ = c.Error(apperrors.ValidationFailed("Invalid item name", "itemName must not be blank"))
		return
	}

	fav := &types.Favorite{
		ID:       h.newID(),
		UserID:   getUserIDFromContext(c),
		ItemType: req.ItemType,
		ItemName: name,
		Payload:  req.Payload,
	}
	if err := h.favorites.AddFavorite(c.Request.Context(), fav); err != nil {
		if errors.Is(err, store.ErrConflict) {
			_ = c.Error(apperrors.NewConflictError("Already in favorites", name))
			return
		}
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	c.JSON(http.StatusCreated, fav)
}

// DeleteFavoriteHandler godoc
// @Summary Remove a favorite
// @Tags favorites
// @Param id path string true "Favorite ID"
// @Success 204
// @Failure 404 {object} types.ErrorResponse
// @Router /favorites/{id} [delete]
// @Security BearerAuth
func (h *FavoriteHandler) DeleteFavoriteHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.favorites.DeleteFavorite(c.Request.Context(), getUserIDFromContext(c), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = c.Error(apperrors.NotFound("Favorite", id))
			return
		}
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	c.Status(http.StatusNoContent)
}
