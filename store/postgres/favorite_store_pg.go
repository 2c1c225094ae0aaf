package postgres

import (
	"context"
	"fmt"

	"github.com/serendibtrip/serendibtrip-api/store"
	"github.com/serendibtrip/serendibtrip-api/types"
)

var _ store.FavoriteStore = (*pgFavoriteStore)(nil)

type pgFavoriteStore struct {
	db DBTX
}

func NewPgFavoriteStore(db DBTX) store.FavoriteStore {
	return &pgFavoriteStore{db: db}
}

func (s *pgFavoriteStore) ListFavorites(ctx context.Context, userID string) ([]*types.Favorite, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, item_type, item_name, payload, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]*types.Favorite, 0)
	for rows.Next() {
		var (
			f        types.Favorite
			itemType string
			payload  []byte
		)
		if err := rows.Scan(&f.ID, &f.UserID, &itemType, &f.ItemName, &payload, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		f.ItemType = types.FavoriteItemType(itemType)
		f.Payload = payload
		favorites = append(favorites, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorites: %w", err)
	}
	return favorites, nil
}

func (s *pgFavoriteStore) AddFavorite(ctx context.Context, fav *types.Favorite) error {
	var payload []byte
	if len(fav.Payload) > 0 {
		payload = fav.Payload
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO favorites (id, user_id, item_type, item_name, payload)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		fav.ID, fav.UserID, string(fav.ItemType), fav.ItemName, payload,
	).Scan(&fav.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict
		}
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

func (s *pgFavoriteStore) DeleteFavorite(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM favorites WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
