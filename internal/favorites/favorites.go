package favorites

import (
	"context"
	"encoding/json"
	"time"

	"storefront-service/internal/kvstore"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Item is a favorited product. Identity is the product ID alone; AddedAt is
// set at insertion and round-trips through the snapshot as RFC3339.
type Item struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Price   float64   `json:"price"`
	Image   string    `json:"image"`
	AddedAt time.Time `json:"addedAt"`
}

// List is an owner's favorites, newest first.
type List []Item

// Contains reports whether the product is already favorited.
func (l List) Contains(productID string) bool {
	for _, it := range l {
		if it.ID == productID {
			return true
		}
	}
	return false
}

// Add prepends the item. Adding an already-favorited product is a no-op.
func (l List) Add(item Item) List {
	if l.Contains(item.ID) {
		return l
	}
	out := make(List, 0, len(l)+1)
	out = append(out, item)
	out = append(out, l...)
	return out
}

// Remove drops the product from the list. Absent IDs are a no-op.
func (l List) Remove(productID string) List {
	out := make(List, 0, len(l))
	for _, it := range l {
		if it.ID != productID {
			out = append(out, it)
		}
	}
	return out
}

// Restore rebuilds a favorites list from a persisted snapshot; malformed data
// is treated as no prior favorites.
func Restore(data []byte, logger *zap.Logger) List {
	if len(data) == 0 {
		return List{}
	}
	var l List
	if err := json.Unmarshal(data, &l); err != nil {
		if logger != nil {
			logger.Warn("Discarding malformed favorites snapshot", zap.Error(err))
		}
		return List{}
	}
	return l
}

// Service owns favorites per owner with the same load-mutate-persist
// discipline as the cart.
type Service struct {
	kv     *kvstore.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a favorites service backed by the given snapshot store.
func NewService(kv *kvstore.Client) *Service {
	return &Service{
		kv:     kv,
		logger: util.GetLogger(),
		now:    time.Now,
	}
}

// Get returns the owner's favorites, newest first.
func (s *Service) Get(ctx context.Context, ownerID string) List {
	ctx, span := util.StartSpan(ctx, "FavoritesService.Get")
	defer span.End()

	data, err := s.kv.GetSnapshot(ctx, kvstore.FavoritesKey(ownerID))
	if err != nil {
		s.logger.Warn("Failed to load favorites snapshot, starting empty",
			zap.String("owner_id", ownerID),
			zap.Error(err))
		return List{}
	}
	return Restore(data, s.logger)
}

// Add favorites a product for the owner. Duplicates are no-ops.
func (s *Service) Add(ctx context.Context, ownerID string, item Item) List {
	ctx, span := util.StartSpan(ctx, "FavoritesService.Add")
	defer span.End()

	if item.AddedAt.IsZero() {
		item.AddedAt = s.now()
	}
	list := s.Get(ctx, ownerID).Add(item)
	s.persist(ctx, ownerID, list)
	util.FavoriteOperationsTotal.WithLabelValues("add").Inc()
	return list
}

// Remove unfavorites a product for the owner.
func (s *Service) Remove(ctx context.Context, ownerID, productID string) List {
	ctx, span := util.StartSpan(ctx, "FavoritesService.Remove")
	defer span.End()

	list := s.Get(ctx, ownerID).Remove(productID)
	s.persist(ctx, ownerID, list)
	util.FavoriteOperationsTotal.WithLabelValues("remove").Inc()
	return list
}

// Clear removes every favorite for the owner by dropping the snapshot.
func (s *Service) Clear(ctx context.Context, ownerID string) List {
	ctx, span := util.StartSpan(ctx, "FavoritesService.Clear")
	defer span.End()

	if err := s.kv.DeleteSnapshot(ctx, kvstore.FavoritesKey(ownerID)); err != nil {
		s.logger.Warn("Failed to delete favorites snapshot",
			zap.String("owner_id", ownerID),
			zap.Error(err))
	}
	util.FavoriteOperationsTotal.WithLabelValues("clear").Inc()
	return List{}
}

func (s *Service) persist(ctx context.Context, ownerID string, list List) {
	data, err := json.Marshal(list)
	if err != nil {
		s.logger.Error("Failed to encode favorites snapshot",
			zap.String("owner_id", ownerID),
			zap.Error(err))
		return
	}
	if err := s.kv.SetSnapshot(ctx, kvstore.FavoritesKey(ownerID), data); err != nil {
		s.logger.Warn("Failed to persist favorites snapshot",
			zap.String("owner_id", ownerID),
			zap.Error(err))
	}
}
