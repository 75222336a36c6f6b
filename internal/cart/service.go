package cart

import (
	"context"
	"encoding/json"

	"storefront-service/internal/kvstore"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Service owns cart state per owner: each mutation loads the persisted
// snapshot, applies one transition and writes the result back, so the
// snapshot in Redis always reflects a fully settled state. Transitions never
// fail; persistence problems are absorbed and logged, per the storage
// contract the storefront client had with localStorage.
type Service struct {
	kv     *kvstore.Client
	logger *zap.Logger
}

// NewService creates a cart service backed by the given snapshot store.
func NewService(kv *kvstore.Client) *Service {
	return &Service{
		kv:     kv,
		logger: util.GetLogger(),
	}
}

// Get returns the owner's current cart, restoring it from the persisted
// snapshot. A missing or malformed snapshot yields the empty cart.
func (s *Service) Get(ctx context.Context, ownerID string) State {
	ctx, span := util.StartSpan(ctx, "CartService.Get")
	defer span.End()

	data, err := s.kv.GetSnapshot(ctx, kvstore.CartKey(ownerID))
	if err != nil {
		s.logger.Warn("Failed to load cart snapshot, starting empty",
			zap.String("owner_id", ownerID),
			zap.Error(err))
		return NewState()
	}
	return Restore(data, s.logger)
}

// AddItem adds one unit of the item to the owner's cart.
func (s *Service) AddItem(ctx context.Context, ownerID string, item LineItem) State {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	state := s.Get(ctx, ownerID).AddItem(item)
	s.persist(ctx, ownerID, state)
	util.CartOperationsTotal.WithLabelValues("add").Inc()
	return state
}

// UpdateQuantity sets the quantity of the line item matching key; zero or
// negative removes it.
func (s *Service) UpdateQuantity(ctx context.Context, ownerID, key string, quantity int) State {
	ctx, span := util.StartSpan(ctx, "CartService.UpdateQuantity")
	defer span.End()

	state := s.Get(ctx, ownerID).UpdateQuantity(key, quantity)
	s.persist(ctx, ownerID, state)
	util.CartOperationsTotal.WithLabelValues("update").Inc()
	return state
}

// RemoveItem drops the line item matching key.
func (s *Service) RemoveItem(ctx context.Context, ownerID, key string) State {
	ctx, span := util.StartSpan(ctx, "CartService.RemoveItem")
	defer span.End()

	state := s.Get(ctx, ownerID).RemoveItem(key)
	s.persist(ctx, ownerID, state)
	util.CartOperationsTotal.WithLabelValues("remove").Inc()
	return state
}

// Clear empties the owner's cart.
func (s *Service) Clear(ctx context.Context, ownerID string) State {
	ctx, span := util.StartSpan(ctx, "CartService.Clear")
	defer span.End()

	state := s.Get(ctx, ownerID).Clear()
	s.persist(ctx, ownerID, state)
	util.CartOperationsTotal.WithLabelValues("clear").Inc()
	return state
}

func (s *Service) persist(ctx context.Context, ownerID string, state State) {
	data, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("Failed to encode cart snapshot",
			zap.String("owner_id", ownerID),
			zap.Error(err))
		util.CartPersistFailures.Inc()
		return
	}
	if err := s.kv.SetSnapshot(ctx, kvstore.CartKey(ownerID), data); err != nil {
		s.logger.Warn("Failed to persist cart snapshot",
			zap.String("owner_id", ownerID),
			zap.Error(err))
		util.CartPersistFailures.Inc()
	}
}
