package fanout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/relationship"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/similarity"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// DefaultTimeout bounds a single propagation call. A propagation that runs
// past it is abandoned and logged like any other auxiliary failure.
const DefaultTimeout = 10 * time.Second

// Synchronizer mirrors canonical-store mutations into the relationship and
// similarity stores. Every call is fire-and-forget: the propagation runs on
// its own goroutine and any failure is logged and swallowed, never surfaced
// to the caller. The primary store stays the single source of truth and the
// projections may legitimately lag.
//
// Propagations for the same entity id run strictly in mutation order. A
// later replace-all-edges update racing ahead of an earlier one would wipe
// newer data, so each entity id carries a chain of done channels and every
// new propagation waits on its predecessor. Different entities proceed
// concurrently.
type Synchronizer struct {
	relationships *relationship.Store
	similarities  *similarity.Store
	timeout       time.Duration
	logger        *slog.Logger

	mu   sync.Mutex
	tail map[string]chan struct{}
	wg   sync.WaitGroup
}

// NewSynchronizer creates a fan-out synchronizer over the two auxiliary
// store adapters. A non-positive timeout falls back to DefaultTimeout.
func NewSynchronizer(relationships *relationship.Store, similarities *similarity.Store, timeout time.Duration, logger *slog.Logger) *Synchronizer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Synchronizer{
		relationships: relationships,
		similarities:  similarities,
		timeout:       timeout,
		logger:        logger.With("component", "fanout"),
		tail:          make(map[string]chan struct{}),
	}
}

// UserCreated mirrors a new user into the graph projection.
func (s *Synchronizer) UserCreated(user *model.User) {
	u := *user
	s.enqueue(u.ID.String(), "user.created", func(ctx context.Context) error {
		return s.relationships.UpsertUser(ctx, &u)
	})
}

// UserUpdated replaces the user's node properties and attribute edges.
func (s *Synchronizer) UserUpdated(user *model.User) {
	u := *user
	s.enqueue(u.ID.String(), "user.updated", func(ctx context.Context) error {
		return s.relationships.UpdateUser(ctx, &u)
	})
}

// UserDeleted removes the user node and all its edges.
func (s *Synchronizer) UserDeleted(id types.ID) {
	s.enqueue(id.String(), "user.deleted", func(ctx context.Context) error {
		return s.relationships.RemoveUser(ctx, id)
	})
}

// RecipeCreated mirrors a new recipe into the graph projection.
func (s *Synchronizer) RecipeCreated(recipe *model.Recipe) {
	r := *recipe
	s.enqueue(r.ID.String(), "recipe.created", func(ctx context.Context) error {
		return s.relationships.UpsertRecipe(ctx, &r)
	})
}

// RecipeUpdated replaces the recipe's node properties and attribute edges
// and rebuilds its similarity projection.
func (s *Synchronizer) RecipeUpdated(recipe *model.Recipe) {
	r := *recipe
	s.enqueue(r.ID.String(), "recipe.updated", func(ctx context.Context) error {
		if err := s.relationships.UpdateRecipe(ctx, &r); err != nil {
			return err
		}
		return s.similarities.UpdateProjection(ctx, &r)
	})
}

// RecipeDeleted removes the recipe from both projections.
func (s *Synchronizer) RecipeDeleted(id types.ID) {
	s.enqueue(id.String(), "recipe.deleted", func(ctx context.Context) error {
		if err := s.relationships.RemoveRecipe(ctx, id); err != nil {
			return err
		}
		return s.similarities.Remove(ctx, id)
	})
}

// ReviewCreated propagates a durably-recorded review: a REVIEWED edge in
// the graph and a projection rebuild for the parent recipe, whose aggregate
// rating the caller has already updated.
func (s *Synchronizer) ReviewCreated(review *model.Review, recipe *model.Recipe) {
	rev := *review
	r := *recipe
	s.enqueue(r.ID.String(), "review.created", func(ctx context.Context) error {
		if err := s.relationships.AddReview(ctx, &rev); err != nil {
			return err
		}
		return s.similarities.UpdateProjection(ctx, &r)
	})
}

// BookToggled mirrors a booking toggle as a BOOKED edge. Serialized on the
// user id: the same user booking and unbooking rapidly must land in order.
func (s *Synchronizer) BookToggled(userID, recipeID types.ID, booked bool) {
	op := "book.removed"
	if booked {
		op = "book.added"
	}
	s.enqueue(userID.String(), op, func(ctx context.Context) error {
		if booked {
			return s.relationships.AddBooked(ctx, userID, recipeID)
		}
		return s.relationships.RemoveBooked(ctx, userID, recipeID)
	})
}

// Wait blocks until every enqueued propagation has finished. Used by tests
// and graceful shutdown; normal request handling never calls it.
func (s *Synchronizer) Wait() {
	s.wg.Wait()
}

// enqueue schedules fn behind every earlier propagation for the same
// entity id.
func (s *Synchronizer) enqueue(entityID, op string, fn func(context.Context) error) {
	done := make(chan struct{})

	s.mu.Lock()
	prev := s.tail[entityID]
	s.tail[entityID] = done
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			close(done)
			s.mu.Lock()
			if s.tail[entityID] == done {
				delete(s.tail, entityID)
			}
			s.mu.Unlock()
		}()

		if prev != nil {
			<-prev
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.logger.Error("propagation failed",
				"op", op,
				"entity_id", entityID,
				"error", err)
			return
		}
		s.logger.Debug("propagation complete", "op", op, "entity_id", entityID)
	}()
}
