package fanout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/graph"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/relationship"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/similarity"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/vector"
)

func newTestSynchronizer(t *testing.T) (*Synchronizer, *graph.MockClient, vector.VectorStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client := graph.NewMockClient()
	relationships := relationship.NewStore(client, false, logger)

	vectors := vector.NewEmbeddedVectorStore(16)
	similarities := similarity.NewStore(vectors, vector.NewMockEmbedder(16), false, logger)

	return NewSynchronizer(relationships, similarities, time.Second, logger), client, vectors
}

func TestSynchronizer_PerEntityOrdering(t *testing.T) {
	sync0, _, _ := newTestSynchronizer(t)

	var mu sync.Mutex
	var order []int

	// Ten propagations for one entity, each slower than the next would be
	// if they ran concurrently. FIFO per id means order survives anyway.
	id := types.NewID().String()
	for i := 0; i < 10; i++ {
		i := i
		sync0.enqueue(id, "test", func(ctx context.Context) error {
			if i == 0 {
				time.Sleep(50 * time.Millisecond)
			}
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
	}
	sync0.Wait()

	require.Len(t, order, 10)
	for i, got := range order {
		assert.Equal(t, i, got)
	}
}

func TestSynchronizer_DifferentEntitiesRunConcurrently(t *testing.T) {
	sync0, _, _ := newTestSynchronizer(t)

	release := make(chan struct{})
	fastDone := make(chan struct{})

	sync0.enqueue("slow-entity", "test", func(ctx context.Context) error {
		<-release
		return nil
	})
	sync0.enqueue("fast-entity", "test", func(ctx context.Context) error {
		close(fastDone)
		return nil
	})

	select {
	case <-fastDone:
	case <-time.After(time.Second):
		t.Fatal("independent entity blocked behind an unrelated propagation")
	}

	close(release)
	sync0.Wait()
}

func TestSynchronizer_ErrorsAreSwallowed(t *testing.T) {
	sync0, client, _ := newTestSynchronizer(t)
	client.SetWriteError(errors.New("neo4j unavailable"))

	user := &model.User{
		ID:        types.NewID(),
		Email:     "mulu@example.com",
		FirstName: "Mulu",
		LastName:  "Alemu",
	}

	// The caller never sees the failure; enqueue returns immediately and
	// Wait completes without incident.
	sync0.UserCreated(user)
	sync0.Wait()

	assert.NotEmpty(t, client.Calls())
}

func TestSynchronizer_RecipeDeletedClearsBothProjections(t *testing.T) {
	sync0, client, vectors := newTestSynchronizer(t)
	ctx := context.Background()

	recipe := &model.Recipe{
		ID:     types.NewID(),
		Name:   "Gomen",
		Status: model.RecipeStatusVerified,
	}
	require.NoError(t, vectors.Store(ctx, vector.VectorRecord{
		ID:        "surrogate-1",
		Ref:       recipe.ID.String(),
		Content:   "name: Gomen",
		Embedding: make([]float64, 16),
	}))

	sync0.RecipeDeleted(recipe.ID)
	sync0.Wait()

	writes := client.WriteCalls()
	require.Len(t, writes, 1)
	assert.Contains(t, writes[0].Cypher, "DETACH DELETE r")

	records, err := vectors.ListByRef(ctx, recipe.ID.String())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSynchronizer_ReviewCreated(t *testing.T) {
	sync0, client, _ := newTestSynchronizer(t)

	recipe := &model.Recipe{ID: types.NewID(), Name: "Gomen", Status: model.RecipeStatusVerified}
	review := &model.Review{
		ID:       types.NewID(),
		RecipeID: recipe.ID,
		User:     model.UserRef{ID: types.NewID(), Name: "Mulu Alemu"},
		Rating:   5,
	}

	sync0.ReviewCreated(review, recipe)
	sync0.Wait()

	writes := client.WriteCalls()
	require.Len(t, writes, 1)
	assert.Contains(t, writes[0].Cypher, "REVIEWED")
	assert.Equal(t, 5, writes[0].Params["rating"])
}

func TestSynchronizer_BookToggled(t *testing.T) {
	sync0, client, _ := newTestSynchronizer(t)
	userID, recipeID := types.NewID(), types.NewID()

	sync0.BookToggled(userID, recipeID, true)
	sync0.BookToggled(userID, recipeID, false)
	sync0.Wait()

	writes := client.WriteCalls()
	require.Len(t, writes, 2)
	assert.Contains(t, writes[0].Cypher, "MERGE (u)-[:BOOKED]->(r)")
	assert.Contains(t, writes[1].Cypher, "DELETE b")
}

func TestSynchronizer_TimeoutIsBounded(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := graph.NewMockClient()
	relationships := relationship.NewStore(client, false, logger)
	similarities := similarity.NewStore(vector.NewEmbeddedVectorStore(16), vector.NewMockEmbedder(16), false, logger)
	sync0 := NewSynchronizer(relationships, similarities, 20*time.Millisecond, logger)

	finished := make(chan struct{})
	sync0.enqueue("entity", "test", func(ctx context.Context) error {
		defer close(finished)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	})

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("propagation context was not cancelled by the timeout")
	}
	sync0.Wait()
}
