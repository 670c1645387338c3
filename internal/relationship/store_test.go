package relationship

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/graph"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedUser() *model.User {
	return &model.User{
		ID:        types.NewID(),
		Email:     "mulu@example.com",
		FirstName: "Mulu",
		LastName:  "Alemu",
		MedicalProfile: model.MedicalProfile{
			ChronicDiseases:    []string{"diabetes", model.TagNone},
			DietaryPreferences: []string{"vegan"},
			Allergies:          []string{model.TagNone},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func seedRecipe(owner *model.User) *model.Recipe {
	return &model.Recipe{
		ID:                 types.NewID(),
		Name:               "Gomen",
		Description:        "Braised collard greens",
		Ingredients:        []model.IngredientItem{{IngredientID: types.NewID(), Name: "collard greens", Amount: 3}},
		PreferredMealTimes: []string{"lunch"},
		Difficulty:         model.DifficultyEasy,
		Status:             model.RecipeStatusVerified,
		User:               owner.Ref(),
		MedicalProfile: model.MedicalProfile{
			DietaryPreferences: []string{"vegan"},
		},
	}
}

func TestStore_PassiveMode(t *testing.T) {
	client := graph.NewMockClient()
	store := NewStore(client, true, testLogger())
	ctx := context.Background()

	user := seedUser()
	recipe := seedRecipe(user)

	require.NoError(t, store.UpsertUser(ctx, user))
	require.NoError(t, store.UpdateUser(ctx, user))
	require.NoError(t, store.UpsertRecipe(ctx, recipe))
	require.NoError(t, store.RemoveRecipe(ctx, recipe.ID))
	require.NoError(t, store.AddBooked(ctx, user.ID, recipe.ID))

	scored, err := store.Recommend(ctx, user.ID, model.MealTimeAll, model.Pagination{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, scored)

	// Input validation still applies before the passive short-circuit.
	_, err = store.Recommend(ctx, user.ID, "brunch", model.Pagination{Limit: 10})
	require.Error(t, err)
	assert.Equal(t, types.SEARCH_INVALID_CRITERIA, types.CodeOf(err))

	// Nothing reached the backend.
	assert.Empty(t, client.Calls())
}

func TestStore_UpsertUser_ExcludesNoneTags(t *testing.T) {
	client := graph.NewMockClient()
	store := NewStore(client, false, testLogger())

	user := seedUser()
	require.NoError(t, store.UpsertUser(context.Background(), user))

	writes := client.WriteCalls()
	require.NotEmpty(t, writes)
	assert.Contains(t, writes[0].Cypher, "MERGE (u:User {id: $id})")
	assert.Equal(t, user.FullName(), writes[0].Params["full_name"])

	// "none" entries never become tag parameters; empty classes issue no write.
	var tagWrites [][]string
	for _, w := range writes[1:] {
		tags, ok := w.Params["tags"].([]string)
		require.True(t, ok)
		tagWrites = append(tagWrites, tags)
	}
	require.Len(t, tagWrites, 2)
	assert.Equal(t, []string{"diabetes"}, tagWrites[0])
	assert.Equal(t, []string{"vegan"}, tagWrites[1])
}

func TestStore_UpdateUser_ReplacesAllAttributeEdges(t *testing.T) {
	client := graph.NewMockClient()
	store := NewStore(client, false, testLogger())

	user := seedUser()
	require.NoError(t, store.UpdateUser(context.Background(), user))

	writes := client.WriteCalls()
	require.GreaterOrEqual(t, len(writes), 3)

	// Delete-all precedes every recreate; stale edges cannot survive.
	assert.Contains(t, writes[0].Cypher, "MERGE (u:User")
	assert.Contains(t, writes[1].Cypher, "DELETE e")
	for _, w := range writes[2:] {
		assert.Contains(t, w.Cypher, "MERGE")
	}
}

func TestStore_UpsertRecipe_MergesAuthorEdge(t *testing.T) {
	client := graph.NewMockClient()
	store := NewStore(client, false, testLogger())

	owner := seedUser()
	recipe := seedRecipe(owner)
	require.NoError(t, store.UpsertRecipe(context.Background(), recipe))

	writes := client.WriteCalls()
	require.GreaterOrEqual(t, len(writes), 3)
	assert.Contains(t, writes[0].Cypher, "MERGE (r:Recipe {id: $id})")
	assert.Contains(t, writes[1].Cypher, "MERGED_BY")
	assert.Equal(t, owner.ID.String(), writes[1].Params["user_id"])

	var sawIngredients bool
	for _, w := range writes {
		if strings.Contains(w.Cypher, "CONTAINS") {
			sawIngredients = true
			ings, ok := w.Params["ingredients"].([]map[string]any)
			require.True(t, ok)
			require.Len(t, ings, 1)
			assert.Equal(t, "collard greens", ings[0]["name"])
			assert.Equal(t, 3.0, ings[0]["amount"])
		}
	}
	assert.True(t, sawIngredients)
}

func TestStore_UpdateRecipe_ReplacesAllAttributeEdges(t *testing.T) {
	client := graph.NewMockClient()
	store := NewStore(client, false, testLogger())

	recipe := seedRecipe(seedUser())
	require.NoError(t, store.UpdateRecipe(context.Background(), recipe))

	writes := client.WriteCalls()
	require.GreaterOrEqual(t, len(writes), 2)
	assert.Contains(t, writes[1].Cypher, "CONTAINS|PREFERRED_MEAL_TIME|HAS_CONDITION|PREFERS|ALLERGIC_TO")
	assert.Contains(t, writes[1].Cypher, "DELETE e")

	// No MERGED_BY on plain updates.
	for _, w := range writes {
		assert.NotContains(t, w.Cypher, "MERGED_BY")
	}
}

func TestStore_RemoveRecipe_DetachDeletes(t *testing.T) {
	client := graph.NewMockClient()
	store := NewStore(client, false, testLogger())

	id := types.NewID()
	require.NoError(t, store.RemoveRecipe(context.Background(), id))

	writes := client.WriteCalls()
	require.Len(t, writes, 1)
	assert.Contains(t, writes[0].Cypher, "DETACH DELETE r")
	assert.Equal(t, id.String(), writes[0].Params["id"])
}

func TestStore_AddReview_DuplicatesAllowed(t *testing.T) {
	client := graph.NewMockClient()
	store := NewStore(client, false, testLogger())
	ctx := context.Background()

	review := &model.Review{
		ID:       types.NewID(),
		RecipeID: types.NewID(),
		User:     model.UserRef{ID: types.NewID(), Name: "Mulu Alemu"},
		Rating:   4,
		Comment:  "tasty",
	}

	require.NoError(t, store.AddReview(ctx, review))
	require.NoError(t, store.AddReview(ctx, review))

	writes := client.WriteCalls()
	require.Len(t, writes, 2)
	for _, w := range writes {
		assert.Contains(t, w.Cypher, "REVIEWED")
		assert.Equal(t, 4, w.Params["rating"])
	}
}

func TestStore_Recommend(t *testing.T) {
	t.Run("invalid meal time", func(t *testing.T) {
		store := NewStore(graph.NewMockClient(), false, testLogger())
		_, err := store.Recommend(context.Background(), types.NewID(), "brunch", model.Pagination{})
		require.Error(t, err)
		assert.Equal(t, types.SEARCH_INVALID_CRITERIA, types.CodeOf(err))
	})

	t.Run("parses scored rows", func(t *testing.T) {
		client := graph.NewMockClient()
		client.QueueReadResult(graph.QueryResult{
			Records: []map[string]any{
				{"id": "7b0498b0-6d82-4a4e-9e3b-0f1a5ed20001", "name": "Gomen", "score": 0.42},
				{"id": "7b0498b0-6d82-4a4e-9e3b-0f1a5ed20002", "name": "Shiro", "score": int64(1)},
			},
		})
		store := NewStore(client, false, testLogger())

		scored, err := store.Recommend(context.Background(), types.NewID(), "lunch",
			model.Pagination{Skip: 10, Limit: 5})
		require.NoError(t, err)
		require.Len(t, scored, 2)
		assert.Equal(t, "Gomen", scored[0].Name)
		assert.InDelta(t, 0.42, scored[0].Score, 1e-9)
		assert.InDelta(t, 1.0, scored[1].Score, 1e-9)

		calls := client.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "lunch", calls[0].Params["meal_time"])
		assert.Equal(t, 10, calls[0].Params["skip"])
		assert.Equal(t, 5, calls[0].Params["limit"])
	})

	t.Run("read failure surfaces as service error", func(t *testing.T) {
		client := graph.NewMockClient()
		client.SetReadError(errors.New("connection reset"))
		store := NewStore(client, false, testLogger())

		_, err := store.Recommend(context.Background(), types.NewID(), model.MealTimeAll, model.Pagination{})
		require.Error(t, err)
		assert.Equal(t, types.RECOMMEND_QUERY_FAILED, types.CodeOf(err))
	})

	t.Run("no similar users means empty page", func(t *testing.T) {
		client := graph.NewMockClient()
		client.QueueReadResult(graph.QueryResult{})
		store := NewStore(client, false, testLogger())

		scored, err := store.Recommend(context.Background(), types.NewID(), model.MealTimeAll, model.Pagination{})
		require.NoError(t, err)
		assert.Empty(t, scored)
	})
}

func TestStore_BulkSeed_Ordering(t *testing.T) {
	client := graph.NewMockClient()
	store := NewStore(client, false, testLogger())

	userA := seedUser()
	userB := seedUser()
	recipe := seedRecipe(userA)
	userB.BookedRecipes = []types.ID{recipe.ID}
	review := &model.Review{
		ID:       types.NewID(),
		RecipeID: recipe.ID,
		User:     userB.Ref(),
		Rating:   5,
	}

	err := store.BulkSeed(context.Background(), Snapshot{
		Users:   []*model.User{userA, userB},
		Recipes: []*model.Recipe{recipe},
		Reviews: []*model.Review{review},
	})
	require.NoError(t, err)

	writes := client.WriteCalls()
	require.NotEmpty(t, writes)

	// User and recipe nodes must be complete before review and booked edges.
	var firstReview, firstBooked, lastNodeMerge int
	for i, w := range writes {
		switch {
		case strings.Contains(w.Cypher, "REVIEWED"):
			if firstReview == 0 {
				firstReview = i
			}
		case strings.Contains(w.Cypher, "BOOKED"):
			if firstBooked == 0 {
				firstBooked = i
			}
		case strings.Contains(w.Cypher, "MERGE (u:User {id: $id})"),
			strings.Contains(w.Cypher, "MERGE (r:Recipe {id: $id})"):
			lastNodeMerge = i
		}
	}
	assert.Greater(t, firstReview, lastNodeMerge)
	assert.Greater(t, firstBooked, firstReview)
}
