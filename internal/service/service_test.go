package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/database"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/fanout"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/graph"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/relationship"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/similarity"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/vector"
)

const testDims = 16

// fixture wires the full stack against in-process stores: sqlite primary,
// mock graph client, embedded vector store with a deterministic embedder.
type fixture struct {
	db       *database.DB
	users    *database.UserDAO
	recipes  *database.RecipeDAO
	reviews  *database.ReviewDAO
	graph    *graph.MockClient
	vectors  *vector.EmbeddedVectorStore
	embedder *vector.MockEmbedder
	rel      *relationship.Store
	sim      *similarity.Store
	sync     *fanout.Synchronizer

	userSvc      *UserService
	recipeSvc    *RecipeService
	reviewSvc    *ReviewService
	discoverySvc *DiscoveryService
	adminSvc     *AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Open(filepath.Join(t.TempDir(), "agelgil-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:       db,
		users:    database.NewUserDAO(db),
		recipes:  database.NewRecipeDAO(db),
		reviews:  database.NewReviewDAO(db),
		graph:    graph.NewMockClient(),
		vectors:  vector.NewEmbeddedVectorStore(testDims),
		embedder: vector.NewMockEmbedder(testDims),
	}
	f.rel = relationship.NewStore(f.graph, false, logger)
	f.sim = similarity.NewStore(f.vectors, f.embedder, false, logger)
	f.sync = fanout.NewSynchronizer(f.rel, f.sim, time.Second, logger)

	f.userSvc = NewUserService(f.users, f.sync, logger)
	f.recipeSvc = NewRecipeService(f.recipes, f.users, f.sim, f.sync, logger)
	f.reviewSvc = NewReviewService(f.reviews, f.sync, logger)
	f.discoverySvc = NewDiscoveryService(db, f.recipes, f.rel, f.sim, logger)
	f.adminSvc = NewAdminService(db, f.users, f.recipes, f.reviews, f.rel, f.sim, logger)
	return f
}

func (f *fixture) createUser(t *testing.T) *model.User {
	t.Helper()
	user := &model.User{
		Email:     string(types.NewID()) + "@example.com",
		FirstName: "Hana",
		LastName:  "Getachew",
		MedicalProfile: model.MedicalProfile{
			ChronicDiseases:    []string{model.TagNone},
			DietaryPreferences: []string{"vegan"},
			Allergies:          []string{model.TagNone},
		},
		BookedRecipes: []types.ID{},
	}
	require.NoError(t, f.userSvc.Create(context.Background(), user))
	return user
}

func (f *fixture) createRecipe(t *testing.T, owner *model.User, name string) *model.Recipe {
	t.Helper()
	recipe := &model.Recipe{
		Name:               name,
		Description:        "Ground chickpea stew",
		Ingredients:        []model.IngredientItem{{IngredientID: types.NewID(), Name: "shiro powder", Amount: 1}},
		PreferredMealTimes: []string{"lunch"},
		Difficulty:         model.DifficultyEasy,
		CookingTimeMinutes: 30,
		User:               model.UserRef{ID: owner.ID},
		MedicalProfile: model.MedicalProfile{
			DietaryPreferences: []string{"vegan"},
		},
	}
	require.NoError(t, f.recipeSvc.Create(context.Background(), recipe))
	return recipe
}

func writesContaining(calls []graph.MockCall, fragment string) []graph.MockCall {
	var out []graph.MockCall
	for _, c := range calls {
		if strings.Contains(c.Cypher, fragment) {
			out = append(out, c)
		}
	}
	return out
}

func TestUserService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.createUser(t)
	require.False(t, user.ID.IsZero())

	got, err := f.userSvc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	byEmail, err := f.userSvc.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	got.FirstName = "Sara"
	require.NoError(t, f.userSvc.Update(ctx, got))

	require.NoError(t, f.userSvc.Delete(ctx, user.ID))
	_, err = f.userSvc.Get(ctx, user.ID)
	assert.Equal(t, types.USER_NOT_FOUND, types.CodeOf(err))

	f.sync.Wait()
	writes := f.graph.WriteCalls()
	assert.NotEmpty(t, writesContaining(writes, "MERGE (u:User"))
	assert.NotEmpty(t, writesContaining(writes, "DETACH DELETE u"))
}

func TestRecipeService_Create_ForcesPendingAndDenormalizesAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.createUser(t)
	recipe := &model.Recipe{
		Name:        "Doro Wat",
		Ingredients: []model.IngredientItem{{IngredientID: types.NewID(), Name: "berbere", Amount: 2}},
		User:        model.UserRef{ID: owner.ID},
		// Callers cannot self-verify or pre-load aggregates.
		Status:      model.RecipeStatusVerified,
		Rating:      4.5,
		ReviewCount: 9,
	}
	require.NoError(t, f.recipeSvc.Create(ctx, recipe))

	got, err := f.recipeSvc.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RecipeStatusPending, got.Status)
	assert.Zero(t, got.Rating)
	assert.Zero(t, got.ReviewCount)
	assert.Equal(t, owner.FullName(), got.User.Name)
}

func TestRecipeService_Create_UnknownAuthor(t *testing.T) {
	f := newFixture(t)

	recipe := &model.Recipe{
		Name: "Doro Wat",
		User: model.UserRef{ID: types.NewID()},
	}
	err := f.recipeSvc.Create(context.Background(), recipe)
	assert.Equal(t, types.USER_NOT_FOUND, types.CodeOf(err))
}

func TestRecipeService_Moderate_VerifyEmbedsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.createUser(t)
	recipe := f.createRecipe(t, owner, "Shiro Wat")

	// Pending recipes have no similarity record yet.
	records, err := f.vectors.ListByRef(ctx, recipe.ID.String())
	require.NoError(t, err)
	assert.Empty(t, records)

	verified, err := f.recipeSvc.Moderate(ctx, recipe.ID, model.RecipeStatusVerified, "looks good")
	require.NoError(t, err)
	assert.Equal(t, model.RecipeStatusVerified, verified.Status)
	assert.Equal(t, "looks good", verified.ModeratorNote)

	records, err = f.vectors.ListByRef(ctx, recipe.ID.String())
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Re-moderating an already verified recipe never re-embeds.
	calls := f.embedder.CallCount()
	_, err = f.recipeSvc.Moderate(ctx, recipe.ID, model.RecipeStatusVerified, "still good")
	require.NoError(t, err)
	assert.Equal(t, calls, f.embedder.CallCount())

	got, err := f.recipeSvc.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "still good", got.ModeratorNote)
}

func TestRecipeService_Moderate_EmbedFailureDoesNotBlockDecision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.createUser(t)
	recipe := f.createRecipe(t, owner, "Gomen")

	f.embedder.SetEmbedError(assert.AnError)
	verified, err := f.recipeSvc.Moderate(ctx, recipe.ID, model.RecipeStatusVerified, "")
	require.NoError(t, err)
	assert.True(t, verified.IsVerified())

	got, err := f.recipeSvc.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified())
}

func TestRecipeService_Moderate_RejectionRemovesSimilarityRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.createUser(t)
	candidate := f.createRecipe(t, owner, "Shiro Wat")
	revoked := f.createRecipe(t, owner, "Alicha Wat")
	for _, r := range []*model.Recipe{candidate, revoked} {
		_, err := f.recipeSvc.Moderate(ctx, r.ID, model.RecipeStatusVerified, "")
		require.NoError(t, err)
	}

	rejected, err := f.recipeSvc.Moderate(ctx, revoked.ID, model.RecipeStatusRejected, "duplicate")
	require.NoError(t, err)
	assert.Equal(t, model.RecipeStatusRejected, rejected.Status)

	records, err := f.vectors.ListByRef(ctx, revoked.ID.String())
	require.NoError(t, err)
	assert.Empty(t, records)

	scored, err := f.discoverySvc.Similar(ctx, candidate.ID, 0, 10)
	require.NoError(t, err)
	for _, item := range scored {
		assert.NotEqual(t, revoked.ID, item.RecipeID)
	}
}

func TestRecipeService_Moderate_RejectsInvalidStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.recipeSvc.Moderate(context.Background(), types.NewID(), model.RecipeStatusPending, "")
	assert.Equal(t, types.ENTITY_INVALID, types.CodeOf(err))
}

func TestRecipeService_SetBooked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.createUser(t)
	recipe := f.createRecipe(t, owner, "Kitfo")

	_, err := f.recipeSvc.SetBooked(ctx, owner.ID, types.NewID(), true)
	assert.Equal(t, types.RECIPE_NOT_FOUND, types.CodeOf(err))

	user, err := f.recipeSvc.SetBooked(ctx, owner.ID, recipe.ID, true)
	require.NoError(t, err)
	assert.True(t, user.HasBooked(recipe.ID))

	f.sync.Wait()
	assert.NotEmpty(t, writesContaining(f.graph.WriteCalls(), "BOOKED"))
}

func TestRecipeService_Delete_ClearsProjections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.createUser(t)
	recipe := f.createRecipe(t, owner, "Tibs")
	_, err := f.recipeSvc.Moderate(ctx, recipe.ID, model.RecipeStatusVerified, "")
	require.NoError(t, err)

	require.NoError(t, f.recipeSvc.Delete(ctx, recipe.ID))
	f.sync.Wait()

	assert.NotEmpty(t, writesContaining(f.graph.WriteCalls(), "DETACH DELETE r"))
	records, err := f.vectors.ListByRef(ctx, recipe.ID.String())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReviewService_Create_UpdatesAggregate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.createUser(t)
	reviewer := f.createUser(t)
	recipe := f.createRecipe(t, owner, "Misir Wat")

	recipe1, err := f.reviewSvc.Create(ctx, &model.Review{
		RecipeID: recipe.ID,
		User:     reviewer.Ref(),
		Rating:   5,
		Comment:  "excellent",
	})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, recipe1.Rating, 1e-9)
	assert.Equal(t, 1, recipe1.ReviewCount)

	recipe2, err := f.reviewSvc.Create(ctx, &model.Review{
		RecipeID: recipe.ID,
		User:     reviewer.Ref(),
		Rating:   2,
	})
	require.NoError(t, err)
	assert.InDelta(t, 3.5, recipe2.Rating, 1e-9)
	assert.Equal(t, 2, recipe2.ReviewCount)

	reviews, err := f.reviewSvc.ListByRecipe(ctx, recipe.ID, model.Pagination{})
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	f.sync.Wait()
	assert.Len(t, writesContaining(f.graph.WriteCalls(), "REVIEWED"), 2)
}

func TestDiscoveryService_Recommend_DropsGhosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.createUser(t)
	kept := f.createRecipe(t, owner, "Shiro Wat")

	f.graph.QueueReadResult(graph.QueryResult{Records: []map[string]any{
		{"id": kept.ID.String(), "name": kept.Name, "score": 0.9},
		{"id": types.NewID().String(), "name": "deleted elsewhere", "score": 0.8},
	}})

	scored, err := f.discoverySvc.Recommend(ctx, owner.ID, model.MealTimeAll, model.Pagination{Limit: 10})
	require.NoError(t, err)
	require.Len(t, scored, 1)
	assert.Equal(t, kept.ID, scored[0].RecipeID)
}

func TestDiscoveryService_Similar_DropsGhosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.createUser(t)
	candidate := f.createRecipe(t, owner, "Shiro Wat")
	neighbor := f.createRecipe(t, owner, "Alicha Wat")
	ghost := f.createRecipe(t, owner, "Gomen Wat")
	for _, r := range []*model.Recipe{candidate, neighbor, ghost} {
		_, err := f.recipeSvc.Moderate(ctx, r.ID, model.RecipeStatusVerified, "")
		require.NoError(t, err)
	}

	// Remove the ghost from the primary store only.
	require.NoError(t, f.recipes.Delete(ctx, ghost.ID))

	scored, err := f.discoverySvc.Similar(ctx, candidate.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, scored, 1)
	assert.Equal(t, neighbor.ID, scored[0].RecipeID)
}

func TestDiscoveryService_Similar_UnknownRecipe(t *testing.T) {
	f := newFixture(t)

	_, err := f.discoverySvc.Similar(context.Background(), types.NewID(), 0, 10)
	assert.Equal(t, types.RECIPE_NOT_FOUND, types.CodeOf(err))
}

func TestDiscoveryService_SearchRecipes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.createUser(t)
	f.createRecipe(t, owner, "Shiro Wat")
	f.createRecipe(t, owner, "Doro Wat")
	f.createRecipe(t, owner, "Gomen")

	got, err := f.discoverySvc.SearchRecipes(ctx, RecipeCriteria{Name: "wat"}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.discoverySvc.SearchRecipes(ctx, RecipeCriteria{
		Status:    model.RecipeStatusPending,
		MealTimes: []string{"lunch"},
	}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestDiscoveryService_SearchUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.createUser(t)

	got, err := f.discoverySvc.SearchUsers(ctx, UserCriteria{Email: user.Email}, 1, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, user.ID, got[0].ID)
}

func TestAdminService_Seed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.createUser(t)
	verified := f.createRecipe(t, owner, "Shiro Wat")
	f.createRecipe(t, owner, "Kitfo")
	_, err := f.recipeSvc.Moderate(ctx, verified.ID, model.RecipeStatusVerified, "")
	require.NoError(t, err)
	_, err = f.reviewSvc.Create(ctx, &model.Review{
		RecipeID: verified.ID,
		User:     owner.Ref(),
		Rating:   4,
	})
	require.NoError(t, err)
	f.sync.Wait()
	f.graph.Reset()

	report, err := f.adminSvc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Users)
	assert.Equal(t, 2, report.Recipes)
	assert.Equal(t, 1, report.Reviews)
	assert.Equal(t, 1, report.Embedded)

	writes := f.graph.WriteCalls()
	assert.NotEmpty(t, writesContaining(writes, "MERGE (u:User"))
	assert.NotEmpty(t, writesContaining(writes, "REVIEWED"))

	// Seeding twice never duplicates similarity records.
	report, err = f.adminSvc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Embedded)
	records, err := f.vectors.ListByRef(ctx, verified.ID.String())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAdminService_Health(t *testing.T) {
	f := newFixture(t)

	health := f.adminSvc.Health(context.Background())
	assert.True(t, health.Healthy())

	f.graph.SetHealth(types.Unhealthy("connection refused"))
	health = f.adminSvc.Health(context.Background())
	assert.False(t, health.Healthy())
	assert.True(t, health.Relationship.IsUnhealthy())
	assert.True(t, health.Database.IsHealthy())
}
