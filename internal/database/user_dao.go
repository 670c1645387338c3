package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// UserDAO provides database access for User entities
type UserDAO struct {
	db *DB
}

// NewUserDAO creates a new UserDAO instance
func NewUserDAO(db *DB) *UserDAO {
	return &UserDAO{db: db}
}

// Create inserts a new user into the database
func (dao *UserDAO) Create(ctx context.Context, user *model.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	diseasesJSON, prefsJSON, allergiesJSON, err := marshalProfile(user.MedicalProfile)
	if err != nil {
		return err
	}

	bookedJSON, err := json.Marshal(user.BookedRecipes)
	if err != nil {
		return fmt.Errorf("failed to marshal booked recipes: %w", err)
	}

	query := `
		INSERT INTO users (
			id, email, first_name, last_name, avatar,
			chronic_diseases, dietary_preferences, allergies,
			booked_recipes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = dao.db.ExecContext(ctx, query,
		user.ID.String(),
		user.Email,
		user.FirstName,
		user.LastName,
		user.Avatar,
		diseasesJSON,
		prefsJSON,
		allergiesJSON,
		string(bookedJSON),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to insert user", err)
	}

	return nil
}

// Get retrieves a user by ID
func (dao *UserDAO) Get(ctx context.Context, id types.ID) (*model.User, error) {
	query := `
		SELECT id, email, first_name, last_name, avatar,
		       chronic_diseases, dietary_preferences, allergies,
		       booked_recipes, created_at, updated_at
		FROM users
		WHERE id = ?
	`
	return dao.scanOne(dao.db.QueryRowContext(ctx, query, id.String()))
}

// GetByEmail retrieves a user by email address
func (dao *UserDAO) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, first_name, last_name, avatar,
		       chronic_diseases, dietary_preferences, allergies,
		       booked_recipes, created_at, updated_at
		FROM users
		WHERE email = ?
	`
	return dao.scanOne(dao.db.QueryRowContext(ctx, query, email))
}

// Update overwrites a user's mutable fields
func (dao *UserDAO) Update(ctx context.Context, user *model.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	diseasesJSON, prefsJSON, allergiesJSON, err := marshalProfile(user.MedicalProfile)
	if err != nil {
		return err
	}

	bookedJSON, err := json.Marshal(user.BookedRecipes)
	if err != nil {
		return fmt.Errorf("failed to marshal booked recipes: %w", err)
	}

	query := `
		UPDATE users SET
			email = ?, first_name = ?, last_name = ?, avatar = ?,
			chronic_diseases = ?, dietary_preferences = ?, allergies = ?,
			booked_recipes = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := dao.db.ExecContext(ctx, query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Avatar,
		diseasesJSON,
		prefsJSON,
		allergiesJSON,
		string(bookedJSON),
		time.Now().UTC(),
		user.ID.String(),
	)
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to update user", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to read rows affected", err)
	}
	if affected == 0 {
		return types.NewError(types.USER_NOT_FOUND,
			fmt.Sprintf("user not found: %s", user.ID))
	}

	return nil
}

// SetBooked adds or removes a recipe from the user's booked set, returning
// the updated user. Booking the same recipe twice is a no-op.
func (dao *UserDAO) SetBooked(ctx context.Context, userID, recipeID types.ID, booked bool) (*model.User, error) {
	user, err := dao.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if booked {
		if !user.HasBooked(recipeID) {
			user.BookedRecipes = append(user.BookedRecipes, recipeID)
		}
	} else {
		kept := user.BookedRecipes[:0]
		for _, id := range user.BookedRecipes {
			if id != recipeID {
				kept = append(kept, id)
			}
		}
		user.BookedRecipes = kept
	}

	if err := dao.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns all users ordered by creation time. Used by bulk seeding.
func (dao *UserDAO) List(ctx context.Context) ([]*model.User, error) {
	query := `
		SELECT id, email, first_name, last_name, avatar,
		       chronic_diseases, dietary_preferences, allergies,
		       booked_recipes, created_at, updated_at
		FROM users
		ORDER BY created_at
	`

	rows, err := dao.db.QueryContext(ctx, query)
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to list users", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := dao.scanRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Delete removes a user by ID
func (dao *UserDAO) Delete(ctx context.Context, id types.ID) error {
	result, err := dao.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.String())
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to delete user", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to read rows affected", err)
	}
	if affected == 0 {
		return types.NewError(types.USER_NOT_FOUND, fmt.Sprintf("user not found: %s", id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (dao *UserDAO) scanOne(row *sql.Row) (*model.User, error) {
	user, err := dao.scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.NewError(types.USER_NOT_FOUND, "user not found")
	}
	return user, err
}

func (dao *UserDAO) scanRow(row rowScanner) (*model.User, error) {
	user := &model.User{}
	var (
		idStr                                string
		diseasesJSON, prefsJSON, allergyJSON string
		bookedJSON                           string
	)

	err := row.Scan(
		&idStr,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Avatar,
		&diseasesJSON,
		&prefsJSON,
		&allergyJSON,
		&bookedJSON,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to scan user", err)
	}

	user.ID = types.ID(idStr)

	profile, err := unmarshalProfile(diseasesJSON, prefsJSON, allergyJSON)
	if err != nil {
		return nil, err
	}
	user.MedicalProfile = profile

	if err := json.Unmarshal([]byte(bookedJSON), &user.BookedRecipes); err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED,
			"failed to unmarshal booked recipes", err)
	}

	return user, nil
}

func marshalProfile(p model.MedicalProfile) (string, string, string, error) {
	diseases, err := json.Marshal(emptyIfNil(p.ChronicDiseases))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal chronic diseases: %w", err)
	}
	prefs, err := json.Marshal(emptyIfNil(p.DietaryPreferences))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal dietary preferences: %w", err)
	}
	allergies, err := json.Marshal(emptyIfNil(p.Allergies))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal allergies: %w", err)
	}
	return string(diseases), string(prefs), string(allergies), nil
}

func unmarshalProfile(diseasesJSON, prefsJSON, allergyJSON string) (model.MedicalProfile, error) {
	var p model.MedicalProfile
	if err := json.Unmarshal([]byte(diseasesJSON), &p.ChronicDiseases); err != nil {
		return p, types.WrapError(types.DB_QUERY_FAILED, "failed to unmarshal chronic diseases", err)
	}
	if err := json.Unmarshal([]byte(prefsJSON), &p.DietaryPreferences); err != nil {
		return p, types.WrapError(types.DB_QUERY_FAILED, "failed to unmarshal dietary preferences", err)
	}
	if err := json.Unmarshal([]byte(allergyJSON), &p.Allergies); err != nil {
		return p, types.WrapError(types.DB_QUERY_FAILED, "failed to unmarshal allergies", err)
	}
	return p, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
