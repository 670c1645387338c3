// Package search implements a fluent, paginated query builder over the
// primary store. One generic builder serves recipes, users, and
// ingredients; only the table, the searchable field map, and the row
// decoder differ per entity.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/database"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// Field describes one searchable field of an entity.
type Field struct {
	// Column is the backing column name.
	Column string

	// JSONArray marks columns holding a JSON-encoded string array;
	// membership predicates go through json_each instead of equality.
	JSONArray bool
}

// Builder accumulates predicates and executes them as a single paginated
// select. Predicate methods never fail in place: the first invalid input is
// remembered and returned from Execute, so chains read cleanly.
//
// A Builder is single-use and not safe for concurrent mutation.
type Builder[T any] struct {
	db     *database.DB
	table  string
	cols   string
	fields map[string]Field
	scan   func(database.RowScanner) (T, error)

	wheres []string
	args   []any
	sorts  []string
	err    error
}

// New creates a builder for one entity type. fields maps logical field
// names (what callers pass to predicates) to backing columns.
func New[T any](db *database.DB, table, cols string, fields map[string]Field, scan func(database.RowScanner) (T, error)) *Builder[T] {
	return &Builder[T]{
		db:     db,
		table:  table,
		cols:   cols,
		fields: fields,
		scan:   scan,
	}
}

// ByName adds a case-insensitive partial-match predicate on the entity's
// name field.
func (b *Builder[T]) ByName(name string) *Builder[T] {
	field, ok := b.lookup("name")
	if !ok {
		return b
	}
	b.wheres = append(b.wheres, fmt.Sprintf("LOWER(%s) LIKE ?", field.Column))
	b.args = append(b.args, "%"+strings.ToLower(name)+"%")
	return b
}

// Equals adds an exact-match predicate on a logical field.
func (b *Builder[T]) Equals(name string, value any) *Builder[T] {
	field, ok := b.lookup(name)
	if !ok {
		return b
	}
	b.wheres = append(b.wheres, fmt.Sprintf("%s = ?", field.Column))
	b.args = append(b.args, value)
	return b
}

// AnyOf adds an "any of" membership predicate: the row matches when its
// JSON array field contains at least one of the given values.
func (b *Builder[T]) AnyOf(name string, values ...string) *Builder[T] {
	if len(values) == 0 {
		return b
	}
	field, ok := b.lookup(name)
	if !ok {
		return b
	}
	if !field.JSONArray {
		b.fail(fmt.Sprintf("field %q does not hold a tag set", name))
		return b
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(values)), ",")
	b.wheres = append(b.wheres, fmt.Sprintf(
		"EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value IN (%s))",
		field.Column, placeholders))
	for _, v := range values {
		b.args = append(b.args, v)
	}
	return b
}

// MedicalProfile adds membership predicates for each non-empty tag class.
// Rows tagged "none" in a class are treated as matching nothing, which the
// membership check gives us for free since callers never pass "none".
func (b *Builder[T]) MedicalProfile(profile model.MedicalProfile) *Builder[T] {
	if tags := profile.ActiveChronicDiseases(); len(tags) > 0 {
		b.AnyOf("chronic_diseases", tags...)
	}
	if tags := profile.ActiveDietaryPreferences(); len(tags) > 0 {
		b.AnyOf("dietary_preferences", tags...)
	}
	if tags := profile.ActiveAllergies(); len(tags) > 0 {
		b.AnyOf("allergies", tags...)
	}
	return b
}

// SortBy appends a sort key. Multiple calls build a composite order;
// without any, results are ordered by creation time for stable pages.
func (b *Builder[T]) SortBy(name string, descending bool) *Builder[T] {
	field, ok := b.lookup(name)
	if !ok {
		return b
	}
	dir := "ASC"
	if descending {
		dir = "DESC"
	}
	b.sorts = append(b.sorts, field.Column+" "+dir)
	return b
}

// Execute runs the accumulated query. page is 1-based; page < 1 is a
// validation error, never silently clamped. pageSize <= 0 falls back to
// the default page size.
func (b *Builder[T]) Execute(ctx context.Context, page, pageSize int) ([]T, error) {
	if b.err != nil {
		return nil, b.err
	}
	if page < 1 {
		return nil, types.NewError(types.SEARCH_INVALID_PAGE,
			fmt.Sprintf("page must be >= 1, got %d", page))
	}
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(b.cols)
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)
	if len(b.wheres) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.wheres, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	if len(b.sorts) > 0 {
		sb.WriteString(strings.Join(b.sorts, ", "))
		// Tie-break on id so equal sort keys cannot shuffle across pages.
		sb.WriteString(", id ASC")
	} else {
		sb.WriteString("created_at ASC, id ASC")
	}
	sb.WriteString(" LIMIT ? OFFSET ?")

	args := append(append([]any{}, b.args...), pageSize, (page-1)*pageSize)

	rows, err := b.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "search query failed", err)
	}
	defer rows.Close()

	results := make([]T, 0, pageSize)
	for rows.Next() {
		item, err := b.scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "search iteration failed", err)
	}
	return results, nil
}

func (b *Builder[T]) lookup(name string) (Field, bool) {
	field, ok := b.fields[name]
	if !ok {
		b.fail(fmt.Sprintf("unknown search field %q", name))
		return Field{}, false
	}
	return field, true
}

func (b *Builder[T]) fail(msg string) {
	if b.err == nil {
		b.err = types.NewError(types.SEARCH_INVALID_CRITERIA, msg)
	}
}
