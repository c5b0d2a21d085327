package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"child-meal-planner/internal/nutrition"
)

// Repository is a database-backed store for catalog ingredients.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

const upsertIngredient = `
INSERT INTO ingredients (name, category, cost_per_kg, calories, protein, carbs, fat, fiber, iron, calcium, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    category = excluded.category,
    cost_per_kg = excluded.cost_per_kg,
    calories = excluded.calories,
    protein = excluded.protein,
    carbs = excluded.carbs,
    fat = excluded.fat,
    fiber = excluded.fiber,
    iron = excluded.iron,
    calcium = excluded.calcium,
    updated_at = excluded.updated_at`

const selectIngredients = `
SELECT name, category, cost_per_kg, calories, protein, carbs, fat, fiber, iron, calcium
FROM ingredients`

// SaveAll validates and upserts the ingredients in a single transaction.
func (r *Repository) SaveAll(ctx context.Context, ingredients []Ingredient) error {
	for _, ing := range ingredients {
		if err := ing.Validate(); err != nil {
			return err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertIngredient)
	if err != nil {
		return fmt.Errorf("failed to prepare ingredient upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, ing := range ingredients {
		category, _ := ParseCategory(string(ing.Category))
		name := strings.TrimSpace(ing.Name)
		n := ing.Per100g
		if _, err := stmt.ExecContext(ctx,
			name, string(category), ing.CostPerKg,
			n.Calories, n.Protein, n.Carbs, n.Fat, n.Fiber, n.Iron, n.Calcium,
			now,
		); err != nil {
			return fmt.Errorf("failed to save ingredient %s: %w", ing.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ingredients: %w", err)
	}
	return nil
}

// Get retrieves an ingredient by name.
func (r *Repository) Get(ctx context.Context, name string) (Ingredient, error) {
	name = strings.TrimSpace(name)
	row := r.db.QueryRowContext(ctx, selectIngredients+` WHERE name = ?`, name)
	ing, err := scanIngredient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Ingredient{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return Ingredient{}, fmt.Errorf("failed to get ingredient %s: %w", name, err)
	}
	return ing, nil
}

// List retrieves every stored ingredient ordered by category and name.
func (r *Repository) List(ctx context.Context) ([]Ingredient, error) {
	rows, err := r.db.QueryContext(ctx, selectIngredients+` ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ingredients: %w", err)
	}
	return ingredients, nil
}

// Load builds an in-memory Catalog snapshot from the stored ingredients.
func (r *Repository) Load(ctx context.Context) (*Catalog, error) {
	ingredients, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return New(ingredients)
}

// Count returns the number of stored ingredients.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ingredients`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ingredients: %w", err)
	}
	return count, nil
}

// Delete removes an ingredient by name.
func (r *Repository) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	res, err := r.db.ExecContext(ctx, `DELETE FROM ingredients WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIngredient(s scanner) (Ingredient, error) {
	var (
		ing      Ingredient
		category string
		n        nutrition.Nutrients
	)
	if err := s.Scan(
		&ing.Name, &category, &ing.CostPerKg,
		&n.Calories, &n.Protein, &n.Carbs, &n.Fat, &n.Fiber, &n.Iron, &n.Calcium,
	); err != nil {
		return Ingredient{}, err
	}
	ing.Category = Category(category)
	ing.Per100g = n
	return ing, nil
}
