package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Repository handles persistence of shopping lists.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save stores the list under its plan ID, replacing any earlier version.
func (r *Repository) Save(ctx context.Context, list *ShoppingList) error {
	itemsJSON, err := json.Marshal(list.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	createdAt := list.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO shopping_lists (plan_id, children, total_cost, items, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(plan_id) DO UPDATE SET
			children = excluded.children,
			total_cost = excluded.total_cost,
			items = excluded.items,
			created_at = excluded.created_at`,
		list.PlanID, list.Children, list.TotalCost, string(itemsJSON), createdAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return nil
}

// GetByPlanID retrieves a shopping list by plan ID. It returns nil when the
// plan has no stored list.
func (r *Repository) GetByPlanID(ctx context.Context, planID string) (*ShoppingList, error) {
	var (
		list      ShoppingList
		items     string
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT plan_id, children, total_cost, items, created_at FROM shopping_lists WHERE plan_id = ?`,
		planID).Scan(&list.PlanID, &list.Children, &list.TotalCost, &items, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shopping list by plan ID: %w", err)
	}

	if err := json.Unmarshal([]byte(items), &list.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}
	if list.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse shopping list timestamp: %w", err)
	}
	return &list, nil
}

// DeleteByPlanID deletes a shopping list by plan ID.
func (r *Repository) DeleteByPlanID(ctx context.Context, planID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shopping_lists WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	return nil
}
