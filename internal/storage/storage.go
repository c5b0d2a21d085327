package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"child-meal-planner/internal/planner"
)

var (
	// ErrPlanNotFound is returned when no archived file exists for a plan ID.
	ErrPlanNotFound = errors.New("plan not found in archive")
	// ErrInvalidPlanID is returned for IDs that are not UUIDs.
	ErrInvalidPlanID = errors.New("invalid plan ID")
)

// checkID keeps IDs to UUIDs so they can never act as glob patterns.
func checkID(planID string) error {
	if _, err := uuid.Parse(planID); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidPlanID, planID, err)
	}
	return nil
}

// PlanStore provides a file-based archive of generated weekly plans, one
// JSON file per plan.
type PlanStore struct {
	basePath string
}

// NewPlanStore creates a new PlanStore and ensures the base directory exists.
func NewPlanStore(basePath string) (*PlanStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &PlanStore{basePath: basePath}, nil
}

// path returns the file for a plan. The creation date prefix keeps a plain
// directory listing in chronological order.
func (s *PlanStore) path(plan *planner.WeeklyPlan) string {
	filename := fmt.Sprintf("%s_%s.json", plan.CreatedAt.UTC().Format("20060102T150405"), plan.ID)
	return filepath.Join(s.basePath, filename)
}

func (s *PlanStore) find(planID string) (string, error) {
	if err := checkID(planID); err != nil {
		return "", err
	}
	matches, err := filepath.Glob(filepath.Join(s.basePath, fmt.Sprintf("*_%s.json", planID)))
	if err != nil {
		return "", fmt.Errorf("failed to search archive: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}
	return matches[0], nil
}

// Save writes a plan to the archive.
func (s *PlanStore) Save(plan *planner.WeeklyPlan) error {
	if err := checkID(plan.ID); err != nil {
		return err
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := os.WriteFile(s.path(plan), data, 0644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}

// Load reads an archived plan by ID.
func (s *PlanStore) Load(planID string) (*planner.WeeklyPlan, error) {
	filePath, err := s.find(planID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var plan planner.WeeklyPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	return &plan, nil
}

// exists checks whether a plan is archived.
func (s *PlanStore) exists(planID string) bool {
	_, err := s.find(planID)
	return err == nil
}

// List returns archived plan IDs, oldest first.
func (s *PlanStore) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*_*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}
	sort.Strings(matches)

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, planID(m))
	}
	return ids, nil
}

// Prune removes all but the newest keep plans and returns the IDs it removed.
func (s *PlanStore) Prune(keep int) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*_*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}
	if keep < 0 {
		keep = 0
	}
	if len(matches) <= keep {
		return nil, nil
	}
	sort.Strings(matches)

	var removed []string
	for _, match := range matches[:len(matches)-keep] {
		if err := os.Remove(match); err != nil {
			return removed, fmt.Errorf("failed to remove stale file %s: %w", match, err)
		}
		removed = append(removed, planID(match))
	}
	return removed, nil
}

func planID(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	_, id, _ := strings.Cut(name, "_")
	return id
}
