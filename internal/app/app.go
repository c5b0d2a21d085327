package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"child-meal-planner/internal/catalog"
	"child-meal-planner/internal/config"
	"child-meal-planner/internal/database"
	"child-meal-planner/internal/metrics"
	"child-meal-planner/internal/planner"
	"child-meal-planner/internal/shared"
	"child-meal-planner/internal/shopping"
	"child-meal-planner/internal/solver"
	"child-meal-planner/internal/storage"
)

// App holds the application's dependencies.
type App struct {
	cfg          *config.Config
	db           *database.DB
	catalogRepo  *catalog.Repository
	metricsStore *metrics.Store
	shoppingRepo *shopping.Repository
	planStore    *storage.PlanStore
	collector    *metrics.Collector
	solver       solver.Solver
	out          io.Writer
}

// NewApp creates and initializes a new App instance.
func NewApp(
	cfg *config.Config,
	db *database.DB,
	catalogRepo *catalog.Repository,
	metricsStore *metrics.Store,
	shoppingRepo *shopping.Repository,
	planStore *storage.PlanStore,
	collector *metrics.Collector,
	s solver.Solver,
) *App {
	return &App{
		cfg:          cfg,
		db:           db,
		catalogRepo:  catalogRepo,
		metricsStore: metricsStore,
		shoppingRepo: shoppingRepo,
		planStore:    planStore,
		collector:    collector,
		solver:       s,
		out:          os.Stdout,
	}
}

// SetOutput redirects everything the App prints.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// ImportCatalog loads a CSV, YAML or JSON ingredient file into the database.
func (a *App) ImportCatalog(ctx context.Context, path string) (int, error) {
	logger := logr.FromContextOrDiscard(ctx)

	ingredients, err := catalog.LoadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load catalog file: %w", err)
	}
	if _, err := catalog.New(ingredients); err != nil {
		return 0, fmt.Errorf("failed to validate catalog file: %w", err)
	}
	if err := a.catalogRepo.SaveAll(ctx, ingredients); err != nil {
		return 0, fmt.Errorf("failed to store catalog: %w", err)
	}

	logger.Info("Catalog imported", "path", path, "ingredients", len(ingredients))
	fmt.Fprintf(a.out, "Imported %d ingredients from %s.\n", len(ingredients), path)
	return len(ingredients), nil
}

// SeedCatalog imports the configured catalog file when the database holds
// no ingredients yet.
func (a *App) SeedCatalog(ctx context.Context) error {
	if a.cfg.CatalogPath == "" {
		return nil
	}
	n, err := a.catalogRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count ingredients: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err = a.ImportCatalog(ctx, a.cfg.CatalogPath)
	return err
}

// ListCatalog prints the stored ingredients grouped by category.
func (a *App) ListCatalog(ctx context.Context) error {
	c, err := a.catalogRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	return writeCatalog(a.out, c)
}

// PlanRequest is a weekly plan request as received from the command line.
type PlanRequest struct {
	Budget      float64
	Children    int
	AgeGroup    string
	Ingredients []string
	// AllIngredients selects the whole stored catalog.
	AllIngredients bool
	JSON           bool
}

// GenerateMealPlan optimises a week from the stored catalog, records solve
// metrics, saves the shopping list and prints the result.
func (a *App) GenerateMealPlan(ctx context.Context, req PlanRequest) (*planner.WeeklyPlan, error) {
	logger := logr.FromContextOrDiscard(ctx)

	c, err := a.catalogRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	names := req.Ingredients
	if req.AllIngredients {
		names = nil
		for _, ing := range c.All() {
			names = append(names, ing.Name)
		}
	}

	p := planner.NewPlanner(c, a.solver, a.plannerOptions())
	plan, metas, err := p.GeneratePlan(ctx, planner.Request{
		Budget:      req.Budget,
		Children:    req.Children,
		AgeGroup:    req.AgeGroup,
		Ingredients: names,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan: %w", err)
	}

	if err := a.metricsStore.RecordAll(ctx, metas); err != nil {
		logger.Error(err, "Failed to record solve metrics", "plan", plan.ID)
	}
	a.exportMetrics(logger, plan, metas)

	list := shopping.Build(plan)
	if err := a.shoppingRepo.Save(ctx, list); err != nil {
		logger.Error(err, "Failed to save shopping list", "plan", plan.ID)
	}
	if err := a.planStore.Save(plan); err != nil {
		logger.Error(err, "Failed to archive plan", "plan", plan.ID)
	}

	if req.JSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			Plan     *planner.WeeklyPlan    `json:"plan"`
			Shopping *shopping.ShoppingList `json:"shopping_list"`
		}{plan, list}); err != nil {
			return nil, fmt.Errorf("failed to encode plan: %w", err)
		}
		return plan, nil
	}

	if err := writePlan(a.out, plan, list); err != nil {
		return nil, fmt.Errorf("failed to print plan: %w", err)
	}
	return plan, nil
}

// ShowPlan prints an archived plan together with its shopping list.
func (a *App) ShowPlan(ctx context.Context, planID string) error {
	plan, err := a.planStore.Load(planID)
	if err != nil {
		return err
	}
	list, err := a.shoppingRepo.GetByPlanID(ctx, planID)
	if err != nil {
		return err
	}
	if list == nil {
		list = shopping.Build(plan)
	}
	return writePlan(a.out, plan, list)
}

// ListPlans prints the IDs of archived plans, oldest first.
func (a *App) ListPlans() error {
	ids, err := a.planStore.List()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(a.out, "No archived plans.")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(a.out, id)
	}
	return nil
}

// PrunePlans keeps the newest keep archived plans and drops the shopping
// lists of the removed ones.
func (a *App) PrunePlans(ctx context.Context, keep int) (int, error) {
	removed, err := a.planStore.Prune(keep)
	for _, id := range removed {
		if derr := a.shoppingRepo.DeleteByPlanID(ctx, id); derr != nil {
			return len(removed), derr
		}
	}
	if err != nil {
		return len(removed), err
	}
	fmt.Fprintf(a.out, "Removed %d archived plans.\n", len(removed))
	return len(removed), nil
}

// ShowShoppingList prints the stored shopping list of an earlier plan.
func (a *App) ShowShoppingList(ctx context.Context, planID string) error {
	list, err := a.shoppingRepo.GetByPlanID(ctx, planID)
	if err != nil {
		return err
	}
	if list == nil {
		return fmt.Errorf("no shopping list stored for plan %s", planID)
	}
	return writeShoppingList(a.out, list)
}

// CleanupMetrics removes solve metrics older than the given number of days.
func (a *App) CleanupMetrics(ctx context.Context, days int) (int64, error) {
	affected, err := a.metricsStore.Cleanup(ctx, days)
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(a.out, "Successfully removed %d old metric records.\n", affected)
	return affected, nil
}

// PrintStats prints the daily solve summary and process health.
func (a *App) PrintStats(ctx context.Context, days int) error {
	usage, err := a.metricsStore.GetDailyUsage(ctx, days)
	if err != nil {
		return err
	}
	return writeStats(a.out, usage, metrics.GetSysHealth(a.db.Path))
}

func (a *App) plannerOptions() planner.Options {
	return planner.Options{
		IngredientCap: a.cfg.IngredientCapGram,
		MaxCandidates: a.cfg.MaxCandidates,
		MinLineGrams:  a.cfg.MinLineGrams,
		Seed:          a.cfg.PlanSeed,
		Parallel:      a.cfg.ParallelDays,
	}
}

func (a *App) exportMetrics(logger logr.Logger, plan *planner.WeeklyPlan, metas []shared.SolveMeta) {
	a.collector.ObserveSolves(metas)
	a.collector.ObservePlan(plan.Score, plan.Cost)
	if a.cfg.MetricsTextfile == "" {
		return
	}
	if err := a.collector.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
		logger.Error(err, "Failed to export metrics", "path", a.cfg.MetricsTextfile)
	}
}

// RemoveIngredient deletes one ingredient from the stored catalog.
func (a *App) RemoveIngredient(ctx context.Context, name string) error {
	ing, err := a.catalogRepo.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to remove %q: %w", name, err)
	}
	if err := a.catalogRepo.Delete(ctx, ing.Name); err != nil {
		return fmt.Errorf("failed to remove %q: %w", name, err)
	}
	fmt.Fprintf(a.out, "Removed %s (%s) from the catalog.\n", ing.Name, ing.Category)
	return nil
}
