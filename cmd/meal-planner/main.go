package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/joho/godotenv"

	"child-meal-planner/internal/app"
	"child-meal-planner/internal/catalog"
	"child-meal-planner/internal/config"
	"child-meal-planner/internal/database"
	"child-meal-planner/internal/logging"
	"child-meal-planner/internal/metrics"
	"child-meal-planner/internal/shopping"
	"child-meal-planner/internal/solver"
	"child-meal-planner/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logr.NewContext(ctx, logger)

	db, err := database.NewDB(ctx, cfg.DatabasePath)
	if err != nil {
		fatal(logger, err, "Failed to initialize database", "path", cfg.DatabasePath)
	}
	defer db.Close()

	planStore, err := storage.NewPlanStore(cfg.PlansDir)
	if err != nil {
		db.Close()
		fatal(logger, err, "Failed to initialize plan archive", "path", cfg.PlansDir)
	}

	application := app.NewApp(
		cfg,
		db,
		catalog.NewRepository(db.SQL),
		metrics.NewStore(db.SQL),
		shopping.NewRepository(db.SQL),
		planStore,
		metrics.NewCollector(),
		solver.NewSimplex(cfg.SolverTimeout),
	)

	if err := run(ctx, application, os.Args[1], os.Args[2:]); err != nil {
		db.Close()
		fatal(logger, err, "Command failed", "command", os.Args[1])
	}
}

func run(ctx context.Context, application *app.App, command string, args []string) error {
	switch command {
	case "import-catalog":
		importCmd := flag.NewFlagSet("import-catalog", flag.ExitOnError)
		file := importCmd.String("file", "", "Ingredient catalog file (.csv, .yaml, .yml or .json)")
		importCmd.Parse(args)
		if *file == "" && importCmd.NArg() > 0 {
			*file = importCmd.Arg(0)
		}
		if *file == "" {
			return fmt.Errorf("import-catalog requires -file")
		}
		_, err := application.ImportCatalog(ctx, *file)
		return err

	case "catalog":
		if err := application.SeedCatalog(ctx); err != nil {
			return err
		}
		return application.ListCatalog(ctx)

	case "catalog-remove":
		removeCmd := flag.NewFlagSet("catalog-remove", flag.ExitOnError)
		name := removeCmd.String("name", "", "Ingredient to remove")
		removeCmd.Parse(args)
		if *name == "" {
			return fmt.Errorf("catalog-remove requires -name")
		}
		return application.RemoveIngredient(ctx, *name)

	case "plan":
		planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
		budget := planCmd.Float64("budget", 0, "Weekly budget for the whole group")
		children := planCmd.Int("children", 0, "Number of children fed")
		ageGroup := planCmd.String("age-group", "3-6 years", "Age group: 1-3 years, 3-6 years or 6-10 years")
		ingredients := planCmd.String("ingredients", "", "Comma-separated ingredient names from the catalog")
		all := planCmd.Bool("all", false, "Use every ingredient in the catalog")
		asJSON := planCmd.Bool("json", false, "Print the plan as JSON")
		planCmd.Parse(args)

		if err := application.SeedCatalog(ctx); err != nil {
			return err
		}
		_, err := application.GenerateMealPlan(ctx, app.PlanRequest{
			Budget:         *budget,
			Children:       *children,
			AgeGroup:       *ageGroup,
			Ingredients:    splitList(*ingredients),
			AllIngredients: *all,
			JSON:           *asJSON,
		})
		return err

	case "show-plan":
		showCmd := flag.NewFlagSet("show-plan", flag.ExitOnError)
		planID := showCmd.String("plan", "", "Plan ID printed by the plan command")
		showCmd.Parse(args)
		if *planID == "" {
			return fmt.Errorf("show-plan requires -plan")
		}
		return application.ShowPlan(ctx, *planID)

	case "plans":
		return application.ListPlans()

	case "plans-prune":
		pruneCmd := flag.NewFlagSet("plans-prune", flag.ExitOnError)
		keep := pruneCmd.Int("keep", 20, "Number of newest plans to keep")
		pruneCmd.Parse(args)
		_, err := application.PrunePlans(ctx, *keep)
		return err

	case "shopping-list":
		listCmd := flag.NewFlagSet("shopping-list", flag.ExitOnError)
		planID := listCmd.String("plan", "", "Plan ID printed by the plan command")
		listCmd.Parse(args)
		if *planID == "" {
			return fmt.Errorf("shopping-list requires -plan")
		}
		return application.ShowShoppingList(ctx, *planID)

	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(args)
		_, err := application.CleanupMetrics(ctx, *days)
		return err

	case "stats":
		statsCmd := flag.NewFlagSet("stats", flag.ExitOnError)
		days := statsCmd.Int("days", 7, "Summarise the last N days")
		statsCmd.Parse(args)
		return application.PrintStats(ctx, *days)

	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func fatal(logger logr.Logger, err error, msg string, kv ...any) {
	logger.Error(err, msg, kv...)
	os.Exit(1)
}

func printUsage() {
	fmt.Println("Usage: meal-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  import-catalog     Load ingredients from a CSV, YAML or JSON file")
	fmt.Println("  catalog            List the stored ingredient catalog")
	fmt.Println("  catalog-remove     Remove an ingredient from the catalog")
	fmt.Println("  plan               Generate a weekly meal plan")
	fmt.Println("  show-plan          Print an archived plan")
	fmt.Println("  plans              List archived plan IDs")
	fmt.Println("  plans-prune        Remove all but the newest archived plans")
	fmt.Println("  shopping-list      Print the shopping list of an earlier plan")
	fmt.Println("  metrics-cleanup    Remove old solve metric records")
	fmt.Println("  stats              Show solve statistics and system health")
}
