package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/squirrelip/squirrel_server/config"
	"github.com/squirrelip/squirrel_server/internal/database"
	"github.com/squirrelip/squirrel_server/internal/pkg/log"
	"github.com/squirrelip/squirrel_server/internal/repository"
)

var (
	configPath = flag.String("config", "config.yaml", "path to the yaml config")
	dryRun     = flag.Bool("dry-run", true, "only count orphaned interactions, delete nothing")
)

// cleanup removes interactions whose patent no longer exists.
func main() {
	flag.Parse()

	if env := os.Getenv("CONFIG_PATH"); env != "" {
		*configPath = env
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(cfg.Log.Level)
	defer logger.Sync()

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}

	interactionRepo := repository.NewInteractionRepository(db)

	if *dryRun {
		n, err := interactionRepo.CountOrphans()
		if err != nil {
			logger.Fatal("count orphaned interactions", zap.Error(err))
		}
		logger.Info("dry run, nothing deleted",
			zap.Int64("orphans", n),
			zap.String("hint", "run with -dry-run=false to delete"))
		return
	}

	n, err := interactionRepo.DeleteOrphans()
	if err != nil {
		logger.Fatal("delete orphaned interactions", zap.Error(err))
	}
	logger.Info("cleanup completed", zap.Int64("deleted", n))
}
