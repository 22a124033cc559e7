package cli

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"jrmart/internal/catalogapi"
	"jrmart/internal/db"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Serve the REST catalog (products and images)",
	RunE:  runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Catalog.Validate(); err != nil {
		return err
	}
	logger := cfg.Log.NewLogger()

	gdb, err := db.Open(cfg.Catalog.DSN)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	store := catalogapi.NewStore(gdb)
	if err := store.Migrate(); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	r := catalogapi.NewRouter(store, cfg.Catalog.ImagesDir, logger)
	logger.Info("catalog listening", "port", cfg.Catalog.Port, "driver", gdb.Dialector.Name(), "images", cfg.Catalog.ImagesDir)
	return r.Run(":" + cfg.Catalog.Port)
}
