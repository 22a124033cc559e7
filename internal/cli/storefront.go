package cli

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"jrmart/internal/productclient"
	"jrmart/internal/web"
)

var storefrontCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Serve the storefront pages",
	RunE:  runStorefront,
}

func runStorefront(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Storefront.Validate(); err != nil {
		return err
	}
	logger := cfg.Log.NewLogger()
	if cfg.Storefront.SessionSecret == "dev_fallback_secret" {
		logger.Warn("SESSION_SECRET not set, using the development fallback")
	}

	client := productclient.New(cfg.Storefront.CatalogURL, cfg.Storefront.RequestTimeout,
		productclient.WithLogger(logger))

	gin.SetMode(gin.ReleaseMode)
	r, err := web.NewRouter(web.Deps{
		Products: client,
		Images:   client,
		Config:   cfg.Storefront,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	logger.Info("storefront listening", "port", cfg.Storefront.Port, "catalog", cfg.Storefront.CatalogURL)
	return r.Run(":" + cfg.Storefront.Port)
}
