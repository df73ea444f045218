package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asset-core/core/assets"
	"asset-core/core/identity"
	"asset-core/core/loader"
	"asset-core/core/logger"
	"asset-core/core/middleware/auth"
	"asset-core/core/middleware/rayid"
	"asset-core/core/resource"
	assetsFeature "asset-core/feature/assets"
	"asset-core/feature/integrity"
	"asset-core/feature/mappings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "asset-core/docs/swagger"
)

// @title Asset Core API
// @version 1.0
// @description Editor tooling API for the asset cache and identity map.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the asset core server",
	Long:  `Loads the identity manifest, starts the asset cache refresh loop and serves the tooling API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		env, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		logg := env.log
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		cache, err := assets.New(env.cfg.Cache,
			resource.ObjectLoader(env.client, env.cfg.Storage.Bucket, env.cfg.Storage.Prefix), logg)
		if err != nil {
			return err
		}
		cache.OnEvict(func(id identity.GUID, path string) {
			logg.Debug("Asset evicted", zap.String("guid", id.String()), zap.String("path", path))
		})
		if env.cfg.Cache.EvictionMode != assets.EvictionEager {
			go cache.RefreshLoop(ctx)
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		readOnly := env.cfg.Server.ReadOnly()
		pins := assetsFeature.NewFeature(cache, env.mapper, readOnly, logg)

		mgr := loader.NewManager(logg)
		mgr.Register(pins)
		mgr.Register(mappings.NewFeature(env.mapper, env.store, readOnly, logg))
		ttl := time.Duration(env.cfg.Mapper.ReconcileTTLSeconds) * time.Second
		mgr.Register(integrity.NewFeature(env.integrityOptions(ttl), logg))

		// RayID must be first to trace everything.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: env.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		go func() {
			logg.Info("Starting server",
				zap.String("port", env.cfg.Server.Port),
				zap.String("profile", env.cfg.Server.Profile),
				zap.String("eviction_mode", env.cfg.Cache.EvictionMode),
			)
			if err := app.Listen(":" + env.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()

		cancel()
		pins.Service().Close()
		logg.Info("Asset cache cleared", zap.Int("evicted", cache.Clear()))

		if !readOnly {
			if err := env.mapper.Save(context.Background(), env.store); err != nil {
				logg.Error("Failed to persist asset manifest", zap.Error(err))
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
