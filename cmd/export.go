/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"os"

	"github.com/orderdesk/apiserver/internal/db"
	"github.com/orderdesk/apiserver/internal/services"
	"github.com/orderdesk/apiserver/internal/storage"
	"github.com/orderdesk/apiserver/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a JSON snapshot of all tables to object storage",
	Long: `Writes users, products and orders as JSON objects under
snapshots/<timestamp>/ in the configured bucket, plus a manifest.
Password hashes are never exported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		ctx := cmd.Context()

		sqlDB, err := db.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		gormDB, err := db.OpenGorm(sqlDB, cfg.Database.LogLevel)
		if err != nil {
			return err
		}

		objects, err := storage.Open(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		if err := objects.EnsureBucket(ctx); err != nil {
			return err
		}

		exporter := services.NewExporter(
			services.NewUserService(store.NewUserRepository(gormDB), services.Options{}),
			services.NewProductService(store.NewProductRepository(gormDB), services.Options{}),
			services.NewOrderService(store.NewOrderRepository(gormDB), services.Options{}),
			objects,
		)
		manifest, err := exporter.Export(ctx)
		if err != nil {
			return err
		}

		log.Info("snapshot exported",
			zap.String("bucket", objects.Bucket()),
			zap.String("prefix", manifest.Prefix),
		)
		return printJSON(manifest)
	},
}

var exportShowCmd = &cobra.Command{
	Use:   "show <prefix>",
	Short: "Print the manifest of an exported snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		objects, err := storage.Open(cmd.Context(), cfg.Storage)
		if err != nil {
			return err
		}
		exporter := services.NewExporter(nil, nil, nil, objects)
		manifest, err := exporter.Manifest(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(manifest)
	},
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportShowCmd)
}
