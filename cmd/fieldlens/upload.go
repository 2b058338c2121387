package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fieldlens/fieldlens/config"
	"github.com/fieldlens/fieldlens/logging"
	"github.com/fieldlens/fieldlens/uploader"

	"github.com/google/uuid"
)

var uploadRunID string

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Publish report files to object storage",
	Long: `Upload previously rendered report files to the configured
S3-compatible bucket under {runID}/{filename} keys. The run ID is
generated unless --run-id pins it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		runID := uploadRunID
		if runID == "" {
			runID = uuid.New().String()
		}
		logger := logging.New(cfg.LogLevel).With("run", runID)

		up, err := uploader.New(uploader.Config{
			Endpoint:  cfg.Upload.Endpoint,
			Region:    cfg.Upload.Region,
			AccessKey: cfg.Upload.AccessKey,
			SecretKey: cfg.Upload.SecretKey,
			Bucket:    cfg.Upload.Bucket,
			UseSSL:    cfg.Upload.UseSSL,
		})
		if err != nil {
			return err
		}

		for _, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			name := filepath.Base(path)
			if err := up.Publish(ctx, runID, name, content, contentTypeFor(name)); err != nil {
				return err
			}
			logger.Info("published", "file", name, "bucket", cfg.Upload.Bucket)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "uploaded %d file(s) under %s/\n", len(args), runID)
		return nil
	},
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	}
	return "application/octet-stream"
}

func init() {
	uploadCmd.Flags().StringVar(&uploadRunID, "run-id", "",
		"Pin the run ID instead of generating one")
	rootCmd.AddCommand(uploadCmd)
}
