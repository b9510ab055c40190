// pkg/cli/root.go
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nightdust/imgmeta/internal/config"
	"github.com/nightdust/imgmeta/internal/logger"
)

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interruption signals
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		logger.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logger.Error("Error executing command: %v", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "imgmeta",
		Short: "Extract and geocode image metadata",
		Long:  `A tool for extracting file properties, Exif tags and GPS coordinates from images, with optional reverse geocoding through the Tianditu API.`,
	}

	// Global flags
	cfg := config.New()
	var configPath string
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			// Flags are bound straight into cfg, so parsing has already
			// written the explicit values. Keep those over file values.
			fromFlags := *cfg
			*cfg = *loaded
			applyFlagOverrides(cmd.Flags(), cfg, &fromFlags)
		}
		logger.SetLevel(cfg.LogLevel)
		return nil
	}

	// Add commands
	rootCmd.AddCommand(newAnalyzeCommand(cfg))
	rootCmd.AddCommand(newGeocodeCommand(cfg))

	return rootCmd
}

// applyFlagOverrides restores flag-set values on top of a loaded
// config. Only flags the user actually passed win over the file.
func applyFlagOverrides(flags *pflag.FlagSet, cfg, fromFlags *config.Config) {
	overrides := map[string]func(){
		"log-level":          func() { cfg.LogLevel = fromFlags.LogLevel },
		"api-key":            func() { cfg.Geocode.APIKey = fromFlags.Geocode.APIKey },
		"concurrency":        func() { cfg.Analyze.Concurrency = fromFlags.Analyze.Concurrency },
		"max-exif":           func() { cfg.Bot.MaxExifShow = fromFlags.Bot.MaxExifShow },
		"archive":            func() { cfg.Archive.Enabled = fromFlags.Archive.Enabled },
		"archive-endpoint":   func() { cfg.Archive.Endpoint = fromFlags.Archive.Endpoint },
		"archive-bucket":     func() { cfg.Archive.Bucket = fromFlags.Archive.Bucket },
		"archive-access-key": func() { cfg.Archive.AccessKey = fromFlags.Archive.AccessKey },
		"archive-secret-key": func() { cfg.Archive.SecretKey = fromFlags.Archive.SecretKey },
	}

	flags.Visit(func(f *pflag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply()
		}
	})
}
