package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/nightdust/imgmeta/internal/analyze"
	"github.com/nightdust/imgmeta/internal/archive"
	"github.com/nightdust/imgmeta/internal/batch"
	"github.com/nightdust/imgmeta/internal/config"
	"github.com/nightdust/imgmeta/internal/geocode"
	"github.com/nightdust/imgmeta/internal/progress"
	"github.com/nightdust/imgmeta/internal/worker"
)

func newAnalyzeCommand(cfg *config.Config) *cobra.Command {
	var withGeocode bool

	cmd := &cobra.Command{
		Use:   "analyze [flags] <image>...",
		Short: "Extract metadata from image files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, cfg, args, withGeocode)
		},
	}

	cmd.Flags().BoolVar(&withGeocode, "geocode", false, "Resolve GPS coordinates to an address")
	cmd.Flags().StringVar(&cfg.Geocode.APIKey, "api-key", cfg.Geocode.APIKey, "Tianditu API key for reverse geocoding")
	cmd.Flags().IntVar(&cfg.Analyze.Concurrency, "concurrency", cfg.Analyze.Concurrency, "Number of concurrent analyses")
	cmd.Flags().IntVar(&cfg.Bot.MaxExifShow, "max-exif", cfg.Bot.MaxExifShow, "Maximum number of Exif entries to display")
	cmd.Flags().BoolVar(&cfg.Archive.Enabled, "archive", cfg.Archive.Enabled, "Archive analyzed images to S3-compatible storage")
	cmd.Flags().StringVar(&cfg.Archive.Endpoint, "archive-endpoint", cfg.Archive.Endpoint, "Archive S3 endpoint URL")
	cmd.Flags().StringVar(&cfg.Archive.Bucket, "archive-bucket", cfg.Archive.Bucket, "Archive S3 bucket name")
	cmd.Flags().StringVar(&cfg.Archive.AccessKey, "archive-access-key", cfg.Archive.AccessKey, "Archive S3 access key")
	cmd.Flags().StringVar(&cfg.Archive.SecretKey, "archive-secret-key", cfg.Archive.SecretKey, "Archive S3 secret key")

	return cmd
}

func runAnalyze(cmd *cobra.Command, cfg *config.Config, args []string, withGeocode bool) error {
	ctx := cmd.Context()

	analyzer := analyze.New(nil)

	var resolver *geocode.Resolver
	if withGeocode {
		client := geocode.NewTianditu(cfg.Geocode.Endpoint, cfg.Geocode.APIKey,
			&http.Client{Timeout: cfg.Geocode.Timeout})
		resolver = geocode.NewResolver(cfg.Geocode.APIKey, cfg.Geocode.Timeout, client)
	}

	var arch *archive.Archive
	if cfg.Archive.Enabled {
		var err error
		arch, err = archive.New(ctx, cfg.Archive)
		if err != nil {
			return fmt.Errorf("failed to initialize archive: %w", err)
		}
	}

	pool := worker.NewPool(cfg.Analyze.Concurrency)
	reporter := progress.New()

	runner := batch.New(analyzer, resolver, arch, pool, reporter, batch.Options{
		Geocode:     withGeocode,
		MaxExifShow: cfg.Bot.MaxExifShow,
	})

	return runner.Run(ctx, args, cmd.OutOrStdout())
}
