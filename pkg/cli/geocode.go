package cli

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nightdust/imgmeta/internal/config"
	"github.com/nightdust/imgmeta/internal/geocode"
)

func newGeocodeCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geocode <latitude> <longitude>",
		Short: "Resolve a coordinate to a human-readable address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q: %w", args[0], err)
			}
			lon, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q: %w", args[1], err)
			}

			client := geocode.NewTianditu(cfg.Geocode.Endpoint, cfg.Geocode.APIKey,
				&http.Client{Timeout: cfg.Geocode.Timeout})
			resolver := geocode.NewResolver(cfg.Geocode.APIKey, cfg.Geocode.Timeout, client)

			fmt.Fprintln(cmd.OutOrStdout(), resolver.Resolve(cmd.Context(), lat, lon))
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.Geocode.APIKey, "api-key", cfg.Geocode.APIKey, "Tianditu API key")

	return cmd
}
