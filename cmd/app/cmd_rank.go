package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"BuyBio/internal/di"
	"BuyBio/internal/usecase"
	"BuyBio/pkg/config"
)

func rankCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		tag    int
		limit  int
		pretty bool
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Compute a buy ranking once and print it as JSON",
		Example: `  buybio rank --limit 20
  buybio rank --tag 7 --limit 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			analyzer, cleanup, err := di.InitializeAnalyzer(cfg)
			if err != nil {
				return fmt.Errorf("analyzer initialization failed: %w", err)
			}
			defer cleanup()

			var out interface{}
			if tag != 0 {
				if limit == 0 {
					limit = usecase.DefaultTagLimit
				}
				out, err = analyzer.RankBuyByTag(cmd.Context(), tag, limit)
			} else {
				if limit == 0 {
					limit = usecase.DefaultAllLimit
				}
				out, err = analyzer.RankBuyAll(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(out)
		},
	}
	cmd.Flags().IntVar(&tag, "tag", 0, "cohort tag (1-11); all cohorts when omitted")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (10 per tag, 20 overall by default)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}
