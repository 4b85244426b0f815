package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var seriesCmd = &cobra.Command{
	Use:   "series <user_id>",
	Short: "List a user's post series",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeries,
}

func runSeries(cmd *cobra.Command, args []string) error {
	userID := args[0]
	ctx := context.Background()

	svc, err := getService()
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}

	series, err := svc.Series(ctx, userID)
	if err != nil {
		return fmt.Errorf("series: %w", err)
	}

	if len(series) == 0 {
		fmt.Printf("No series found for %s.\n", userID)
		return nil
	}

	fmt.Printf("%d series for %s:\n\n", len(series), userID)
	for _, s := range series {
		fmt.Printf("%s (%d posts, started %s)\n", s.SeriesID, s.TotalPosts,
			s.CreatedAt.Format("2006-01-02"))
		fmt.Printf("   first: %s\n", s.FirstTopic)
		if s.TotalPosts > 1 {
			fmt.Printf("   last:  %s\n", s.LastTopic)
		}
		fmt.Println()
	}

	return nil
}
