package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <user_id>",
	Short: "Show a user's past posts",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "max posts to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	userID := args[0]
	ctx := context.Background()

	svc, err := getService()
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}

	posts, total, err := svc.History(ctx, userID, historyLimit)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	if len(posts) == 0 {
		fmt.Printf("No posts recorded for %s.\n", userID)
		return nil
	}

	fmt.Printf("%d posts for %s (showing %d):\n\n", total, userID, len(posts))
	for i, p := range posts {
		fmt.Printf("%d. %s [%s, %s] %s\n", i+1, p.Topic, p.Tone, p.Audience,
			p.CreatedAt.Format("2006-01-02"))
		fmt.Printf("   %s\n\n", p.Preview)
	}

	return nil
}
