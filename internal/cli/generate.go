package cli

import (
	"context"
	"fmt"

	"github.com/smahlberg/postmind/internal/generator"
	"github.com/smahlberg/postmind/internal/models"
	"github.com/spf13/cobra"
)

var (
	genUser      string
	genTone      string
	genAudience  string
	genLength    string
	genStyleMode string
	genEmoji     bool
	genHashtags  bool
	genNumTags   int
	genSeries    bool
	genSeriesID  string
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate a post for a topic",
	Long: `Generate a LinkedIn post with memory-aware context.

Examples:
  postmind generate "work-life balance in tech" --user alice
  postmind generate "hiring juniors" --user alice --style different --tone casual
  postmind generate "scaling teams, part one" --user alice --series
  postmind generate "scaling teams, part two" --user alice --series --series-id <id>`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genUser, "user", "u", "", "user id (required)")
	generateCmd.Flags().StringVar(&genTone, "tone", string(models.ToneProfessional), "tone: professional, casual, storytelling, inspirational, educational, humorous")
	generateCmd.Flags().StringVar(&genAudience, "audience", string(models.AudienceGeneral), "audience: recruiters, engineers, founders, marketers, general, students")
	generateCmd.Flags().StringVar(&genLength, "length", string(models.LengthMedium), "length: short, medium, long")
	generateCmd.Flags().StringVar(&genStyleMode, "style", string(models.StyleSimilar), "style mode: similar or different")
	generateCmd.Flags().BoolVar(&genEmoji, "emoji", true, "include emojis")
	generateCmd.Flags().BoolVar(&genHashtags, "hashtags", true, "include hashtags")
	generateCmd.Flags().IntVar(&genNumTags, "num-hashtags", 3, "number of hashtags (0-10)")
	generateCmd.Flags().BoolVar(&genSeries, "series", false, "post belongs to a series")
	generateCmd.Flags().StringVar(&genSeriesID, "series-id", "", "series id to continue (omit to start a new series)")
	_ = generateCmd.MarkFlagRequired("user")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req := generator.PostRequest{
		UserID:          genUser,
		Topic:           args[0],
		Tone:            models.Tone(genTone),
		Audience:        models.Audience(genAudience),
		Length:          models.LengthClass(genLength),
		StyleMode:       models.StyleMode(genStyleMode),
		IncludeEmoji:    genEmoji,
		IncludeHashtags: genHashtags,
		NumHashtags:     genNumTags,
		IsSeries:        genSeries || genSeriesID != "",
	}
	if genSeriesID != "" {
		req.SeriesID = &genSeriesID
	}

	if !req.Tone.Valid() {
		return fmt.Errorf("unknown tone: %q", genTone)
	}
	if !req.Audience.Valid() {
		return fmt.Errorf("unknown audience: %q", genAudience)
	}
	if !req.Length.Valid() {
		return fmt.Errorf("unknown length: %q", genLength)
	}
	if !req.StyleMode.Valid() {
		return fmt.Errorf("unknown style mode: %q", genStyleMode)
	}
	if genNumTags < 0 || genNumTags > 10 {
		return fmt.Errorf("num-hashtags must be 0-10, got %d", genNumTags)
	}

	svc, err := getService()
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}

	resp, err := svc.Generate(context.Background(), req)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	fmt.Println(resp.Post)
	fmt.Println()
	fmt.Printf("» %s\n", resp.Message)
	if resp.Metadata.SeriesID != nil {
		fmt.Printf("» Series %s, post %d\n", *resp.Metadata.SeriesID, *resp.Metadata.SeriesOrder)
	}
	if len(resp.Validation.Issues) > 0 {
		fmt.Println("» Review notes:")
		for _, issue := range resp.Validation.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	}
	if verbose {
		fmt.Printf("» %s, %.0fms\n", resp.Metadata.ModelUsed, resp.Metadata.GenerationTimeMS)
	}

	return nil
}
