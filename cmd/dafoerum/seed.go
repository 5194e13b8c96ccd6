package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"dafoerum/internal/service"
)

type seedCategory struct {
	name   string
	forums []string
}

var seedData = []seedCategory{
	{name: "General", forums: []string{"Announcements", "Introductions", "Off Topic"}},
	{name: "Community", forums: []string{"Help", "Feedback"}},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default categories and forums",
	Long:  "Create the default categories and forums. Does nothing when categories already exist.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		store, closeStore, err := openStore(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		svc := service.NewForumService(store, service.ForumOptions{Logger: logger})
		created, err := seed(cmd.Context(), svc)
		if err != nil {
			logger.Error("seed_failed", slog.String("error", err.Error()))
			return err
		}
		logger.Info("seed_done", slog.Int("categories_created", created))
		return nil
	},
}

// seed creates seedData unless the forum already has categories and returns
// the number of categories created.
func seed(ctx context.Context, svc service.ForumService) (int, error) {
	existing, err := svc.ListCategories(ctx)
	if err != nil {
		return 0, fmt.Errorf("list categories: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, sc := range seedData {
		cat, err := svc.CreateCategory(ctx, sc.name)
		if err != nil {
			return 0, fmt.Errorf("create category %q: %w", sc.name, err)
		}
		for _, name := range sc.forums {
			if _, err := svc.CreateForum(ctx, cat.ID, name); err != nil {
				return 0, fmt.Errorf("create forum %q: %w", name, err)
			}
		}
	}
	return len(seedData), nil
}
