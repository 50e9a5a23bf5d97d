package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/humanbelnik/kinoreview/internal/app"
	"github.com/humanbelnik/kinoreview/internal/config"
	infra_logging "github.com/humanbelnik/kinoreview/internal/infra/logging"
	"github.com/humanbelnik/kinoreview/internal/model"
	usecase_movie "github.com/humanbelnik/kinoreview/internal/usecase/movie"
	usecase_rating "github.com/humanbelnik/kinoreview/internal/usecase/rating"
	"github.com/spf13/cobra"
)

type seedOptions struct {
	configPath string
	file       string
	force      bool
}

func newRootCommand() *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Load the movie catalog into storage",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSeed(ctx, cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to env file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Path to TOML catalog (defaults to the bundled catalog)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Seed even when the catalog already has movies")
	return cmd
}

func runSeed(ctx context.Context, cmd *cobra.Command, opts *seedOptions) error {
	cfg := config.LoadFrom(opts.configPath)
	if _, err := infra_logging.Setup(cfg.Log); err != nil {
		return err
	}

	drafts, err := loadCatalog(opts.file)
	if err != nil {
		return err
	}

	repos := app.MustOpenRepositories(cfg)
	movieUC := usecase_movie.New(repos.Movies, app.MustOpenPosters(cfg.S3), usecase_rating.New(repos.Movies))

	count, err := movieUC.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 && !opts.force {
		fmt.Fprintf(cmd.OutOrStdout(), "catalog already has %d movies, skipping (use --force to seed anyway)\n", count)
		return nil
	}

	stored, err := movieUC.Import(ctx, drafts)
	if len(stored) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), renderMovies(stored))
	}
	if err != nil {
		return fmt.Errorf("seeded %d of %d movies: %w", len(stored), len(drafts), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d movies\n", len(stored))
	return nil
}

func renderMovies(movies []model.Movie) string {
	rows := make([][]string, 0, len(movies))
	for _, m := range movies {
		year := ""
		if m.ReleaseYear != nil {
			year = strconv.Itoa(*m.ReleaseYear)
		}
		rows = append(rows, []string{m.ID, m.Title, year, strings.Join(m.Genres, ", "), m.ExternalID})
	}
	return renderTable(
		[]string{"ID", "Title", "Year", "Genres", "External"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight},
	)
}
