// Package main — içerik komutları (seed, export).
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/akinalp/folio/config"
	"github.com/akinalp/folio/database"
	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/seed"
	"github.com/akinalp/folio/services"
	"github.com/akinalp/folio/ws"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func newSeedCmd() *cobra.Command {
	var file string
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the default projects section into the database",
		Long: "Writes the seed content (embedded default.yaml, CONTENT_SEED_PATH or --file)\n" +
			"into the editor store and saves a revision. Existing content is kept unless --force is given.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), file, force, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed YAML file (default: CONTENT_SEED_PATH or embedded)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing content")
	return cmd
}

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the current projects section as seed YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			return runExport(cmd.Context(), w)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}

// withServices, komutlar için sunucusuz bir service katmanı kurar.
// Hub çalıştırılmaz; bağlı client olmadığı için yayınlar boşa gider.
func withServices(ctx context.Context, cfg *config.Config, log *zap.Logger, defaults *seed.Defaults, fn func(*Services) error) error {
	db, err := database.New(cfg.Database.Path, database.Migrations(), log.Named("db"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	svcs, err := initServices(ctx, initRepositories(db.Conn), ws.NewHub(log), defaults, cfg, log)
	if err != nil {
		return err
	}

	runErr := fn(svcs)
	if err := svcs.Close(ctx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func runSeed(ctx context.Context, file string, force bool, w io.Writer) error {
	cfg, log, defaults, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	if file != "" {
		if defaults, err = seed.Load(file); err != nil {
			return err
		}
	}

	db, err := database.New(cfg.Database.Path, database.Migrations(), log.Named("db"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	repos := initRepositories(db.Conn)
	store := services.NewEditorStore(repos.EditorData, repos.ContentFile, log.Named("store"))

	existing, err := store.Get(ctx, models.KeyProjectsInfo)
	if err == nil && existing != nil && !force {
		db.Close()
		fmt.Fprintln(w, "projects section already has content, use --force to overwrite")
		return nil
	}
	if err == nil {
		err = store.Set(ctx, models.KeyProjectsInfo, defaults.Projects)
	}
	if err == nil {
		err = store.Set(ctx, models.KeyProjectsBackground, defaults.Projects.Background)
	}
	db.Close()
	if err != nil {
		return fmt.Errorf("failed to write seed: %w", err)
	}

	// Load ID'leri atar; Save yeni bir revision olarak kalıcı dokümana yazar.
	return withServices(ctx, cfg, log, defaults, func(svcs *Services) error {
		res, err := svcs.Projects.Save(ctx).Wait(ctx)
		if err != nil {
			return err
		}
		if !res.Success {
			return fmt.Errorf("seed save failed: %s", res.Reason)
		}
		snap := svcs.Projects.Snapshot()
		log.Info("seeded projects section", zap.Int("projects", len(snap.Projects)), zap.Int64("revision", snap.Revision))
		fmt.Fprintf(w, "seeded %d projects\n", len(snap.Projects))
		return nil
	})
}

func runExport(ctx context.Context, w io.Writer) error {
	cfg, log, defaults, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	return withServices(ctx, cfg, log, defaults, func(svcs *Services) error {
		out := seed.Defaults{Site: defaults.Site, Projects: svcs.Projects.Snapshot()}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to encode export: %w", err)
		}
		return enc.Close()
	})
}
