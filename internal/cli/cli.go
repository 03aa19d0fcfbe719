// Package cli wires the transcoder into a command-line tool.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"rpgscribe/internal/codec"
	"rpgscribe/internal/config"
	"rpgscribe/internal/corpus"
	"rpgscribe/internal/extract"
	"rpgscribe/internal/graph"
	"rpgscribe/internal/inject"
	"rpgscribe/internal/memory"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "rpgscribe",
		Short: "Extract and reinsert translatable text in serialized game documents",
		Long: "rpgscribe walks serialized game-data documents, extracts the text-bearing\n" +
			"fields into line-aligned corpus/translation file pairs, and later writes the\n" +
			"translated lines back into structurally identical documents.",
	}

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(injectCmd())
	rootCmd.AddCommand(tmCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <data-dir> <corpus-dir>",
		Short: "Extract text corpora and empty translation stubs from game documents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			cfg := setup()
			text, err := graph.NewTextCodec(cfg.SourceEncoding)
			if err != nil {
				return err
			}
			return extract.New(codec.Msgpack{}, text, cfg.WorkerCount).Run(ctx, args[0], args[1])
		},
	}
}

func injectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inject <data-dir> <corpus-dir> <out-dir>",
		Short: "Reinsert translated lines into re-encoded game documents",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			cfg := setup()
			text, err := graph.NewTextCodec(cfg.SourceEncoding)
			if err != nil {
				return err
			}
			return inject.New(codec.Msgpack{}, text, cfg.WorkerCount).Run(ctx, args[0], args[1], args[2])
		},
	}
}

func tmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tm",
		Short: "Translation memory (requires DATABASE_URL)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "push <corpus-dir>",
		Short: "Store filled-in translation pairs in the memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			return withStore(ctx, func(store *memory.Store) error {
				return pushCorpora(ctx, store, args[0])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "fill <corpus-dir>",
		Short: "Fill empty stub lines from remembered translations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			return withStore(ctx, func(store *memory.Store) error {
				return fillCorpora(ctx, store, args[0])
			})
		},
	})

	return cmd
}

func withStore(ctx context.Context, fn func(*memory.Store) error) error {
	cfg := setup()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("translation memory requires DATABASE_URL")
	}
	store, err := memory.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func pushCorpora(ctx context.Context, store *memory.Store, dir string) error {
	for _, kind := range corpusKinds(dir) {
		src, trans, err := corpus.ReadPair(dir, kind)
		if err != nil {
			log.Error().Err(err).Str("kind", kind).Msg("Skipping kind")
			continue
		}
		if _, err := store.Push(ctx, src, trans); err != nil {
			return fmt.Errorf("kind %s: %w", kind, err)
		}
	}
	return nil
}

func fillCorpora(ctx context.Context, store *memory.Store, dir string) error {
	for _, kind := range corpusKinds(dir) {
		src, trans, err := corpus.ReadPair(dir, kind)
		if err != nil {
			log.Error().Err(err).Str("kind", kind).Msg("Skipping kind")
			continue
		}
		filled, n, err := store.Fill(ctx, src, trans)
		if err != nil {
			return fmt.Errorf("kind %s: %w", kind, err)
		}
		if n == 0 {
			continue
		}
		if err := corpus.WriteTranslations(dir, kind, filled); err != nil {
			return fmt.Errorf("kind %s: %w", kind, err)
		}
		log.Info().Str("kind", kind).Int("filled", n).Msg("Stub lines filled from memory")
	}
	return nil
}

// corpusKinds lists the kinds that have a corpus file in dir.
func corpusKinds(dir string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil
	}
	var kinds []string
	for _, m := range matches {
		base := filepath.Base(m)
		if strings.HasSuffix(base, ".trans.txt") {
			continue
		}
		kinds = append(kinds, strings.TrimSuffix(base, ".txt"))
	}
	sort.Strings(kinds)
	return kinds
}

// setup loads config and applies the log level.
func setup() *config.Config {
	cfg := config.Load()
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return cfg
}

// setupContext returns a context canceled on SIGINT/SIGTERM.
func setupContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
