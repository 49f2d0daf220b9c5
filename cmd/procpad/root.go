// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/procpad/cmd/procpad/commands"
	"github.com/walteh/procpad/cmd/procpad/opts"
	"github.com/walteh/procpad/pkg/config"
	"github.com/walteh/procpad/pkg/engine"
	"github.com/walteh/procpad/pkg/log"
	"github.com/walteh/procpad/pkg/prefs"
	"github.com/walteh/procpad/pkg/processor"
	"github.com/walteh/procpad/pkg/settings"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds the persistent flags
type rootFlags struct {
	configFile string
	debug      bool
}

// newRootCmd builds the command tree. Console output of processor events goes
// to console.
func newRootCmd(console io.Writer) *cobra.Command {
	flags := &rootFlags{}
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "procpad",
		Short: "Transform text with small JavaScript processors",
		Long: `procpad runs text through user-selectable processors: JavaScript files that
expose process(text, ...options). Import your own processors, enable, favourite
and reorder them, and configure their options with script literals.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(flags.debug)
			ctx := zerolog.DefaultContextLogger.WithContext(cmd.Context())

			if err := loadRootOpts(ctx, o, flags.configFile, console); err != nil {
				return err
			}
			cmd.SetContext(log.NewContext(ctx, o.Logger))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return o.Close(cmd.Context())
		},
	}

	addRootFlags(rootCmd, flags)

	rootCmd.AddCommand(
		commands.NewListCmd(o),
		commands.NewOptionsCmd(o),
		commands.NewRunCmd(o),
		commands.NewImportCmd(o),
		commands.NewRemoveCmd(o),
		commands.NewEnableCmd(o),
		commands.NewDisableCmd(o),
		commands.NewFavouriteCmd(o),
		commands.NewUnfavouriteCmd(o),
		commands.NewMoveCmd(o),
		commands.NewRenameCmd(o),
		commands.NewSetOptionCmd(o),
		commands.NewSettingsCmd(o),
		newVersionCmd(),
	)

	return rootCmd
}

// loadRootOpts wires configuration, preferences, catalog and tree into o
func loadRootOpts(ctx context.Context, o *opts.RootOpts, configFile string, console io.Writer) error {
	cfg, err := config.LoadOrDefault(ctx, configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	store, err := prefs.NewFileStore(cfg.Preferences)
	if err != nil {
		return errors.Errorf("opening preferences: %w", err)
	}

	snap, err := store.Load(ctx)
	if err != nil {
		return errors.Errorf("loading preferences: %w", err)
	}

	catalog, err := processor.NewCatalog(processor.Options{
		BundledDir:  cfg.BundledDir,
		ScriptsDir:  cfg.ScriptsDir,
		Engine:      engine.NewGoja(),
		Preferences: snap,
	})
	if err != nil {
		return errors.Errorf("creating catalog: %w", err)
	}

	ds, err := catalog.FindAll(ctx)
	if err != nil {
		return errors.Errorf("finding processors: %w", err)
	}

	if err := processor.Preload(ctx, ds, runtime.NumCPU()); err != nil {
		return errors.Errorf("preloading processors: %w", err)
	}

	level := zerolog.InfoLevel
	if zerolog.GlobalLevel() == zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	o.Config = cfg
	o.Store = store
	o.Saver = prefs.NewSaver(ctx, store)
	o.Catalog = catalog
	o.Tree = settings.New(ctx, ds, cfg.Settings, snap)
	o.Logger = log.New(console, level)
	return nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", ".procpad", "config file path")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
