// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli implements the reelctl command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/services"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/workflow"
	"github.com/jaycherian/gcp-go-reel-generator/internal/telemetry"
	"github.com/spf13/cobra"
)

type options struct {
	configDir string
	runtime   string
	verbose   bool
	asJSON    bool

	prompt     string
	style      string
	duration   int
	images     []string
	audio      string
	noTrending bool

	trendStyle string
}

// NewRootCommand builds the reelctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "reelctl",
		Short:         "Generate short vertical reels from a text prompt",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(telemetry.NewHandler(cmd.ErrOrStderr(), level)))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", "configs", "Directory holding the .env TOML files")
	root.PersistentFlags().StringVar(&opts.runtime, "runtime", "local", "Runtime selecting .env.<runtime>.toml")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of formatted text")

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate a reel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}
	generate.Flags().StringVarP(&opts.prompt, "prompt", "p", "", "Topic of the reel")
	generate.Flags().StringVarP(&opts.style, "style", "s", string(model.DefaultStyle), "Visual style: "+styleNames())
	generate.Flags().IntVarP(&opts.duration, "duration", "d", model.DefaultDuration, "Target duration in seconds")
	generate.Flags().StringSliceVarP(&opts.images, "image", "i", nil, "Background image (repeatable)")
	generate.Flags().StringVarP(&opts.audio, "audio", "a", "", "Soundtrack replacing the generated audio")
	generate.Flags().BoolVar(&opts.noTrending, "no-trending", false, "Skip trending hashtags and effects")
	_ = generate.MarkFlagRequired("prompt")

	styles := &cobra.Command{
		Use:   "styles",
		Short: "List the available styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStyles(cmd, opts)
		},
	}

	trendsCmd := &cobra.Command{
		Use:   "trends",
		Short: "Show current trending data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrends(cmd, opts)
		},
	}
	trendsCmd.Flags().StringVarP(&opts.trendStyle, "style", "s", "", "Tailor the trends to a style")

	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove uploaded and temporary files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCleanup(cmd, opts)
		},
	}

	root.AddCommand(generate, styles, trendsCmd, cleanup)
	return root
}

// Execute runs reelctl with the process arguments.
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

func styleNames() string {
	names := make([]string, 0, len(model.AllStyles()))
	for _, s := range model.AllStyles() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func loadConfig(opts *options) (*cloud.Config, error) {
	if err := os.Setenv(cloud.EnvConfigFilePrefix, opts.configDir); err != nil {
		return nil, err
	}
	if err := os.Setenv(cloud.EnvConfigRuntime, opts.runtime); err != nil {
		return nil, err
	}
	config := cloud.NewConfig()
	if err := cloud.LoadConfig(config); err != nil {
		return nil, err
	}
	return config, config.EnsureDirs()
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runGenerate(cmd *cobra.Command, opts *options) error {
	style, err := model.ParseStyle(opts.style)
	if err != nil {
		return err
	}
	config, err := loadConfig(opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	clients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		return err
	}
	defer clients.Close()

	generator := workflow.NewReelGenerator(config, workflow.NewDependencies(config, clients))
	result, err := generator.Generate(ctx, model.ReelRequest{
		Prompt:          opts.prompt,
		Style:           style,
		Duration:        opts.duration,
		ImagePaths:      opts.images,
		AudioPath:       opts.audio,
		IncludeTrending: !opts.noTrending,
	})
	if err != nil {
		return err
	}
	if opts.asJSON {
		return writeJSON(cmd, result)
	}

	p := newPrinter(cmd.OutOrStdout())
	p.title("Reel ready")
	p.field("id", result.ID)
	p.field("video", result.VideoPath)
	if result.PublishedURI != "" {
		p.field("published", result.PublishedURI)
	}
	p.field("audio", string(result.AudioKind))
	if result.Fallback {
		p.field("status", p.render(warnStyle, "fallback reel"))
	} else {
		p.field("status", p.render(okStyle, "ok"))
	}
	if result.Trending != nil && len(result.Trending.Hashtags) > 0 {
		p.box(strings.Join(result.Trending.Hashtags, " "))
	}
	return nil
}

func runStyles(cmd *cobra.Command, opts *options) error {
	if opts.asJSON {
		return writeJSON(cmd, model.Styles())
	}
	p := newPrinter(cmd.OutOrStdout())
	p.title("Styles")
	for _, s := range model.Styles() {
		p.field(string(s.ID), s.Name+" - "+s.Description)
	}
	return nil
}

func runTrends(cmd *cobra.Command, opts *options) error {
	config, err := loadConfig(opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	deps := workflow.NewDependencies(config, nil)

	var data model.TrendingData
	if opts.trendStyle != "" {
		style, perr := model.ParseStyle(opts.trendStyle)
		if perr != nil {
			return perr
		}
		data, err = deps.Analyzer.ForStyle(ctx, style)
	} else {
		data, err = deps.Analyzer.Get(ctx)
	}
	if err != nil {
		return err
	}
	if opts.asJSON {
		return writeJSON(cmd, data)
	}

	p := newPrinter(cmd.OutOrStdout())
	p.title("Trending now")
	p.field("hashtags", strings.Join(data.Hashtags, " "))
	p.field("sounds", strings.Join(data.Sounds, ", "))
	p.field("topics", strings.Join(data.Topics, ", "))
	return nil
}

func runCleanup(cmd *cobra.Command, opts *options) error {
	config, err := loadConfig(opts)
	if err != nil {
		return err
	}
	removed, err := services.NewWorkspace(config).Cleanup()
	if err != nil {
		return err
	}
	if opts.asJSON {
		return writeJSON(cmd, map[string]any{"success": true, "removed": removed})
	}
	newPrinter(cmd.OutOrStdout()).field("removed", fmt.Sprintf("%d files", removed))
	return nil
}
