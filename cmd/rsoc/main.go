package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"rsoc/internal/bootstrap"
	remotecfgadapter "rsoc/internal/modules/remotecfg/adapter/out"
	sessionadapter "rsoc/internal/modules/rsocsession/adapter/out"
	sessiondomain "rsoc/internal/modules/rsocsession/domain"
	"rsoc/internal/platform/config"
	"rsoc/internal/platform/geometry"
	"rsoc/internal/sim"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "rsoc",
		Short:         "Sponsored onboarding flow demo and tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", ".", "directory holding remote.yaml and the events database")

	root.AddCommand(newSimCmd(&dataDir))
	root.AddCommand(newRunCmd())
	root.AddCommand(newEventsCmd(&dataDir))
	root.AddCommand(newConfigCmd(&dataDir))
	root.AddCommand(newRendererCmd())
	return root
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newSimCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sim",
		Short: "Run the interactive onboarding demo",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}

func newRunCmd() *cobra.Command {
	var (
		loadDelay      time.Duration
		failLoad       bool
		silentScreen2  bool
		missingElement bool
		sponsorHidden  bool
		disabled       bool
		dwell          time.Duration
	)

	run := &cobra.Command{
		Use:   "run",
		Short: "Run a scripted headless journey and print the transcript",
		RunE: func(cmd *cobra.Command, _ []string) error {
			scenario := sim.DefaultScenario()
			scenario.Pages.LoadDelay = loadDelay
			scenario.Pages.SilentScreen2Link = silentScreen2
			scenario.Dwell = dwell
			if failLoad {
				scenario.Pages.LoadErr = errors.New("content load refused")
			}
			if missingElement {
				scenario.Pages.Rects = map[sessiondomain.Screen]*geometry.Rect{}
			}
			if sponsorHidden {
				scenario.Config.SponsorPageVisible = false
			}
			if disabled {
				scenario.Config = nil
			}

			result := sim.Run(scenario)
			for _, line := range result.Transcript {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
			if len(result.Events) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no analytics events")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "analytics events:")
			for _, name := range result.Events {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
			}
			return nil
		},
	}
	run.Flags().DurationVar(&loadDelay, "load-delay", 0, "simulated content load latency")
	run.Flags().BoolVar(&failLoad, "fail-load", false, "make the content load fail")
	run.Flags().BoolVar(&silentScreen2, "silent-screen2", false, "suppress the screen2 navigation signal")
	run.Flags().BoolVar(&missingElement, "missing-element", false, "serve pages without the target element")
	run.Flags().BoolVar(&sponsorHidden, "sponsor-hidden", false, "disable the post-paywall sponsor page")
	run.Flags().BoolVar(&disabled, "disabled", false, "run with the feature disabled")
	run.Flags().DurationVar(&dwell, "dwell", 5*time.Second, "sponsor countdown duration")
	return run
}

func newEventsCmd(dataDir *string) *cobra.Command {
	var limit int
	events := &cobra.Command{
		Use:   "events",
		Short: "List recorded analytics events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			list, err := app.Events.List(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no events recorded")
				return nil
			}
			for _, e := range list {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.At.Format(time.RFC3339), e.Name)
			}
			return nil
		},
	}
	events.Flags().IntVar(&limit, "limit", 50, "maximum events to show")
	return events
}

func newRendererCmd() *cobra.Command {
	var binary string
	renderer := &cobra.Command{Use: "renderer", Short: "Out-of-process renderer tooling"}

	check := &cobra.Command{
		Use:   "check",
		Short: "Start a renderer binary and verify the surface lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if binary == "" {
				return fmt.Errorf("--binary is required")
			}

			// A buffered channel stands in for the host loop; the check
			// drains it on this goroutine.
			loop := make(chan func(), 64)
			host := sessionadapter.NewRendererHost(binary, func(fn func()) { loop <- fn })
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := host.Start(ctx); err != nil {
				return err
			}
			defer host.Close()

			surface := host.New()
			var loadErr error
			loaded := false
			surface.OnLoad(func(err error) {
				loaded = true
				loadErr = err
			})
			surface.AddStartScript(sessiondomain.InvisibilityScript())
			surface.Load("https://offers.example.com/entry")

			deadline := time.After(5 * time.Second)
			for !loaded {
				select {
				case fn := <-loop:
					fn()
				case <-deadline:
					return fmt.Errorf("renderer did not report a load")
				}
			}
			if loadErr != nil {
				return fmt.Errorf("renderer load failed: %w", loadErr)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "renderer ok: %s\n", binary)
			return nil
		},
	}
	check.Flags().StringVar(&binary, "binary", "", "path to the renderer binary")
	renderer.AddCommand(check)
	return renderer
}

func newConfigCmd(dataDir *string) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Remote config fixtures"}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the remote config fixture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(*dataDir)
			if err != nil {
				return err
			}
			remote, err := remotecfgadapter.Load(cfg.ConfigPath)
			if err != nil {
				return err
			}
			if err := remote.Validate(); err != nil {
				return err
			}
			state := "disabled"
			if remote.Usable() {
				state = "enabled"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s sponsor_page_visible=%t link=%s\n", cfg.ConfigPath, state, remote.SponsorPageVisible, remote.Link)
			return nil
		},
	})
	return cfgCmd
}
