package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/CreativeUnicorns/viewerprefs"
)

func newRootCmd() *cobra.Command {
	var (
		dataDir  string
		viewerID string
		verbose  bool
	)

	root := &cobra.Command{
		Use:           "viewerprefs",
		Short:         "Manage viewer preferences",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "directory holding the preference database and cookie jar")
	root.PersistentFlags().StringVar(&viewerID, "viewer", viewerprefs.DefaultViewerID, "viewer id")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	// withSettings opens the backends, runs fn and persists the cookie jar.
	withSettings := func(cmd *cobra.Command, fn func(s *viewerprefs.Settings) error) (err error) {
		logger := viewerprefs.NewLogger(cmd.ErrOrStderr(), true)
		logger.SetLevel(viewerprefs.LogLevelWarn)
		if verbose {
			logger.SetLevel(viewerprefs.LogLevelDebug)
		}
		a, err := openApp(dataDir, viewerID, logger)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.close(); err == nil {
				err = cerr
			}
		}()
		return fn(a.settings)
	}

	root.AddCommand(
		newPlaybackCmd(withSettings),
		newDarkModeCmd(withSettings),
		newFilterCmd(withSettings),
		newShowCmd(withSettings),
		newResetCmd(withSettings),
		newValidateURLCmd(),
	)
	return root
}

type settingsFunc func(cmd *cobra.Command, fn func(s *viewerprefs.Settings) error) error

func defaultedSuffix(defaulted bool) string {
	if defaulted {
		return " (default)"
	}
	return ""
}

// --- playback ---

func newPlaybackCmd(withSettings settingsFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playback",
		Short: "Get or set the default playback mode",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the default playback mode",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSettings(cmd, func(s *viewerprefs.Settings) error {
					mode, defaulted := s.LoadDefaultPlayback(cmd.Context())
					fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", mode, defaultedSuffix(defaulted))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set <mode>",
			Short: "Set the default playback mode",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if args[0] == "" {
					return fmt.Errorf("mode must not be empty")
				}
				return withSettings(cmd, func(s *viewerprefs.Settings) error {
					s.SaveDefaultPlayback(cmd.Context(), args[0])
					return nil
				})
			},
		},
	)
	return cmd
}

// --- dark-mode ---

func newDarkModeCmd(withSettings settingsFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dark-mode",
		Short: "Get or set dark mode",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print whether dark mode is on",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSettings(cmd, func(s *viewerprefs.Settings) error {
					dark, defaulted := s.LoadDarkMode(cmd.Context())
					fmt.Fprintf(cmd.OutOrStdout(), "%t%s\n", dark, defaultedSuffix(defaulted))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set <true|false>",
			Short: "Turn dark mode on or off",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dark, err := cast.ToBoolE(args[0])
				if err != nil {
					return fmt.Errorf("invalid value %q: %w", args[0], viewerprefs.ErrInvalidValue)
				}
				return withSettings(cmd, func(s *viewerprefs.Settings) error {
					s.SaveDarkMode(cmd.Context(), dark)
					return nil
				})
			},
		},
	)
	return cmd
}

// --- filter ---

func newFilterCmd(withSettings settingsFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Get or set the short-video filter",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Print the short-video filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(cmd, func(s *viewerprefs.Settings) error {
				f, defaulted := s.LoadShortVideoFilter(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "enabled=%t minutes=%g max_seconds=%g%s\n",
					f.Enabled, f.Minutes, f.Minutes*60, defaultedSuffix(defaulted))
				return nil
			})
		},
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Update the short-video filter",
		Long: `Update the short-video filter. Flags that are not given keep their current value.

Examples:
  viewerprefs filter set --enabled
  viewerprefs filter set --enabled=false --minutes 2.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("enabled") && !flags.Changed("minutes") {
				return fmt.Errorf("one of --enabled or --minutes is required")
			}
			return withSettings(cmd, func(s *viewerprefs.Settings) error {
				f, _ := s.LoadShortVideoFilter(cmd.Context())
				if flags.Changed("enabled") {
					f.Enabled, _ = flags.GetBool("enabled")
				}
				if flags.Changed("minutes") {
					f.Minutes, _ = flags.GetFloat64("minutes")
				}
				s.SaveShortVideoFilter(cmd.Context(), f.Enabled, f.Minutes)
				return nil
			})
		},
	}
	set.Flags().Bool("enabled", false, "enable the filter")
	set.Flags().Float64("minutes", viewerprefs.DefaultShortVideoMinutes, "skip videos shorter than this many minutes")

	cmd.AddCommand(get, set)
	return cmd
}

// --- show / reset ---

func newShowCmd(withSettings settingsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print every preference as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(cmd, func(s *viewerprefs.Settings) error {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(s.Snapshot(cmd.Context()))
			})
		},
	}
}

func newResetCmd(withSettings settingsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget every stored preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(cmd, func(s *viewerprefs.Settings) error {
				s.Reset(cmd.Context())
				return nil
			})
		},
	}
}

// --- validate-url ---

func newValidateURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-url <url>",
		Short: "Check that a URL is an absolute http or https URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := viewerprefs.ParseHTTPURL(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}
