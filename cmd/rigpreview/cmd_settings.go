package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rigtools/rigpreview/internal/settings"
	"github.com/rigtools/rigpreview/internal/store"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage persisted preview settings",
		Long: `View and modify the persisted preview settings.

Settings are stored in <root>/.rigpreview/rigpreview.db.

Examples:
  rigpreview settings list                     # Show all settings
  rigpreview settings get preview_mode         # Get a specific setting
  rigpreview settings set preview_mode fast    # Set a setting
  rigpreview settings set suppress_autobuild false`,
	}

	cmd.AddCommand(
		newSettingsListCmd(),
		newSettingsGetCmd(),
		newSettingsSetCmd(),
	)

	return cmd
}

func openSettings(cmd *cobra.Command) (*store.Store, *settings.Settings, error) {
	st, err := store.Open(projectRoot(cmd))
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	return st, settings.New(st), nil
}

func newSettingsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all settings with their current values",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			ctx := context.Background()

			st, set, err := openSettings(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			values := map[string]string{
				settings.KeyDebugLogging:      strconv.FormatBool(set.DebugLogging(ctx)),
				settings.KeyPreviewMode:       set.PreviewMode(ctx),
				settings.KeyBoneOverlay:       strconv.FormatBool(set.BoneOverlay(ctx)),
				settings.KeyHotkeyCode:        strconv.Itoa(set.HotkeyCode(ctx)),
				settings.KeySuppressAutoBuild: strconv.FormatBool(set.SuppressAutoBuild(ctx)),
				settings.KeySuppressExporters: strconv.FormatBool(set.SuppressExporters(ctx)),
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(values)
			}

			fmt.Println("Preview settings:")
			for _, key := range settings.Known() {
				fmt.Printf("  %-20s %-6s (default %s) — %s\n",
					key.Name, values[key.Name], key.Default, key.Doc)
			}
			return nil
		},
	}
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a setting value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			ctx := context.Background()

			st, set, err := openSettings(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			var value string
			switch args[0] {
			case settings.KeyDebugLogging:
				value = strconv.FormatBool(set.DebugLogging(ctx))
			case settings.KeyPreviewMode:
				value = set.PreviewMode(ctx)
			case settings.KeyBoneOverlay:
				value = strconv.FormatBool(set.BoneOverlay(ctx))
			case settings.KeyHotkeyCode:
				value = strconv.Itoa(set.HotkeyCode(ctx))
			case settings.KeySuppressAutoBuild:
				value = strconv.FormatBool(set.SuppressAutoBuild(ctx))
			case settings.KeySuppressExporters:
				value = strconv.FormatBool(set.SuppressExporters(ctx))
			default:
				return fmt.Errorf("unknown setting %q", args[0])
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]string{args[0]: value})
			}
			fmt.Println(value)
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			key, raw := args[0], args[1]

			st, set, err := openSettings(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			switch key {
			case settings.KeyDebugLogging, settings.KeyBoneOverlay,
				settings.KeySuppressAutoBuild, settings.KeySuppressExporters:
				v, err := strconv.ParseBool(raw)
				if err != nil {
					return fmt.Errorf("%s expects a boolean, got %q", key, raw)
				}
				switch key {
				case settings.KeyDebugLogging:
					err = set.SetDebugLogging(ctx, v)
				case settings.KeyBoneOverlay:
					err = set.SetBoneOverlay(ctx, v)
				case settings.KeySuppressAutoBuild:
					err = set.SetSuppressAutoBuild(ctx, v)
				case settings.KeySuppressExporters:
					err = set.SetSuppressExporters(ctx, v)
				}
				if err != nil {
					return err
				}
			case settings.KeyPreviewMode:
				if err := set.SetPreviewMode(ctx, raw); err != nil {
					return err
				}
			case settings.KeyHotkeyCode:
				code, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("%s expects an integer key code, got %q", key, raw)
				}
				if err := set.SetHotkeyCode(ctx, code); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown setting %q", key)
			}

			fmt.Printf("%s = %s\n", key, raw)
			return nil
		},
	}
}
