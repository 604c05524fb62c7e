package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"menu-customizer/internal/store"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the global config",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective config (file plus environment)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": app.cfg,
				"meta": map[string]any{
					"path":     path,
					"dataDir":  app.Dir,
					"host":     app.HostPath,
					"logLevel": app.LogLevel,
				},
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config key (hostDocument, dataDir, saveDebounceMs, settleDelayMs, scrollMarginRows, logLevel)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Read the file as stored so environment overrides never leak into it.
			cfg, err := store.LoadConfigFile()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := setConfigKey(cfg, args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	})
	return cmd
}

func setConfigKey(cfg *store.GlobalConfig, key, value string) error {
	value = strings.TrimSpace(value)
	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%s: want a non-negative integer, got %q", key, value)
		}
		return n, nil
	}
	var err error
	switch key {
	case "hostDocument":
		cfg.HostDocument = value
	case "dataDir":
		cfg.DataDir = value
	case "logLevel":
		cfg.LogLevel = value
	case "saveDebounceMs":
		cfg.SaveDebounceMs, err = atoi()
	case "settleDelayMs":
		cfg.SettleDelayMs, err = atoi()
	case "scrollMarginRows":
		cfg.ScrollMarginRows, err = atoi()
	default:
		return fmt.Errorf("unknown config key: %q", key)
	}
	return err
}
