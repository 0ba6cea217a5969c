package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/myui-dev/myui/internal/config"
)

func configCmd(configPath *string) *cobra.Command {
	var (
		format   string
		defaults bool
		envs     bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration the server would run with, after defaults and
environment overrides, as YAML or JSON.

Examples:
  myui config > myui.yaml
  myui config --defaults --format=json
  myui config --env`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if envs {
				fmt.Fprintln(out, strings.Join(config.EnvNames(), "\n"))
				return nil
			}
			if format != "yaml" && format != "json" {
				return fmt.Errorf("unknown format %q (want yaml or json)", format)
			}

			cfg := config.New()
			if !defaults {
				var err error
				if cfg, err = config.Load(*configPath); err != nil {
					return err
				}
			}
			data, err := cfg.Marshal(format)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			if format == "json" {
				fmt.Fprintln(out)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml or json")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Print the built-in defaults, ignoring files and environment")
	cmd.Flags().BoolVar(&envs, "env", false, "List the environment variables that override the configuration")

	return cmd
}
