package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/myui-dev/myui/internal/errors"
)

func errorsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "errors [code]",
		Short: "List error codes or explain one",
		Long: `List every error code myui can report, or explain a single code.

Examples:
  myui errors
  myui errors E081
  myui errors --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			codes := errors.GetAllCodes()
			if len(args) == 1 {
				code := strings.ToUpper(args[0])
				if _, ok := errors.GetTemplate(code); !ok {
					return fmt.Errorf("unknown error code %q", args[0])
				}
				codes = []string{code}
			}

			for _, code := range codes {
				t, _ := errors.GetTemplate(code)
				e := errors.New(code).WithDetail(t.Detail)
				switch {
				case asJSON:
					fmt.Fprintln(out, e.FormatJSON())
				case len(args) == 1:
					fmt.Fprint(out, e.Format())
				default:
					fmt.Fprintf(out, "%s  %-10s %s\n", code, t.Category, t.Message)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per code")

	return cmd
}
