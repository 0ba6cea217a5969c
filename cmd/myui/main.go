package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/myui-dev/myui/internal/errors"
	"github.com/myui-dev/myui/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if !logging.IsTerminal(os.Stderr) {
		errors.DisableColors()
	}
	if err := rootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "myui",
		Short: "Student registry served as a live server-side UI",
		Long: `myui runs the student registry: a JSON API under /students and a
form/list UI whose DOM lives on the server and is streamed to the browser
over a WebSocket.

Configuration is read from myui.yaml or myui.json in the working directory,
or from the file given with --config. MYUI_* environment variables override
file values and command-line flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (default: myui.yaml or myui.json)")

	root.AddCommand(
		serveCmd(&configPath),
		configCmd(&configPath),
		errorsCmd(),
		versionCmd(),
	)
	return root
}

// success prints a success message.
func success(format string, args ...any) {
	mark := "✓"
	if logging.IsTerminal(os.Stdout) {
		mark = "\033[32m✓\033[0m"
	}
	fmt.Printf("%s %s\n", mark, fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
