package commands

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "svggraph",
	Short: "svggraph renders time-series line charts as SVG",
	Long: `svggraph reads one or more series from JSON, CSV or XLSX files and
renders them as a single SVG line chart with time and value axes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(NewPrettyHandler(cmd.ErrOrStderr(), PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{Level: level},
		})))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	loadEnvFiles()
	AddCommand(newRenderCmd())
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", envBool("SVGGRAPH_VERBOSE", false), "Log every render step")
}

// AddCommand registers a subcommand on the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
