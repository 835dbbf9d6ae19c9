package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosh-shell/gosh/core/config"
	"github.com/gosh-shell/gosh/core/logger"
	"github.com/spf13/cobra"
)

var (
	colorBoldGreen = color.New(color.FgGreen, color.Bold)
	colorBoldCyan  = color.New(color.FgCyan, color.Bold)
	colorBoldRed   = color.New(color.FgRed, color.Bold)
)

var logsCmd = &cobra.Command{
	Use:     "logs",
	Aliases: []string{"log"},
	Short:   "Explore the shell session logs.",
}

func openSessionLog(args []string) (*os.File, error) {
	if len(args) > 0 {
		return os.Open(args[0])
	}
	return os.Open(filepath.Join(cfgPath, config.SessionLogName))
}

// catCommand prints a session log in human readable form.
var catCommand = &cobra.Command{
	Use:   "cat [FILE]",
	Short: "Print a recorded session log to the terminal.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		fd, err := openSessionLog(args)
		if err != nil {
			return err
		}
		defer fd.Close()

		w := cmd.OutOrStdout()
		return logger.ReadJSONLinesLog(fd, func(le *logger.LogEntry) {
			stamp := time.UnixMicro(le.TimestampMicros).UTC().Format(time.RFC3339)
			switch {
			case le.SessionStart != nil:
				colorBoldCyan.Fprintf(w, "%s session start user=%s dir=%s\n",
					stamp, le.SessionStart.User, le.SessionStart.WorkingDir)
			case le.SessionEnd != nil:
				colorBoldCyan.Fprintf(w, "%s session end status=%d\n",
					stamp, le.SessionEnd.ExitStatus)
			case le.CommandRun != nil:
				colorBoldGreen.Fprintf(w, "%s run %s\n",
					stamp, strings.Join(le.CommandRun.Argv, " "))
			case le.LookupFailure != nil:
				colorBoldRed.Fprintf(w, "%s not found %s\n",
					stamp, le.LookupFailure.Name)
			default:
				fmt.Fprintf(w, "%s unknown event\n", stamp)
			}
		})
	},
}

// reportCommand summarizes a session log.
var reportCommand = &cobra.Command{
	Use:   "report [FILE]",
	Short: "Summarize command usage from a session log.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		fd, err := openSessionLog(args)
		if err != nil {
			return err
		}
		defer fd.Close()

		report := logger.NewReport()
		if err := logger.ReadJSONLinesLog(fd, report.Update); err != nil {
			return err
		}

		report.WriteTo(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	logsCmd.AddCommand(catCommand)
	logsCmd.AddCommand(reportCommand)
	rootCmd.AddCommand(logsCmd)
}
