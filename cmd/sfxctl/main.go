package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	settingsPath string
	assetPath    string
	debug        bool

	rootCmd = &cobra.Command{
		Use:           "sfxctl",
		Short:         "Inspect and drive a game audio session from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "preference file (.yaml or .db; empty keeps preferences in memory)")
	rootCmd.PersistentFlags().StringVar(&assetPath, "assets", "assets", "asset directory or .zip bundle")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log lifecycle events")

	rootCmd.AddCommand(statusCmd, toggleCmd, playCmd, musicCmd, genAssetsCmd, renderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command) *log.Logger {
	l := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "sfxctl"})
	if debug {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
