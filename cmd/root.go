package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/yonathan001/Appointment/cmd/http"
	systemcmd "github.com/yonathan001/Appointment/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "appointment",
	Short: "Multi-tenant appointment scheduling backend.",
	Long: `Appointment is a multi-tenant scheduling backend. Organizations publish
services, clients book appointments against them, and every request is
filtered down to the rows its caller is allowed to see.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
