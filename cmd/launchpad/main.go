package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "launchpad",
		Short: "Home server launchpad",
		Long:  `launchpad serves a shortcut grid for services on a home network, with user accounts, concurrent-login control and Wake-on-LAN.`,
	}

	rootCmd.AddCommand(newServeCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
