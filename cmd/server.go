package cmd

import (
	"sonicstream/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the SonicStream server",
	Long:  `Start the SonicStream HTTP server, serving the catalog, library, playlist and discovery APIs.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
