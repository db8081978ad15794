package cmd

import (
	"github.com/spf13/cobra"

	"Framecast/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Framecast HTTP server",
	Long:  `Start the Framecast backend: project API, editing sessions, media storage and the render pipeline.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
