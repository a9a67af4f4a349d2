package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the zoom-mcp application
var rootCmd = &cobra.Command{
	Use:   "zoom-mcp",
	Short: "MCP server for Zoom cloud recordings and transcripts",
	Long: `zoom-mcp is a Model Context Protocol server that lets AI assistants list
Zoom cloud recordings, inspect a recording and fetch meeting transcripts.

Zoom OAuth credentials are passed as tool arguments on every call. The server
never stores them; use the zoom_refresh_token tool to obtain a fresh access
token when the current one expires.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "zoom-mcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
