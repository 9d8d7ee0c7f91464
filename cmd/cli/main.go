package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	authToken string
	apiURL    = "http://localhost:3000"
	output    = "text" // "text" or "json"
)

var rootCmd = &cobra.Command{
	Use:   "twitter",
	Short: "Twitter CLI - Interact with the API from the terminal",
	Long: `Twitter CLI provides command-line access to the API.
Browse the timeline, inspect profiles and post tweets without a browser.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if authToken == "" {
			authToken = os.Getenv("TWITTER_TOKEN")
		}
		if authToken == "" && cmd.Name() != "help" && cmd.Parent() != nil {
			fmt.Fprintf(os.Stderr, "Error: TWITTER_TOKEN environment variable not set\n")
			fmt.Fprintf(os.Stderr, "Please set your auth token: export TWITTER_TOKEN=<your-token>\n")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Authentication token (defaults to TWITTER_TOKEN env var)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", apiURL, "API server URL")
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	rootCmd.AddCommand(tweetsCmd)
	rootCmd.AddCommand(usersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
