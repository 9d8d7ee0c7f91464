package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tweetsCmd = &cobra.Command{
	Use:   "tweets",
	Short: "Browse and post tweets",
}

var tweetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the latest tweets",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := call("GET", "/api/tweets", nil)
		if err != nil {
			return err
		}
		return printData(data)
	},
}

var tweetsGetCmd = &cobra.Command{
	Use:   "get <tweet-id>",
	Short: "Show one tweet with its counters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := call("GET", "/api/tweets/"+args[0], nil)
		if err != nil {
			return err
		}
		return printData(data)
	},
}

var tweetsPostCmd = &cobra.Command{
	Use:   "post <text>",
	Short: "Post a new tweet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := call("POST", "/api/tweets", map[string]string{"description": args[0]})
		if err != nil {
			return err
		}
		fmt.Println("tweet posted")
		return printData(data)
	},
}

var tweetsRepliesCmd = &cobra.Command{
	Use:   "replies <tweet-id>",
	Short: "List a tweet's replies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := call("GET", "/api/tweets/"+args[0]+"/replies", nil)
		if err != nil {
			return err
		}
		return printData(data)
	},
}

func init() {
	tweetsCmd.AddCommand(tweetsListCmd)
	tweetsCmd.AddCommand(tweetsGetCmd)
	tweetsCmd.AddCommand(tweetsPostCmd)
	tweetsCmd.AddCommand(tweetsRepliesCmd)
}
