package main

import (
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect user profiles and the social graph",
}

var usersGetCmd = &cobra.Command{
	Use:   "get <user-id>",
	Short: "Show a user's profile with social counters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := call("GET", "/api/users/"+args[0], nil)
		if err != nil {
			return err
		}
		return printData(data)
	},
}

var usersTopCmd = &cobra.Command{
	Use:   "top",
	Short: "List the most-followed users",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := call("GET", "/api/users/top", nil)
		if err != nil {
			return err
		}
		return printData(data)
	},
}

var usersFollowersCmd = &cobra.Command{
	Use:   "followers <user-id>",
	Short: "List a user's followers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := call("GET", "/api/users/"+args[0]+"/followers", nil)
		if err != nil {
			return err
		}
		return printData(data)
	},
}

var usersFollowingsCmd = &cobra.Command{
	Use:   "followings <user-id>",
	Short: "List the users a user follows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := call("GET", "/api/users/"+args[0]+"/followings", nil)
		if err != nil {
			return err
		}
		return printData(data)
	},
}

func init() {
	usersCmd.AddCommand(usersGetCmd)
	usersCmd.AddCommand(usersTopCmd)
	usersCmd.AddCommand(usersFollowersCmd)
	usersCmd.AddCommand(usersFollowingsCmd)
}
