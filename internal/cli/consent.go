package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func init() {
	pending := &cobra.Command{
		Use:   "pending",
		Short: "List consent rounds awaiting a decision",
		Run: func(cmd *cobra.Command, args []string) {
			printJSON(call("GET", "/v1/consent/pending", nil))
		},
	}
	RootCmd.AddCommand(pending)

	approve := &cobra.Command{
		Use:   "approve [id]",
		Short: "Approve the pending consent round for a memory id",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			printJSON(call("POST", "/v1/consent/"+url.PathEscape(args[0])+"/approve", nil))
		},
	}
	RootCmd.AddCommand(approve)

	deny := &cobra.Command{
		Use:   "deny [id]",
		Short: "Deny the pending consent round for a memory id",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			printJSON(call("POST", "/v1/consent/"+url.PathEscape(args[0])+"/deny", nil))
		},
	}
	RootCmd.AddCommand(deny)

	mode := &cobra.Command{
		Use:   "mode [mode]",
		Short: "Show or switch the consent mode",
		Long:  "Without an argument, prints the current mode. With one, switches to it (always_yes, always_no, random, manual, voice, custom).",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				printJSON(call("GET", "/v1/consent/mode", nil))
				return
			}
			printJSON(call("PUT", "/v1/consent/mode", map[string]string{"mode": args[0]}))
		},
	}
	RootCmd.AddCommand(mode)
}
