package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func init() {
	var action, subject string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit ledger in sequence order",
		Run: func(cmd *cobra.Command, args []string) {
			values := url.Values{}
			if action != "" {
				values.Set("action", action)
			}
			if subject != "" {
				values.Set("subjectId", subject)
			}
			path := "/v1/audit"
			if encoded := values.Encode(); encoded != "" {
				path += "?" + encoded
			}
			printJSON(call("GET", path, nil))
		},
	}

	cmd.Flags().StringVar(&action, "action", "", "Filter by action (store, modify, delete, consent_decision)")
	cmd.Flags().StringVar(&subject, "subject", "", "Filter by subject id")
	RootCmd.AddCommand(cmd)
}
