package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	var payloadJSON, tone, symbol string
	var moral, intensity float64

	store := &cobra.Command{
		Use:   "store [id]",
		Short: "Store or overwrite a memory shard",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
				exitErr("parse --payload", err)
			}
			printJSON(call("POST", "/v1/memory", map[string]interface{}{
				"id":      args[0],
				"payload": payload,
				"tag": map[string]interface{}{
					"tone":        tone,
					"symbol":      symbol,
					"moralCharge": moral,
					"intensity":   intensity,
				},
			}))
		},
	}
	store.Flags().StringVarP(&payloadJSON, "payload", "p", "{}", "Shard payload as JSON")
	store.Flags().StringVar(&tone, "tone", "neutral", "Resonance tone")
	store.Flags().StringVar(&symbol, "symbol", "", "Resonance symbol (required)")
	store.Flags().Float64Var(&moral, "moral", 0, "Moral charge in [-1,1]")
	store.Flags().Float64Var(&intensity, "intensity", 0.5, "Intensity in [0,1]")
	_ = store.MarkFlagRequired("symbol")
	RootCmd.AddCommand(store)

	var qTone, qSymbol, qMinIntensity, qMoralMin, qMoralMax string
	query := &cobra.Command{
		Use:   "query",
		Short: "Query memory shards by resonance criteria",
		Run: func(cmd *cobra.Command, args []string) {
			values := url.Values{}
			for name, value := range map[string]string{
				"tone":         qTone,
				"symbol":       qSymbol,
				"minIntensity": qMinIntensity,
				"moralMin":     qMoralMin,
				"moralMax":     qMoralMax,
			} {
				if value != "" {
					values.Set(name, value)
				}
			}
			path := "/v1/memory"
			if encoded := values.Encode(); encoded != "" {
				path += "?" + encoded
			}
			printJSON(call("GET", path, nil))
		},
	}
	query.Flags().StringVar(&qTone, "tone", "", "Filter by tone")
	query.Flags().StringVar(&qSymbol, "symbol", "", "Filter by symbol")
	query.Flags().StringVar(&qMinIntensity, "min-intensity", "", "Minimum intensity")
	query.Flags().StringVar(&qMoralMin, "moral-min", "", "Minimum moral charge")
	query.Flags().StringVar(&qMoralMax, "moral-max", "", "Maximum moral charge")
	RootCmd.AddCommand(query)

	del := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a memory shard",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			printJSON(call("DELETE", "/v1/memory/"+url.PathEscape(args[0]), nil))
		},
	}
	RootCmd.AddCommand(del)

	var input string
	propose := &cobra.Command{
		Use:   "propose [id]",
		Short: "Generate a candidate, stash it and await the consent verdict",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if strings.TrimSpace(input) == "" {
				exitErr("propose", fmt.Errorf("--input is required"))
			}
			printJSON(call("POST", "/v1/propose", map[string]interface{}{
				"memoryId": args[0],
				"input":    input,
				"tag": map[string]interface{}{
					"tone":        tone,
					"symbol":      symbol,
					"moralCharge": moral,
					"intensity":   intensity,
				},
			}))
		},
	}
	propose.Flags().StringVarP(&input, "input", "i", "", "Generation input")
	propose.Flags().StringVar(&tone, "tone", "neutral", "Resonance tone")
	propose.Flags().StringVar(&symbol, "symbol", "", "Resonance symbol (required)")
	propose.Flags().Float64Var(&moral, "moral", 0, "Moral charge in [-1,1]")
	propose.Flags().Float64Var(&intensity, "intensity", 0.5, "Intensity in [0,1]")
	_ = propose.MarkFlagRequired("symbol")
	RootCmd.AddCommand(propose)
}
