// Package cli implements the mnemos CLI commands. Apart from serve, every
// command is a thin HTTP client against a running mnemos server.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var endpoint string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "mnemos",
	Short: "Consent-gated memory pipeline",
	Long:  "mnemos stores resonance-tagged memory shards and gates their release behind explicit consent decisions.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "http://localhost:8711", "Server endpoint")
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func printJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(v)
}

func call(method, path string, body interface{}) map[string]interface{} {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			exitErr("encode request", err)
		}
		reader = bytes.NewReader(data)
	}
	request, err := http.NewRequest(method, endpoint+path, reader)
	if err != nil {
		exitErr("build request", err)
	}
	request.Header.Set("Content-Type", "application/json")
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		exitErr("call server", err)
	}
	defer response.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		exitErr("decode response", err)
	}
	if response.StatusCode >= 400 {
		exitErr(fmt.Sprintf("%s %s (%d)", method, path, response.StatusCode),
			fmt.Errorf("%v", decoded["error"]))
	}
	return decoded
}
