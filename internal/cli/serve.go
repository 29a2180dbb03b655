package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mnemos-ai/mnemos"
	"github.com/mnemos-ai/mnemos/rest"
)

func init() {
	var addr, configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mnemos HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			config := mnemos.DefaultConfig()
			if configPath != "" {
				loaded, err := mnemos.LoadConfig(configPath)
				if err != nil {
					exitErr("load config", err)
				}
				config = loaded
			}
			service, err := mnemos.New(mnemos.WithConfig(config))
			if err != nil {
				exitErr("init service", err)
			}
			fmt.Printf("mnemos listening on %s (consent mode: %s)\n", addr, service.ConsentMode())
			if err := rest.New(service).ListenAndServe(addr); err != nil {
				exitErr("serve", err)
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8711", "Listen address")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	RootCmd.AddCommand(cmd)
}
