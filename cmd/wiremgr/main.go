package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wiremgr/wiremgr/internal/cli"
	"github.com/wiremgr/wiremgr/internal/config"
	"github.com/wiremgr/wiremgr/internal/proxy"
	"github.com/wiremgr/wiremgr/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wiremgr",
	Short: "wiremgr - admin console for WireMock-compatible mock servers",
	Long: `wiremgr is a terminal console for managing a WireMock-compatible
mock server: browse and edit stub mappings, inspect the request journal,
and maintain the server, all over its admin API.

Run without arguments to start the TUI. Subcommands provide the same
operations non-interactively for scripting.

The server address comes from ~/.wiremgr/config.yaml or the
WIREMGR_BASE_URL environment variable (default http://localhost:8080).

Examples:
  wiremgr                              # Start the console
  wiremgr --open /requests             # Start on the request journal
  wiremgr mappings list -o json        # List stubs as JSON
  wiremgr requests clear               # Empty the request journal
  wiremgr health                       # Probe the server`,
	Version: version,
	Args:    cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Initialize()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(flagOpen)
	},
}

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Manage stub mappings",
}

var mappingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stub mappings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ListMappings(cliOpts())
	},
}

var mappingsSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Persist in-memory stubs to the server's backing store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.SaveMappings(cliOpts())
	},
}

var mappingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default stubs and clear the request journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ResetServer(cliOpts())
	},
}

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect the request journal",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ListRequests(cliOpts())
	},
}

var requestsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the request journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ClearRequests(cliOpts())
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the server's admin API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Health(cliOpts())
	},
}

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Run the same-origin development proxy",
	Long: `Run a local proxy that forwards /api/... to the mock server with
the prefix stripped, for clients that must avoid cross-origin requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load()
		if err != nil {
			return err
		}

		p, err := proxy.New(flagProxyPort, config.ProxyPath, settings.BaseURL)
		if err != nil {
			return err
		}
		if err := p.Start(); err != nil {
			return err
		}
		fmt.Printf("Proxying :%d%s -> %s (ctrl+c to stop)\n", flagProxyPort, config.ProxyPath, settings.BaseURL)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		return p.Stop()
	},
}

var (
	flagOpen      string
	flagOutput    string
	flagProxyPort int
)

func init() {
	rootCmd.Flags().StringVar(&flagOpen, "open", "/", "View to open (/, /create, /requests, /mapping/<id>, ...)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "Output format (json/yaml/text)")

	proxyCmd.Flags().IntVarP(&flagProxyPort, "port", "p", 3001, "Port to listen on")

	mappingsCmd.AddCommand(mappingsListCmd)
	mappingsCmd.AddCommand(mappingsSaveCmd)
	mappingsCmd.AddCommand(mappingsResetCmd)
	requestsCmd.AddCommand(requestsListCmd)
	requestsCmd.AddCommand(requestsClearCmd)

	rootCmd.AddCommand(mappingsCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(proxyCmd)
}

func cliOpts() cli.Options {
	return cli.Options{OutputFormat: flagOutput}
}
