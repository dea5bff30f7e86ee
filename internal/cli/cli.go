// Package cli implements the non-interactive admin commands: listing and
// maintaining mappings and the request journal without entering the TUI.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wiremgr/wiremgr/internal/config"
	"github.com/wiremgr/wiremgr/internal/wiremock"
	"gopkg.in/yaml.v3"
)

// Options configure a CLI invocation.
type Options struct {
	OutputFormat string // json, yaml, text
	Out          io.Writer
}

func (o Options) out() io.Writer {
	if o.Out != nil {
		return o.Out
	}
	return os.Stdout
}

const cliTimeout = 15 * time.Second

func newClient() (*wiremock.Client, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	return wiremock.New(settings.AdminAddress()), nil
}

// ListMappings prints the stub collection.
func ListMappings(opts Options) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	mappings, err := client.ListMappings(ctx)
	if err != nil {
		return fmt.Errorf("failed to list mappings: %w", err)
	}

	switch opts.OutputFormat {
	case "json":
		return printJSON(opts.out(), mappings)
	case "yaml":
		return printYAML(opts.out(), mappings)
	default:
		w := opts.out()
		fmt.Fprintf(w, "%-36s  %-7s  %-6s  %-30s  %s\n", "ID", "METHOD", "STATUS", "URL", "NAME")
		for _, m := range mappings {
			fmt.Fprintf(w, "%-36s  %-7s  %-6d  %-30s  %s\n",
				m.ID, m.Request.Method, m.Response.Status, m.MatchTarget(), m.Name)
		}
		fmt.Fprintf(w, "\n%d mappings\n", len(mappings))
		return nil
	}
}

// ListRequests prints the request journal.
func ListRequests(opts Options) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	entries, err := client.ListRequests(ctx)
	if err != nil {
		return fmt.Errorf("failed to list requests: %w", err)
	}

	switch opts.OutputFormat {
	case "json":
		return printJSON(opts.out(), entries)
	case "yaml":
		return printYAML(opts.out(), entries)
	default:
		w := opts.out()
		fmt.Fprintf(w, "%-20s  %-7s  %-6s  %-9s  %s\n", "LOGGED", "METHOD", "STATUS", "STUB", "URL")
		for _, e := range entries {
			stub := "matched"
			if !e.ResponseDefinition.FromConfiguredStub {
				stub = "unmatched"
			}
			fmt.Fprintf(w, "%-20s  %-7s  %-6d  %-9s  %s\n",
				e.Request.LoggedTime().Format("2006-01-02 15:04:05"),
				e.Request.Method, e.ResponseDefinition.Status, stub, e.Request.URL)
		}
		fmt.Fprintf(w, "\n%d requests\n", len(entries))
		return nil
	}
}

// ClearRequests empties the request journal.
func ClearRequests(opts Options) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	if err := client.ResetRequests(ctx); err != nil {
		return fmt.Errorf("failed to clear requests: %w", err)
	}
	fmt.Fprintln(opts.out(), "Request log cleared")
	return nil
}

// SaveMappings persists the current stubs server-side.
func SaveMappings(opts Options) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	if err := client.SaveMappings(ctx); err != nil {
		return fmt.Errorf("failed to save mappings: %w", err)
	}
	fmt.Fprintln(opts.out(), "Mappings saved to disk")
	return nil
}

// ResetServer restores the server's default stubs and clears the journal.
func ResetServer(opts Options) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	if err := client.ResetMappings(ctx); err != nil {
		return fmt.Errorf("failed to reset server: %w", err)
	}
	fmt.Fprintln(opts.out(), "Server reset")
	return nil
}

// Health probes the admin API and reports the result. A disconnected
// server is an error exit so scripts can branch on it.
func Health(opts Options) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	if !client.Health(ctx) {
		return fmt.Errorf("server unreachable at %s", client.BaseURL())
	}
	fmt.Fprintf(opts.out(), "Connected to %s\n", client.BaseURL())
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(v)
}
