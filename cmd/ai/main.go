// Command ai asks a codemaster-ai server to generate code for a prompt.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/sharfuddin18/codemaster-ai/internal/client"
	"github.com/spf13/cobra"
)

var errReported = errors.New("reported")

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		if !errors.Is(err, errReported) {
			color.New(color.FgRed).Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:           `ai "your request here"`,
		Short:         "Generate code with codemaster-ai",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(baseURL, timeout)
			resp, err := c.GenerateCode(cmd.Context(), args[0])
			if err != nil {
				color.New(color.FgRed).Fprintln(out, describeError(err))
				return errReported
			}
			if resp.Code == "" {
				color.New(color.FgYellow).Fprintf(out, "No 'code' in response: %s\n", string(resp.Raw))
				return errReported
			}
			fmt.Fprintln(out, resp.Code)
			return nil
		},
	}
	cmd.SetContext(context.Background())
	cmd.Flags().StringVar(&baseURL, "url", envOrDefault("CODEMASTER_URL", client.DefaultBaseURL), "codemaster-ai server URL")
	cmd.Flags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "request timeout")
	return cmd
}

func describeError(err error) string {
	var (
		ce *client.ConnectionError
		te *client.TimeoutError
		se *client.StatusError
		de *client.DecodeError
	)
	switch {
	case errors.As(err, &ce):
		return fmt.Sprintf("Request failed: unable to connect to backend: %v", ce.Err)
	case errors.As(err, &te):
		return fmt.Sprintf("Request failed: timed out after %s", te.Timeout)
	case errors.As(err, &se):
		return fmt.Sprintf("Request failed: HTTP %d: %s", se.StatusCode, se.Body)
	case errors.As(err, &de):
		return "Failed to decode JSON response"
	default:
		return fmt.Sprintf("Request failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
