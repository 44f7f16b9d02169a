// Command ai-fix asks a codemaster-ai server to fix a piece of code.
package main

import (
	"context"
	"encoding/json"
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

var (
	red    = color.New(color.FgRed)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		if !errors.Is(err, errReported) {
			red.Fprintln(os.Stderr, err)
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
		Use:           `ai-fix "<your_code>" "<instructions>"`,
		Short:         "Fix code with codemaster-ai",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(baseURL, timeout)
			resp, err := c.FixCode(cmd.Context(), args[0], args[1])
			if err != nil {
				reportError(out, err)
				return errReported
			}
			printResponse(out, resp)
			return nil
		},
	}
	cmd.SetContext(context.Background())
	cmd.Flags().StringVar(&baseURL, "url", envOrDefault("CODEMASTER_URL", client.DefaultBaseURL), "codemaster-ai server URL")
	cmd.Flags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "request timeout")
	return cmd
}

func reportError(out io.Writer, err error) {
	var (
		ce *client.ConnectionError
		te *client.TimeoutError
		se *client.StatusError
		de *client.DecodeError
	)
	switch {
	case errors.As(err, &ce):
		red.Fprintln(out, "ERROR: Unable to connect to backend. Make sure Codemaster-AI is running.")
	case errors.As(err, &te):
		red.Fprintln(out, "ERROR: Request timed out. Backend may be busy or processing a large model output.")
	case errors.As(err, &se):
		red.Fprintf(out, "ERROR: Backend returned HTTP %d\n", se.StatusCode)
		fmt.Fprintln(out, "Details:", se.Body)
	case errors.As(err, &de):
		red.Fprintln(out, "ERROR: Backend did not return valid JSON.")
		fmt.Fprintln(out, "Raw Response:", de.Body)
	default:
		red.Fprintf(out, "ERROR: Unexpected request error: %v\n", err)
	}
}

// printResponse shows the most specific field the server sent: code, then
// detail, then error, then the raw body.
func printResponse(out io.Writer, resp *client.Response) {
	switch {
	case resp.Code != "":
		green.Fprintln(out, "Fixed Code:")
		fmt.Fprintln(out)
		fmt.Fprintln(out, resp.Code)
	case resp.Detail != "":
		red.Fprintf(out, "Backend reported: %s\n", resp.Detail)
	case resp.Error != "":
		red.Fprintf(out, "Backend error: %s\n", resp.Error)
		if resp.Details != nil {
			fmt.Fprintln(out, "Details:", resp.Details)
		}
	default:
		yellow.Fprintln(out, "Unexpected Response from backend:")
		var v any
		if err := json.Unmarshal(resp.Raw, &v); err != nil {
			fmt.Fprintln(out, string(resp.Raw))
			return
		}
		pretty, _ := json.MarshalIndent(v, "", "  ")
		fmt.Fprintln(out, string(pretty))
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
