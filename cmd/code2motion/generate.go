package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"code2motion/internal/submit"
)

var (
	generateServer string
	generateToken  string
)

// generateCmd drives the submission flow against a running server. The
// access token is the one exposed on the dashboard of a signed-in session.
var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Request an animation from a running server",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if generateToken == "" {
			return errors.New("--token is required")
		}

		endpoint := strings.TrimRight(generateServer, "/") + "/functions/generate-animation"
		flow := submit.New(endpoint, generateToken, &http.Client{Timeout: 2 * time.Minute})

		a, err := flow.Submit(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "/* %s */\n\n", a.Description)
		fmt.Fprintln(out, a.CSS)
		fmt.Fprintln(out)
		fmt.Fprintln(out, a.HTML)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateServer, "server", "http://localhost:8080", "base URL of the Code2Motion server")
	generateCmd.Flags().StringVar(&generateToken, "token", "", "session access token")
}
