package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/server/endpoints"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the Zealot server to become healthy",
	Long: `Poll GET /health until the server reports its database reachable and
migrated, or the retries run out. Useful in container entrypoints that must
not start work before Zealot can serve apps.

Example:
  zealotctl wait
  zealotctl wait --url http://zealot:8080 --retries 60`,
	Run: func(cmd *cobra.Command, args []string) {
		baseURL, _ := cmd.Flags().GetString("url")
		port, _ := cmd.Flags().GetInt("port")
		retries, _ := cmd.Flags().GetInt("retries")
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://localhost:%d", port)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := waitForHealthy(ctx, baseURL+"/health", retries, time.Second); err != nil {
			fmt.Fprintf(os.Stderr, "Zealot did not become ready: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Zealot is ready")
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().StringP("url", "u", "", "Server base URL (overrides --port)")
	waitCmd.Flags().IntP("port", "p", defaultPortInt(), "Local server port to check")
	waitCmd.Flags().IntP("retries", "r", 90, "Number of attempts")
}

// waitForHealthy polls healthURL until it answers 200, reporting the last
// health error the server gave.
func waitForHealthy(ctx context.Context, healthURL string, retries int, interval time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}

	var last string
	for i := 0; i < retries; i++ {
		ready, reason := checkHealth(ctx, client, healthURL)
		if ready {
			return nil
		}
		if reason != last {
			fmt.Fprintf(os.Stderr, "waiting: %s\n", reason)
			last = reason
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("not healthy after %d attempts: %s", retries, last)
}

func checkHealth(ctx context.Context, client *http.Client, healthURL string) (bool, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return false, err.Error()
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, "server unreachable"
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		return true, ""
	}

	var health endpoints.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err == nil && health.Error != "" {
		return false, health.Error
	}
	return false, resp.Status
}
