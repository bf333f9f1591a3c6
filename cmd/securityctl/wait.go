package main

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/endpoints"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the server to be ready",
	Long: `Wait for the server to be ready by polling the status endpoint.

The server only starts answering once the startup seeding has committed,
so a successful wait also means the default records exist. The command
gives up after the given number of attempts.

Example:
  securityctl wait
  securityctl wait --port 3000 --retries 60`,
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		retries, _ := cmd.Flags().GetInt("retries")
		interval, _ := cmd.Flags().GetDuration("interval")

		if err := waitForServer(host, port, retries, interval); err != nil {
			fmt.Fprintf(os.Stderr, "Server did not become ready: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().String("host", "localhost", "Server host to check")
	waitCmd.Flags().IntP("port", "p", defaultPortInt(), "Server port to check")
	waitCmd.Flags().IntP("retries", "r", 90, "Number of attempts")
	waitCmd.Flags().Duration("interval", time.Second, "Delay between attempts")
}

func waitForServer(host string, port, retries int, interval time.Duration) error {
	url := "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/"
	client := &http.Client{Timeout: 2 * time.Second}

	fmt.Printf("Waiting for %s to be ready...", url)

	var lastErr error
	for i := 0; i < retries; i++ {
		status, err := checkStatus(client, url)
		if err == nil {
			fmt.Println()
			fmt.Printf("Server is ready (version %s)\n", status.Version)
			return nil
		}
		lastErr = err

		fmt.Print(".")
		time.Sleep(interval)
	}

	fmt.Println()
	return fmt.Errorf("not ready after %d attempts: %w", retries, lastErr)
}

func checkStatus(client *http.Client, url string) (*endpoints.StatusResponse, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var status endpoints.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, status.Error)
	}
	return &status, nil
}
