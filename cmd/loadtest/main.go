package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var config LoadTestConfig

	rootCommand := &cobra.Command{
		Use:   "loadtest",
		Short: "Drive concurrent traffic against a running fortune teller",
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := lookupScenario(config.Scenario)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Starting load test...\n")
			fmt.Fprintf(out, "Base URL: %s\n", config.BaseURL)
			fmt.Fprintf(out, "Scenario: %s\n", config.Scenario)
			fmt.Fprintf(out, "Concurrent Users: %d\n", config.ConcurrentUsers)
			fmt.Fprintf(out, "Requests per User: %d\n", config.RequestsPerUser)
			fmt.Fprintf(out, "Timeout: %v\n", config.Timeout)
			fmt.Fprintf(out, "Ramp-up Duration: %v\n", config.RampUpDuration)
			fmt.Fprintf(out, "Think Time: %v\n", config.ThinkTime)
			fmt.Fprintf(out, "Test Duration: %v\n\n", config.TestDuration)

			summary := runLoadTest(cmd.Context(), config, scenario)
			printSummary(out, summary)
			return nil
		},
	}

	flags := rootCommand.Flags()
	flags.StringVar(&config.BaseURL, "url", "http://localhost:8081", "Base URL of the service")
	flags.StringVar(&config.Scenario, "scenario", "fortune", "Traffic to send: fortune, session or dharma")
	flags.IntVar(&config.ConcurrentUsers, "users", 10, "Number of concurrent users")
	flags.IntVar(&config.RequestsPerUser, "requests", 100, "Number of requests per user")
	flags.DurationVar(&config.Timeout, "timeout", 30*time.Second, "Request timeout")
	flags.DurationVar(&config.TestDuration, "duration", 0, "Test duration (0 = run until all requests complete)")
	flags.DurationVar(&config.RampUpDuration, "rampup", 5*time.Second, "Ramp-up duration")
	flags.DurationVar(&config.ThinkTime, "think", 100*time.Millisecond, "Think time between requests")

	return rootCommand
}
