package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cookedfr/cookedfr/internal/client"
	"github.com/cookedfr/cookedfr/internal/export"
	"github.com/cookedfr/cookedfr/internal/share"
	"github.com/cookedfr/cookedfr/internal/tui"
)

var (
	serverURL string
	relayPath string
	pageURL   string
	output    string
	logFile   string
)

var rootCmd = &cobra.Command{
	Use:   "cookedfr",
	Short: "Ask the CookedFR relay for your 2025 fortune",
	Long: `cookedfr talks to a cookedfr-server relay.

With no subcommand it starts the interactive fortune teller.

Commands:
  tell        Print a fortune for a name
  health      Check server health`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		if v := os.Getenv("COOKEDFR_SERVER"); v != "" && !cmd.Flags().Changed("server") {
			serverURL = v
		}
	},
	RunE: runTUI,
}

var tellCmd = &cobra.Command{
	Use:   "tell [name]",
	Short: "Print a fortune for a name",
	Example: `  cookedfr tell Alex
  cookedfr tell Alex --save
  cookedfr tell Alex --share twitter`,
	Args: cobra.ExactArgs(1),
	RunE: runTell,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	RunE:  runHealth,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", client.DefaultServerURL, "CookedFR server URL")
	rootCmd.PersistentFlags().StringVar(&relayPath, "path", client.DefaultPath, "Relay path on the server")
	rootCmd.PersistentFlags().StringVar(&pageURL, "page-url", "", "Page URL included in share links (default: server URL)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "text", "Output format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write client logs to this file")

	tellCmd.Flags().String("save", "", "Save the fortune as a PNG card")
	tellCmd.Flags().Lookup("save").NoOptDefVal = export.DefaultFileName
	tellCmd.Flags().String("share", "", "Print a share link: twitter, facebook")

	healthCmd.Flags().Bool("detailed", false, "Show detailed health information")

	rootCmd.AddCommand(tellCmd)
	rootCmd.AddCommand(healthCmd)
}

func newClient() *client.Client {
	return client.New(serverURL, client.WithPath(relayPath))
}

func sharePage() string {
	if pageURL != "" {
		return pageURL
	}
	return serverURL
}

// newLogger keeps the terminal clean for the TUI and the tell output.
func newLogger() (zerolog.Logger, func(), error) {
	if logFile == "" {
		return zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger(), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("failed to open log file: %w", err)
	}
	return zerolog.New(f).With().Timestamp().Logger(), func() { f.Close() }, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	if logFile == "" {
		logger = zerolog.Nop()
	}

	return tui.Run(tui.Deps{
		Teller:  newClient(),
		PageURL: sharePage(),
		Logger:  logger,
	})
}

func runTell(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	req := client.NewRequester(newClient(), logger)
	req.SetName(args[0])

	ctx, cancel := context.WithTimeout(context.Background(), client.DefaultTimeout)
	defer cancel()

	fortune, err := req.Submit(ctx)
	if errors.Is(err, client.ErrSubmitBlocked) {
		return fmt.Errorf("a non-empty name is required")
	}

	if output == "json" {
		payload := map[string]string{"fortune": fortune, "state": req.State().String()}
		data, _ := json.Marshal(payload)
		fmt.Println(string(data))
	} else {
		fmt.Println(fortune)
	}

	if err != nil {
		return fmt.Errorf("fortune request failed: %w", err)
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		written, err := export.SaveFile(path, fortune, export.DefaultStyle)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Fortune saved to %s\n", written)
	}

	if platform, _ := cmd.Flags().GetString("share"); platform != "" {
		link, err := share.Link(platform, fortune, sharePage())
		if err != nil {
			return err
		}
		fmt.Println(link)
	}

	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	detailed, _ := cmd.Flags().GetBool("detailed")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	health, err := newClient().Health(ctx, detailed)
	if err != nil {
		return err
	}

	if output == "json" {
		data, _ := json.Marshal(health)
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Status: %s\n", health.Status)
	if up := health.Upstream; up != nil {
		fmt.Printf("Upstream: %s", up.Status)
		if up.Provider != "" {
			fmt.Printf(" [%s]", up.Provider)
		}
		if up.LatencyMS > 0 {
			fmt.Printf(" (latency: %dms)", up.LatencyMS)
		}
		fmt.Println()
		if up.Error != "" {
			fmt.Printf("Upstream Error: %s\n", up.Error)
		}
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
