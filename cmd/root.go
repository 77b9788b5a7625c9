package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	dbPath         string
	credentialID   string
	debugMode      bool
	metricsEnabled bool
)

// rootCmd represents the base command for the zoombridge application
var rootCmd = &cobra.Command{
	Use:   "zoombridge",
	Short: "Manages Zoom meetings for calendar bookings",
	Long: `zoombridge creates, updates and deletes Zoom meetings on behalf of a
stored OAuth credential, translating calendar events (including recurrence
rules) into Zoom's scheduled-meeting format.

Credentials are kept in a local sqlite database and refreshed
automatically when their access token expires.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "zoombridge version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "Path to the credential database")
	rootCmd.PersistentFlags().StringVar(&credentialID, "credential", "default", "Credential ID to operate as")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&metricsEnabled, "metrics", false, "Emit OpenTelemetry metrics to stdout on exit")

	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newAvailabilityCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("zoombridge version %s\n", version)
		},
	}
}

func defaultDBPath() string {
	return filepath.Join(homeDir(), ".zoombridge", "credentials.db")
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	// Windows fallback
	return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
