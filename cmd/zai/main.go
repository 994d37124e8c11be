package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	apiURL     string
	stateDir   string
	configPath string
	timeout    time.Duration

	// Logger for non-interactive commands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "zai",
	Short: "ZAI - terminal chat client",
	Long: `zai is a single-conversation chat client for the ZAI backend.

Each installation gets an anonymous identifier on first run; the backend keeps
the conversation for it. Run without arguments to start the interactive chat.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive client owns the terminal and logs to files only.
		if cmd == cmd.Root() {
			return nil
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

// historyCmd prints the stored conversation
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the conversation stored by the backend",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

// sendCmd sends one message and prints the reply
var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send a single message and print the reply",
	Long: `Sends one message as this installation's user and prints the backend's reply.
If the backend cannot be reached the reply is "Error fetching AI response."

Example:
  zai send "what can you do?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

// whoamiCmd prints the installation identifier
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print this installation's user identifier",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Chat backend base URL (or set API_URL env)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "Directory for local state (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <state-dir>/config.yaml)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request backend timeout (default 60s)")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// joinArgs joins command arguments into a single message.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
