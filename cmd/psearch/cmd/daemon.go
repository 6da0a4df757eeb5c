package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/so1ar-ec1ipse/pattern-search/internal/adapters/socket"
	"github.com/so1ar-ec1ipse/pattern-search/internal/app"
	"github.com/spf13/cobra"
)

var (
	daemonDictFile string
	daemonDict     string
	daemonDB       string
	daemonDense    bool
	daemonWatch    bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the psearch daemon",
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon (foreground)",
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon health",
	RunE:  runDaemonStatus,
}

func init() {
	pf := daemonCmd.PersistentFlags()
	pf.StringVarP(&daemonDictFile, "dict-file", "f", "", "Pattern file to serve")
	pf.StringVar(&daemonDict, "dict", "", "Stored dictionary to serve")
	pf.StringVar(&daemonDB, "db", "", "Dictionary database path (default ~/.psearch/dicts.db)")
	daemonStartCmd.Flags().BoolVar(&daemonDense, "dense", false, "Use the byte-table automaton")
	daemonStartCmd.Flags().BoolVar(&daemonWatch, "watch", false, "Rebuild when the pattern file changes")

	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
}

// daemonSource returns the pattern-source key the socket path is derived from.
func daemonSource() string {
	if daemonDictFile != "" {
		return daemonDictFile
	}
	db := daemonDB
	if db == "" {
		db = defaultDBPath()
	}
	return db + ":" + daemonDict
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	cfg := app.Config{
		DictFile: daemonDictFile,
		DictName: daemonDict,
		Dense:    daemonDense,
	}
	if cfg.DictFile == "" && cfg.DictName != "" {
		cfg.DBPath = daemonDB
		if cfg.DBPath == "" {
			cfg.DBPath = defaultDBPath()
		}
	}

	sockPath := socket.SocketPath(daemonSource())

	// Check if already running
	if socket.NewClient(sockPath).Ping() {
		fmt.Println("daemon already running")
		return nil
	}

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer a.Close()

	if daemonWatch {
		if err := a.WatchDictFile(func(count int, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
				return
			}
			fmt.Printf("reloaded %d patterns\n", count)
		}); err != nil {
			return fmt.Errorf("watch: %w", err)
		}
	}

	srv := socket.NewServer(a, sockPath)
	if err := srv.Start(); err != nil {
		return err
	}
	defer srv.Stop()

	fmt.Printf("psearch daemon listening on %s (%d patterns from %s)\n",
		srv.Addr(), len(a.Matcher().Patterns()), a.Source())

	// Run until SIGINT/SIGTERM or a remote shutdown request
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-srv.ShutdownCh():
	}
	return nil
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	sockPath := socket.SocketPath(daemonSource())
	client := socket.NewClient(sockPath)
	if !client.Ping() {
		fmt.Println("daemon not running")
		return nil
	}
	if err := client.Shutdown(); err != nil {
		return err
	}
	fmt.Println("daemon stopped")
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	sockPath := socket.SocketPath(daemonSource())
	client := socket.NewClient(sockPath)
	health, err := client.Health()
	if err != nil {
		fmt.Println("daemon not running")
		return nil
	}
	fmt.Printf("status:   %s\n", health.Status)
	fmt.Printf("patterns: %d\n", health.PatternCount)
	fmt.Printf("source:   %s\n", health.Source)
	fmt.Printf("uptime:   %s\n", health.Uptime)
	return nil
}
