package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"algovanity/internal/config"
	"algovanity/internal/keygen"
	logpkg "algovanity/internal/logger"
	minerpkg "algovanity/pkg/miner"
	"algovanity/pkg/store"
)

var cfg = config.NewConfig()

func main() {
	var rootCmd = &cobra.Command{
		Use:   "algovanity PREFIX OUTPUT",
		Short: "Vanity address generator for the Algorand blockchain",
		Long: `Produces valid Algorand addresses which begin with a chosen series of
characters. Prints each address as it is found and writes the addresses and
mnemonics to a JSON file, rewritten atomically after every find. If the file
already exists, new finds are appended to it.`,
		Args:          cobra.ExactArgs(2),
		RunE:          runSearch,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().IntVarP(&cfg.Number, "number", "n", 0, "Number of addresses to produce (default: search until interrupted)")
	rootCmd.Flags().IntVarP(&cfg.CPU, "cpu", "c", runtime.NumCPU(), "Number of CPU cores to use; negative means all available minus that many")
	rootCmd.Flags().IntVarP(&cfg.LogInterval, "log-interval", "i", 2, "Seconds between progress updates")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg.Prefix = args[0]
	cfg.Output = args[1]
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logpkg.New()

	st, err := store.Open(cfg.Output)
	if err != nil {
		return err
	}

	workers := cfg.WorkerCount(runtime.NumCPU())
	if cfg.Number > 0 {
		logger.Printf("Using %d worker(s) to search for %d Algorand address(es) starting with %q", workers, cfg.Number, cfg.Prefix)
	} else {
		logger.Printf("Using %d worker(s) to search for Algorand addresses starting with %q", workers, cfg.Prefix)
	}

	miner := minerpkg.New(cfg, logger, st, keygen.New())

	// Ctrl+C stops the search gracefully: workers wind down and every match
	// already found is persisted before Run returns.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Println("Received interrupt signal. Stopping...")
		miner.Stop()
	}()

	if err := miner.Run(); err != nil {
		return err
	}

	logger.Printf("Done: %d address(es) in %s after %s attempts", st.Len(), st.Path(), humanize.Comma(miner.Attempts()))
	return nil
}
