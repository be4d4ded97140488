// Package cli implements the hypnosis CLI commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andrewowest/Hypnosis/internal/hypnosis"
	"github.com/andrewowest/Hypnosis/internal/store"
)

var (
	storePath    string
	backendFlag  string
	compactAfter int
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "hypnosis",
	Short: "Direct memory injection for AI agents",
	Long:  "Implant directives into a long-lived agent's memory with guaranteed persistence. Append-only log, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", "", "Store path (default: $HYPNOSIS_STORE or ~/.hypnosis/directives.jsonl)")
	RootCmd.PersistentFlags().StringVarP(&backendFlag, "backend", "b", "jsonl", "Storage backend: jsonl or sqlite")
	RootCmd.PersistentFlags().IntVar(&compactAfter, "compact-after", 0, "Auto-compact once this many tombstones accumulate (0 = manual)")
}

func getStorePath() string {
	if storePath != "" {
		return storePath
	}
	if env := os.Getenv("HYPNOSIS_STORE"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	name := "directives.jsonl"
	if backendFlag == "sqlite" {
		name = "directives.db"
	}
	return filepath.Join(home, ".hypnosis", name)
}

func openStore() (store.Store, error) {
	switch backendFlag {
	case "jsonl":
		return store.NewFileStore(getStorePath())
	case "sqlite":
		return store.NewSQLiteStore(getStorePath())
	default:
		return nil, fmt.Errorf("unknown backend %q (use jsonl or sqlite)", backendFlag)
	}
}

func openHypnotizer() (*hypnosis.Hypnotizer, store.Store, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	opts := hypnosis.DefaultOptions()
	opts.CompactAfter = compactAfter
	return hypnosis.New(st, opts), st, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
