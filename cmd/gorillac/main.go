package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gorillac",
	Short: "gorillac - a streaming Gorilla time-series codec CLI",
	Long: `gorillac encodes and decodes newline-delimited timestamp,value pairs
using the delta-of-delta/XOR bit-packed stream format.

Features:
  - Single-pass streaming encode/decode, no in-memory blob
  - Optional length-prefixed container with zstd outer compression
  - Stream inspection and synthetic-series throughput benchmarking`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(benchCmd)
}
