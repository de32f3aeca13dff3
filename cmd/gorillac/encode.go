package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/gorilla/format"
	"github.com/arloliu/gorilla/internal/container"
	"github.com/arloliu/gorilla/pairscodec"
)

var (
	encodeInPath    string
	encodeOutPath   string
	encodeContainer bool
	encodeCompress  string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode newline-delimited timestamp,value pairs into a gorilla stream",
	Long: `Encode reads newline-delimited "timestamp,value" decimal pairs (one per
line, value parsed as a float64) and writes the resulting bit-packed gorilla
stream.

Examples:
  gorillac encode -i samples.csv -o stream.bin
  cat samples.csv | gorillac encode --container --compress zstd > stream.bin`,
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeInPath, "in", "i", "", "input file (default: stdin)")
	encodeCmd.Flags().StringVarP(&encodeOutPath, "out", "o", "", "output file (default: stdout)")
	encodeCmd.Flags().BoolVar(&encodeContainer, "container", false, "wrap the stream in a length-prefixed container")
	encodeCmd.Flags().StringVar(&encodeCompress, "compress", "none", "outer container compression: none, zstd (requires --container)")
}

func runEncode(cmd *cobra.Command, args []string) error {
	in, err := openInput(encodeInPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := openOutput(encodeOutPath)
	if err != nil {
		return err
	}
	defer out.Close()

	ct, ok := format.ParseCompressionType(encodeCompress)
	if !ok {
		return fmt.Errorf("invalid --compress value: %q", encodeCompress)
	}

	if encodeContainer {
		var buf bytes.Buffer
		enc := pairscodec.NewEncoder(&buf)

		if err := encodePairs(in, enc); err != nil {
			return err
		}

		return container.Write(out, buf.Bytes(), ct)
	}

	enc := pairscodec.NewEncoder(out)

	return encodePairs(in, enc)
}

func encodePairs(in io.Reader, enc *pairscodec.Encoder) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ts, value, err := parseLine(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		if err := enc.Compress(ts, value); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	return enc.Finish()
}

func parseLine(line string) (ts uint64, value uint64, err error) {
	parts := strings.SplitN(line, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected \"timestamp,value\", got %q", line)
	}

	t, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid timestamp: %w", err)
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid value: %w", err)
	}

	return t, math.Float64bits(f), nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	return f, nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}

	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
