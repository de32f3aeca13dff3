package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arloliu/gorilla/internal/container"
	"github.com/arloliu/gorilla/pairscodec"
)

var (
	decodeInPath    string
	decodeOutPath   string
	decodeContainer bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a gorilla stream into newline-delimited timestamp,value pairs",
	Long: `Decode is the inverse of encode: it reads a bit-packed gorilla stream and
writes one "timestamp,value" decimal line per pair (value formatted from its
underlying float64 bit pattern).

Examples:
  gorillac decode -i stream.bin -o samples.csv
  gorillac decode --container < stream.bin`,
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeInPath, "in", "i", "", "input file (default: stdin)")
	decodeCmd.Flags().StringVarP(&decodeOutPath, "out", "o", "", "output file (default: stdout)")
	decodeCmd.Flags().BoolVar(&decodeContainer, "container", false, "input is wrapped in a length-prefixed container")
}

func runDecode(cmd *cobra.Command, args []string) error {
	in, err := openInput(decodeInPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := openOutput(decodeOutPath)
	if err != nil {
		return err
	}
	defer out.Close()

	var dec *pairscodec.Decoder
	if decodeContainer {
		data, err := container.Read(in)
		if err != nil {
			return err
		}
		dec = pairscodec.NewDecoder(bytes.NewReader(data))
	} else {
		dec = pairscodec.NewDecoder(in)
	}

	return decodePairs(dec, out)
}

func decodePairs(dec *pairscodec.Decoder, out io.Writer) error {
	w := bufio.NewWriter(out)
	defer w.Flush()

	for {
		ts, value, ok, err := dec.Next()
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		if !ok {
			break
		}

		if _, err := fmt.Fprintf(w, "%d,%s\n", ts, formatValue(value)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	return w.Flush()
}
