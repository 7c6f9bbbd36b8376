package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/edombrower/hifi/codec"
	"github.com/edombrower/hifi/mappings"
)

var decodeCompress bool

var decodeCmd = &cobra.Command{
	Use:   "decode <encoded-file> [output-file]",
	Short: "Decode a dictionary-coded bitstream back into tokens",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := io.Writer(os.Stdout)
		if len(args) == 2 {
			f, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("failed to create output: %v", err)
			}
			defer f.Close()
			out = f
		}
		return runDecode(args[0], out)
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().BoolVar(&decodeCompress, "compress", false, "Input is zstd-compressed")
}

func runDecode(encodedFile string, out io.Writer) error {
	tokens, err := decodeTokens(encodedFile, decodeCompress)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	for _, token := range tokens {
		if _, err := fmt.Fprintln(w, token); err != nil {
			return err
		}
	}
	return w.Flush()
}

// decodeTokens replays an encoded session with the same persistent store
// state its writer used.
func decodeTokens(encodedFile string, compressed bool) ([]string, error) {
	store, err := mappings.LoadStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %v", err)
	}
	opts := append(cfg.StreamOptions(logger), store.Options()...)

	f, err := os.Open(encodedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open encoded file: %v", err)
	}
	defer f.Close()

	var s *codec.Stream
	if compressed {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		s = codec.NewReader(zr, opts...)
	} else {
		s = codec.NewReader(f, opts...)
	}

	count, err := s.ReadUint32()
	if err != nil {
		return nil, err
	}

	tokens := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		attribute, err := s.ReadAttribute()
		if err != nil {
			return nil, fmt.Errorf("failed to decode token %d: %v", i, err)
		}
		if attribute == nil {
			return nil, errors.New("unexpected null token")
		}
		tokens = append(tokens, attribute.Name())
	}

	return tokens, nil
}
