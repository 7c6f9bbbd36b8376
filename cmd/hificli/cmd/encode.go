package cmd

import (
	"bufio"
	"fmt"
	"os"

	"code.cloudfoundry.org/bytefmt"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/edombrower/hifi/codec"
	"github.com/edombrower/hifi/mappings"
)

var (
	encodeLabel    string
	encodeCompress bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode <tokens-file> <output-file>",
	Short: "Encode a newline-delimited token file into a dictionary-coded bitstream",
	Long: `Encode reads tokens one per line and streams them through the attribute
dictionary: the first occurrence of a token carries its full encoding, later
occurrences only a short id. Tokens promoted into the persistent store are
never sent in full.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEncode(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringVar(&encodeLabel, "label", "", "Persist this session's new mappings as a snapshot under the given label")
	encodeCmd.Flags().BoolVar(&encodeCompress, "compress", false, "zstd-compress the encoded stream")
}

func runEncode(tokensFile, outputFile string) error {
	tokens, err := readTokens(tokensFile)
	if err != nil {
		return err
	}

	store, err := mappings.LoadStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to load store: %v", err)
	}
	opts := append(cfg.StreamOptions(logger), store.Options()...)

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output: %v", err)
	}
	defer out.Close()

	var s *codec.Stream
	var zw *zstd.Encoder
	if encodeCompress {
		zw, err = zstd.NewWriter(out)
		if err != nil {
			return err
		}
		s = codec.NewWriter(zw, opts...)
	} else {
		s = codec.NewWriter(out, opts...)
	}

	if err := s.WriteUint32(uint32(len(tokens))); err != nil {
		return err
	}
	for _, token := range tokens {
		if err := s.WriteAttribute(codec.RegisterAttribute(token)); err != nil {
			return fmt.Errorf("failed to encode %q: %v", token, err)
		}
	}
	if err := s.Flush(); err != nil {
		return err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return err
		}
	}

	wm := s.GetAndResetWriteMappings()
	if encodeLabel != "" {
		snapshot := mappings.NewSnapshot(encodeLabel, wm)
		if err := mappings.Persist(cfg.DataDir, snapshot); err != nil {
			return fmt.Errorf("failed to persist snapshot: %v", err)
		}
		logger.Info("persisted snapshot %q with %d new mappings", encodeLabel, len(snapshot.Attributes))
	}

	info, err := out.Stat()
	if err != nil {
		return err
	}
	logger.Info("encoded %d tokens (%d introduced) into %v",
		len(tokens), len(wm.AttributeOffsets), bytefmt.ByteSize(uint64(info.Size())))

	return nil
}

func readTokens(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open tokens file: %v", err)
	}
	defer f.Close()

	var tokens []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			tokens = append(tokens, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tokens file: %v", err)
	}

	return tokens, nil
}
