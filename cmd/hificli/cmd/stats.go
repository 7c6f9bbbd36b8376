package cmd

import (
	"fmt"
	"os"
	"strconv"

	"code.cloudfoundry.org/bytefmt"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/edombrower/hifi/mappings"
)

var statsCompress bool

var statsCmd = &cobra.Command{
	Use:   "stats <encoded-file>",
	Short: "Report dictionary statistics for an encoded bitstream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(args[0])
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVar(&statsCompress, "compress", false, "Input is zstd-compressed")
}

func runStats(encodedFile string) error {
	tokens, err := decodeTokens(encodedFile, statsCompress)
	if err != nil {
		return err
	}

	distinct := make(map[string]bool)
	rawSize := uint64(0)
	for _, token := range tokens {
		distinct[token] = true
		rawSize += uint64(len(token)) + 1
	}

	store, err := mappings.LoadStore(cfg.DataDir)
	if err != nil {
		return err
	}

	info, err := os.Stat(encodedFile)
	if err != nil {
		return err
	}

	report(encodedFile,
		[]string{"tokens", "distinct", "persistent", "raw", "encoded"},
		[][]string{{
			strconv.Itoa(len(tokens)),
			strconv.Itoa(len(distinct)),
			strconv.Itoa(len(store.Attributes)),
			bytefmt.ByteSize(rawSize),
			bytefmt.ByteSize(uint64(info.Size())),
		}})

	return nil
}

func report(filename string, header []string, data [][]string) {
	fmt.Printf("\nSTATS: file=%v\n", filename)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetBorder(true)
	table.AppendBulk(data)
	table.Render()
}
