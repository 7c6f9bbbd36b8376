package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edombrower/hifi/mappings"
)

var promoteCmd = &cobra.Command{
	Use:   "promote <label>",
	Short: "Promote a session snapshot's mappings into the persistent store",
	Long: `Promote folds the transient mappings captured under the given label into
the persistent store, in snapshot offset order. Later encode and decode runs
assign these values persistent ids and never send them in full. Both sides of
an exchange must promote the same snapshots in the same order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPromote(args[0])
	},
}

func init() {
	rootCmd.AddCommand(promoteCmd)
}

func runPromote(label string) error {
	snapshot, err := mappings.Fetch(cfg.DataDir, label)
	if err != nil {
		return fmt.Errorf("failed to fetch snapshot: %v", err)
	}

	store, err := mappings.LoadStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to load store: %v", err)
	}

	added := store.Promote(snapshot)
	if err := store.Save(cfg.DataDir); err != nil {
		return fmt.Errorf("failed to save store: %v", err)
	}

	logger.Info("promoted %d new mappings from %q (store: %d class names, %d attributes)",
		added, label, len(store.ClassNames), len(store.Attributes))

	return nil
}
