package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/colorbook/internal/domain/model"
)

var errTopicNotFound = errors.New("topic not found")

// newTopicsCommand inspects the saved record without a credential. Nothing
// is modified.
func newTopicsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Inspect saved topics and their ideas",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved topics with their idea counts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				record, err := a.loadRecord(cmd)
				if err != nil {
					return err
				}

				if len(record) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No saved topics.")
					return nil
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "TOPIC\tIDEAS")
				for _, topic := range record.Topics() {
					fmt.Fprintf(tw, "%s\t%d\n", topic, len(record[topic]))
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "show <topic>",
			Short: "Print the ideas saved for a topic",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				record, err := a.loadRecord(cmd)
				if err != nil {
					return err
				}

				ideas, ok := record[model.Topic(args[0])]
				if !ok {
					return fmt.Errorf("%w: %q", errTopicNotFound, args[0])
				}

				for i, idea := range ideas {
					fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, idea)
				}
				return nil
			},
		},
	)

	return cmd
}

func (a *app) loadRecord(cmd *cobra.Command) (model.IdeaRecord, error) {
	store, closeStore, err := openStore(cmd.Context(), a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := closeStore(); err != nil {
			a.logger.Error("error closing idea store", "error", err)
		}
	}()

	record, err := store.LoadAll(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("loading saved topics: %w", err)
	}
	return record, nil
}
