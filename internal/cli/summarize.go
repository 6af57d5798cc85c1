package cli

import (
	"encoding/json"
	"fmt"

	"github.com/cyp0633/librecur/recurrence"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func (a *app) summarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Describe the rule on stdin in words",
		Long: `Reads a recurrence rule (or, with --payload, a task payload carrying
"recurrence" and "recurrence_strategy") and prints its summary.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, _ := cmd.Flags().GetBool("payload")

			var task recurrence.TaskRecurrence
			if payload {
				if err := json.NewDecoder(cmd.InOrStdin()).Decode(&task); err != nil {
					return fmt.Errorf("failed to read payload: %w", err)
				}
				if err := task.Validate(); err != nil {
					return err
				}
			} else {
				rule, err := readRule(cmd.InOrStdin())
				if err != nil {
					return err
				}
				task.Recurrence = rule
			}

			strategy := task.RecurrenceStrategy
			if task.Recurrence == nil {
				strategy = mo.None[recurrence.Strategy]()
			} else {
				var err error
				if strategy, err = a.strategy(cmd, strategy); err != nil {
					return err
				}
			}

			s, err := a.summarizer(a.anchor(cmd))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s.Summarize(task.Recurrence, strategy))
			return err
		},
	}
	addRefFlag(cmd)
	cmd.Flags().String("strategy", "", "fixed or rolling (overrides payload and config)")
	cmd.Flags().Bool("payload", false, "Read a task payload instead of a bare rule")
	return cmd
}
