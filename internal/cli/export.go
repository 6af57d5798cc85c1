package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/cyp0633/librecur/recurrence"
	"github.com/emersion/go-ical"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func (a *app) rruleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rrule",
		Short: "Convert the rule on stdin to an RRULE, or parse one with --parse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("parse") {
				raw, _ := cmd.Flags().GetString("parse")
				rule, err := recurrence.ParseRRule(raw, time.Local)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), rule)
			}

			rule, err := readRule(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if rule == nil {
				return fmt.Errorf("rule does not repeat, no RRULE to emit")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rule.RRule())
			return err
		},
	}
	cmd.Flags().String("parse", "", "RRULE value to parse into a rule")
	return cmd
}

// icalOutput is one recurring component found by ical --parse.
type icalOutput struct {
	UID string `json:"uid,omitempty"`
	recurrence.TaskRecurrence
}

func (a *app) icalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ical",
		Short: "Wrap the rule on stdin in a VTODO, or read rules from a calendar with --parse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if parse, _ := cmd.Flags().GetBool("parse"); parse {
				return a.parseCalendar(cmd.InOrStdin(), cmd.OutOrStdout())
			}

			rule, err := readRule(cmd.InOrStdin())
			if err != nil {
				return err
			}
			strategy := mo.None[recurrence.Strategy]()
			if rule != nil {
				if strategy, err = a.strategy(cmd, strategy); err != nil {
					return err
				}
			}
			summary, _ := cmd.Flags().GetString("summary")
			todo := recurrence.NewTodo(summary, a.anchor(cmd), rule, strategy)
			return recurrence.EncodeCalendar(cmd.OutOrStdout(), todo)
		},
	}
	addRefFlag(cmd)
	cmd.Flags().String("summary", "", "VTODO summary text")
	cmd.Flags().String("strategy", "", "fixed or rolling (overrides config)")
	cmd.Flags().Bool("parse", false, "Read a VCALENDAR from stdin and print its recurrence rules")
	return cmd
}

func (a *app) parseCalendar(r io.Reader, w io.Writer) error {
	cal, err := ical.NewDecoder(r).Decode()
	if err != nil {
		return fmt.Errorf("failed to decode calendar: %w", err)
	}

	out := []icalOutput{}
	for _, child := range cal.Children {
		if child.Name != ical.CompToDo && child.Name != ical.CompEvent {
			continue
		}
		rule, strategy, err := recurrence.RuleFromComponent(child)
		if err != nil {
			return err
		}
		var uid string
		if prop := child.Props.Get(ical.PropUID); prop != nil {
			uid = prop.Value
		}
		a.logger.Debug("read component", "name", child.Name, "uid", uid, "recurring", rule != nil)
		out = append(out, icalOutput{
			UID:            uid,
			TaskRecurrence: recurrence.TaskRecurrence{Recurrence: rule, RecurrenceStrategy: strategy},
		})
	}
	return writeJSON(w, out)
}

func (a *app) xcalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xcal",
		Short: "Convert the rule on stdin to an xCal <recur>, or back with --parse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if parse, _ := cmd.Flags().GetBool("parse"); parse {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				rule, err := recurrence.ParseXCalString(string(data), time.Local)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), rule)
			}

			rule, err := readRule(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if rule == nil {
				return fmt.Errorf("rule does not repeat, no <recur> to emit")
			}
			doc, err := rule.XCalString()
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), doc)
			return err
		},
	}
	cmd.Flags().Bool("parse", false, "Read an xCal document from stdin")
	return cmd
}
