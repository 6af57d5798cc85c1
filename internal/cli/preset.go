package cli

import (
	"github.com/cyp0633/librecur/recurrence"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type presetOutput struct {
	Preset     recurrence.Preset `json:"preset"`
	Label      string            `json:"label"`
	Recurrence *recurrence.Rule  `json:"recurrence"`
	Summary    string            `json:"summary"`
}

func (a *app) presetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset <none|daily|weekly|weekdays|monthly|yearly|custom>",
		Short: "Build the rule for a preset, anchored on --ref",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := recurrence.ParsePreset(args[0])
			if err != nil {
				return err
			}
			anchor := a.anchor(cmd)
			s, err := a.summarizer(anchor)
			if err != nil {
				return err
			}
			rule := recurrence.FromPreset(p, anchor)
			return writeJSON(cmd.OutOrStdout(), presetOutput{
				Preset:     p,
				Label:      s.PresetLabel(p),
				Recurrence: rule,
				Summary:    s.Summarize(rule, mo.None[recurrence.Strategy]()),
			})
		},
	}
	addRefFlag(cmd)
	return cmd
}

func (a *app) detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Print the preset that matches the rule on stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rule, err := readRule(cmd.InOrStdin())
			if err != nil {
				return err
			}
			s, err := a.summarizer(a.now())
			if err != nil {
				return err
			}
			p := recurrence.DetectPreset(rule)
			a.logger.Debug("detected preset", "preset", p)
			return writeJSON(cmd.OutOrStdout(), presetOutput{
				Preset:     p,
				Label:      s.PresetLabel(p),
				Recurrence: rule,
				Summary:    s.Summarize(rule, mo.None[recurrence.Strategy]()),
			})
		},
	}
}
