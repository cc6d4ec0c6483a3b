package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

var rulesJSON bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the checklist rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if rulesJSON {
			return printJSON(cmd, domain.Rules)
		}

		p := newReportPrinter(cmd.OutOrStdout())
		var group domain.RuleGroup
		for _, r := range domain.Rules {
			if r.Group != group {
				if group != "" {
					p.println("")
				}
				group = r.Group
				p.println(p.section.Render(string(group)))
			}
			p.printf("  %s %-28s %s\n", r.Code, r.Name, p.muted.Render(r.Priority.String()))
			p.printf("         %s\n", p.muted.Render(r.Description))
		}
		return nil
	},
}

func init() {
	rulesCmd.Flags().BoolVar(&rulesJSON, "json", false, "output rules as JSON")
	rootCmd.AddCommand(rulesCmd)
}
