package cli

import (
	"github.com/spf13/cobra"

	"github.com/jaredtewodros/recallBridge/internal/classify"
	"github.com/jaredtewodros/recallBridge/internal/config"
)

func newValidateCmd() *cobra.Command {
	var policyFlag string

	cmd := &cobra.Command{
		Use:   "validate <input.csv>",
		Short: "Validate a campaign input file and print the report",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			policy, err := classify.ParsePolicyFromString(policyFlag)
			if err != nil {
				return err
			}

			_, report, err := loadAndValidate(cmd, args[0], policy, cfg.StrictTimestamps)
			if err != nil {
				return err
			}
			return report.Err()
		},
	}

	cmd.Flags().StringVar(&policyFlag, "policy", "single", "eligibility policy: single, twotouch, or followup")
	return cmd
}
