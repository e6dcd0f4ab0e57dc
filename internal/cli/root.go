// internal/cli/root.go

// Package cli implements the screening command line tool.
package cli

import (
	"github.com/spf13/cobra"

	"devscreen-workers/internal/common/config"
	"devscreen-workers/internal/common/logger"
	"devscreen-workers/internal/models"
)

type rootOptions struct {
	configFile string
	logLevel   string
}

// NewRootCommand builds the command tree. It holds no global state, so tests
// can build as many as they like.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "screening-cli",
		Short: "Preliminary developmental disorder screening",
		Long: `screening-cli compiles a symptom selection into a screening prompt and
asks an OpenAI-compatible chat completion endpoint for a preliminary
assessment. It is not a diagnostic tool.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default configs/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newTaxonomyCommand(),
		newPromptCommand(),
		newPredictCommand(opts),
	)
	return root
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.LoadStandalone(o.configFile)
}

func (o *rootOptions) logger() logger.Logger {
	return logger.NewStructured(logger.Options{
		Level:   o.logLevel,
		Format:  "console",
		Output:  "stderr",
		Service: "screening-cli",
	})
}

// selectionFlags are shared by prompt and predict.
type selectionFlags struct {
	symptoms        []string
	age             int
	familyHistory   bool
	trauma          bool
	milestoneDelays bool
	severity        int
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	defaults := models.DefaultCriteria()
	fs := cmd.Flags()
	// Labels contain commas, so each --symptom takes exactly one label.
	fs.StringArrayVarP(&f.symptoms, "symptom", "s", nil, "observed symptom label (repeatable)")
	fs.IntVar(&f.age, "age", defaults.AgeOfOnsetMonths, "age of symptom onset in months (0-120)")
	fs.BoolVar(&f.familyHistory, "family-history", defaults.FamilyHistory, "family history of mental health or developmental disorders")
	fs.BoolVar(&f.trauma, "trauma", defaults.TraumaExposure, "exposure to trauma or significant stress")
	fs.BoolVar(&f.milestoneDelays, "milestone-delays", defaults.MilestoneDelays, "developmental milestone delays")
	fs.IntVar(&f.severity, "severity", defaults.Severity, "severity of symptoms (1-10)")
}

func (f *selectionFlags) selection() models.Selection {
	return models.Selection{
		Symptoms: f.symptoms,
		Criteria: models.Criteria{
			AgeOfOnsetMonths: f.age,
			FamilyHistory:    f.familyHistory,
			TraumaExposure:   f.trauma,
			MilestoneDelays:  f.milestoneDelays,
			Severity:         f.severity,
		},
	}
}
