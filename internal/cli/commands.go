// internal/cli/commands.go
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apperrors "devscreen-workers/internal/common/errors"
	httpclient "devscreen-workers/internal/common/http"
	"devscreen-workers/internal/inference"
	"devscreen-workers/internal/models"
	"devscreen-workers/internal/screening"
	"devscreen-workers/internal/taxonomy"
)

func newTaxonomyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "taxonomy",
		Short: "List symptom categories and clinical criteria",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, entry := range taxonomy.Categories() {
				fmt.Fprintf(out, "%s:\n", entry.Category)
				for _, s := range entry.Symptoms {
					fmt.Fprintf(out, "  - %s\n", s)
				}
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Criteria:")
			for _, c := range taxonomy.Criteria() {
				if c.Kind == models.CriterionKindInteger {
					fmt.Fprintf(out, "  - %s [%d-%d]\n", c.Label, c.Min, c.Max)
				} else {
					fmt.Fprintf(out, "  - %s [yes/no]\n", c.Label)
				}
			}
			return nil
		},
	}
}

func newPromptCommand() *cobra.Command {
	var flags selectionFlags
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt that would be sent for a selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := screening.Preview(flags.selection())
			if err != nil {
				return selectionError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newPredictCommand(opts *rootOptions) *cobra.Command {
	var (
		flags  selectionFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Request a preliminary screening for a selection",
		Example: `  screening-cli predict -s "Delayed speech development" -s "Repetitive language" \
    --age 24 --family-history --milestone-delays --severity 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log := opts.logger()
			if cfg.Inference.APIKey == "" {
				log.Warn("no inference API key configured", nil)
			}

			inferer := inference.NewClient(httpclient.NewClient(httpclient.DefaultOptions()), log)
			svc := screening.NewService(inferer, inference.ConfigFrom(cfg.Inference), log)
			pred, err := svc.Predict(cmd.Context(), "", flags.selection())
			if err != nil {
				return selectionError(err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writePredictionJSON(out, pred); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, "Prediction:")
				fmt.Fprintln(out, pred.Text())
				fmt.Fprintln(out)
				fmt.Fprintln(out, screening.Disclaimer)
			}

			if !pred.Result.IsSuccess() {
				return apperrors.NewInferenceTransportError(errors.New(pred.Result.Detail))
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the prediction as JSON")
	return cmd
}

func selectionError(err error) error {
	if errors.Is(err, screening.ErrNoSymptoms) {
		return apperrors.NewNoSymptomsSelectedError(screening.NoSymptomsWarning)
	}
	return apperrors.NewSelectionInvalidError(err.Error())
}

func writePredictionJSON(w io.Writer, pred *screening.Prediction) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"requestId":  pred.RequestID,
		"symptoms":   pred.Selection.Symptoms,
		"criteria":   pred.Selection.Criteria,
		"result":     pred.Result,
		"prediction": pred.Text(),
		"disclaimer": screening.Disclaimer,
	})
}
