package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"lantern/internal/profile"
	"lantern/internal/server"
)

var (
	profilePath string
	topK        int
	noModel     bool
	careerID    string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Recommend careers for a profile",
	Long:  "Recommend careers for a JSON profile read from a file, or from stdin when --profile is '-'.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApplication(true)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		p, err := readProfile(cmd.InOrStdin(), profilePath)
		if err != nil {
			return err
		}

		k := a.config.Engine.TopK
		if cmd.Flags().Changed("top-k") {
			k = topK
		}
		if k < 1 || k > server.MaxTopK {
			return fmt.Errorf("top-k must be between 1 and %d", server.MaxTopK)
		}

		hybrid := a.engine.PredictHybrid(cmd.Context(), p, k, !noModel)
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"success":         true,
			"total_matches":   len(hybrid.Results),
			"method_used":     hybrid.Method,
			"recommendations": hybrid.Results,
		})
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain how a profile matches one career",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApplication(true)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		p, err := readProfile(cmd.InOrStdin(), profilePath)
		if err != nil {
			return err
		}

		explanation, err := a.engine.ExplainMatch(cmd.Context(), p, careerID)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"career_id":   careerID,
			"explanation": explanation,
		})
	},
}

func init() {
	rootCmd.AddCommand(predictCmd, explainCmd)

	for _, c := range []*cobra.Command{predictCmd, explainCmd} {
		c.Flags().StringVarP(&profilePath, "profile", "p", "", "profile JSON file, '-' for stdin")
		_ = c.MarkFlagRequired("profile")
	}

	predictCmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of recommendations, engine.top_k when unset")
	predictCmd.Flags().BoolVar(&noModel, "no-model", false, "use rule-based scoring only")

	explainCmd.Flags().StringVar(&careerID, "career", "", "career identifier, e.g. software_engineer")
	_ = explainCmd.MarkFlagRequired("career")
}

// readProfile reads and validates a profile document.
func readProfile(stdin io.Reader, path string) (*profile.Profile, error) {
	var (
		doc []byte
		err error
	)
	if path == "-" {
		doc, err = io.ReadAll(stdin)
	} else {
		doc, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	return profile.Decode(doc)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
