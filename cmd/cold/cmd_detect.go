package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var detectFlags struct {
	file  string
	model string
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect the jurisdiction of a decision",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(detectFlags.file)
		if err != nil {
			return err
		}

		extractor, err := newExtractor(cmd.Context())
		if err != nil {
			return err
		}

		model := detectFlags.model
		if model == "" {
			model = cfg.LLM.Model
		}

		j, err := extractor.DetectJurisdiction(cmd.Context(), text, model)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(j)
	},
}

func init() {
	f := detectCmd.Flags()
	f.StringVarP(&detectFlags.file, "file", "f", "", "Decision text file (- for stdin)")
	f.StringVar(&detectFlags.model, "model", "", "Model identifier (default: llm.model)")
	detectCmd.MarkFlagRequired("file")
}
