package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/knowledge-engine/bigfive/internal/engine"
	"github.com/knowledge-engine/bigfive/internal/present"
)

type analyzeOptions struct {
	text    string
	asJSON  bool
	pdfPath string
}

var analyzeOpts analyzeOptions

var analyzeCmd = &cobra.Command{
	Use:   "analyze [FILE]",
	Short: "Estimate trait scores for a .txt, .pdf or .docx file, or for --text",
	Long: "Estimate trait scores for a document or pasted text.\n" +
		"A FILE takes precedence over --text. Use '-' to read text from stdin.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(true)
		logger := newLogger(cfg)

		eng, err := newEngine(cfg, logger)
		if err != nil {
			return &exitError{code: 1, msg: engine.ArtifactsMissing}
		}

		in, err := cliInput(args, analyzeOpts.text, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return runAnalyze(cmd.Context(), eng, in, analyzeOpts, cmd.OutOrStdout())
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOpts.text, "text", "t", "", "text to analyze when no FILE is given")
	analyzeCmd.Flags().BoolVar(&analyzeOpts.asJSON, "json", false, "print the full result as JSON")
	analyzeCmd.Flags().StringVar(&analyzeOpts.pdfPath, "pdf", "", "also write a PDF report to this path")
	rootCmd.AddCommand(analyzeCmd)
}

// cliInput builds the engine input from the positional argument and flags
func cliInput(args []string, text string, stdin io.Reader) (engine.Input, error) {
	if len(args) == 0 {
		return engine.NewInput(nil, text), nil
	}
	if args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return engine.NewInput(nil, string(data)), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return engine.NewInput(&engine.FileInput{Name: filepath.Base(args[0]), Data: data}, text), nil
}

// runAnalyze halts with exit code 1 when the artifacts are unavailable and
// exits with code 2 on empty input.
func runAnalyze(ctx context.Context, eng *engine.Engine, in engine.Input, opts analyzeOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := eng.Ready(); err != nil {
		return &exitError{code: 1, msg: engine.ArtifactsMissing}
	}

	result, err := eng.Analyze(ctx, in)
	if errors.Is(err, engine.ErrEmptyInput) {
		return &exitError{code: 2, msg: engine.EmptyInputWarning}
	}
	if err != nil {
		return err
	}

	if opts.pdfPath != "" {
		if err := writePDF(opts.pdfPath, result.Report); err != nil {
			return err
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintln(out, "Results")
	for _, line := range result.Report.Lines {
		fmt.Fprintln(out, line.Text)
	}
	return nil
}

func writePDF(path string, report present.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := present.RenderPDF(f, report); err != nil {
		f.Close()
		return fmt.Errorf("failed to render report: %w", err)
	}
	return f.Close()
}
