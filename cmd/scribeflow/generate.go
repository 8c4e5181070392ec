package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scribeflow/scribeflow"
	"github.com/scribeflow/scribeflow/progress"
	"github.com/scribeflow/scribeflow/render"
)

type generateFlags struct {
	configPath string
	output     string
	html       bool
	quiet      bool
}

func newGenerateCmd() *cobra.Command {
	flags := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate [topic]",
		Short: "Run the workflow for a topic and write the accepted draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), args[0], flags)
		},
	}
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to YAML config")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file; defaults to <topic>.md in the working directory")
	cmd.Flags().BoolVar(&flags.html, "html", false, "additionally render the draft to HTML")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress live progress output")
	return cmd
}

func runGenerate(ctx context.Context, topic string, flags *generateFlags) error {
	config := scribeflow.DefaultConfig()
	if flags.configPath != "" {
		loaded, err := scribeflow.LoadConfig(flags.configPath)
		if err != nil {
			return err
		}
		config = loaded
	}
	if err := resolveSecrets(ctx, config); err != nil {
		return err
	}

	options := []scribeflow.Option{scribeflow.WithConfig(config)}
	if !flags.quiet {
		options = append(options, scribeflow.WithProgressObserver(printEvent))
	}
	svc, err := scribeflow.New(options...)
	if err != nil {
		return err
	}

	result, err := svc.Generate(ctx, topic)
	if err != nil {
		if result != nil && result.Draft != nil {
			fmt.Fprintf(os.Stderr, "workflow failed; last draft preserved (%d revision(s))\n", result.Revisions)
		}
		return err
	}

	output := flags.output
	if output == "" {
		output = slug(topic) + ".md"
	}
	if err := os.WriteFile(output, []byte(render.Markdown(result.Draft)), 0o644); err != nil {
		return err
	}
	if flags.html {
		html, err := render.HTML(result.Draft)
		if err != nil {
			return err
		}
		htmlPath := strings.TrimSuffix(output, filepath.Ext(output)) + ".html"
		if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
			return err
		}
	}
	fmt.Printf("completed in %s: quality %.1f after %d revision(s) -> %s\n",
		result.Elapsed.Round(timeRound), result.Quality, result.Revisions, output)
	return nil
}

func printEvent(event progress.Event) {
	fmt.Fprintf(os.Stderr, "[%s] %-12s %-12s %5.1f%%  %s\n",
		event.Time.Format("15:04:05"), event.Stage, event.Agent, event.Percent, event.Message)
}

func slug(topic string) string {
	mapper := func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}
	return strings.Trim(strings.Map(mapper, topic), "-")
}
