package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/snippetcheck/internal/expect"
	"github.com/harrison/snippetcheck/internal/parser"
)

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <document-or-directory>...",
		Short: "List code blocks and their expectations without executing them",
		Long: `List every code block found in the given documents, showing the
language tag, source location, and whether the block carries a trailing
expected-output comment that makes it runnable.

Useful for checking what snippetcheck would execute before running it:

  snippetcheck list docs/getting-started.adoc
  snippetcheck list --only go docs/`,
		Args: cobra.MinimumNArgs(1),
		RunE: listCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .snippetcheck/config.yaml)")
	cmd.Flags().StringSlice("only", nil, "Only list blocks with these language tags")

	return cmd
}

// listCommand implements the list command logic
func listCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	documents, err := discoverAll(args)
	if err != nil {
		return err
	}

	only, _ := cmd.Flags().GetStringSlice("only")
	onlySet := make(map[string]bool, len(only))
	for _, tag := range only {
		onlySet[strings.ToLower(strings.TrimSpace(tag))] = true
	}

	extractor := expect.New(cfg.CommentPrefixes)
	out := cmd.OutOrStdout()

	total := 0
	runnable := 0
	for _, document := range documents {
		blocks, err := parser.ParseFile(document)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", document, err)
		}

		fmt.Fprintf(out, "%s:\n", document)
		listed := 0
		for i := range blocks {
			block := &blocks[i]
			if len(onlySet) > 0 && !onlySet[strings.ToLower(block.LanguageTag)] {
				continue
			}
			listed++
			total++

			exp := extractor.Extract(block)
			kind := "illustrative"
			if exp.IsRunnable {
				runnable++
				kind = fmt.Sprintf("runnable, expects %s", pluralize(len(exp.ExpectedOutput), "line"))
			}

			tag := block.LanguageTag
			if tag == "" {
				tag = "(untagged)"
			}
			fmt.Fprintf(out, "  %s  %s  lines %d-%d  %s\n",
				block.Label(), tag, block.StartLine, block.EndLine, kind)
		}
		if listed == 0 {
			fmt.Fprintf(out, "  no matching blocks\n")
		}
	}

	fmt.Fprintf(out, "\n%s, %d runnable\n", pluralize(total, "block"), runnable)
	return nil
}
