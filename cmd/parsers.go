package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/parsers"
)

var (
	parserHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	parserNameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func newParsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parsers",
		Short: "List registered extractor parsers and their result keys",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n",
				parserHeaderStyle.Render("EXTRACTOR"),
				parserHeaderStyle.Render("RESULT KEYS"))
			for _, p := range parsers.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n",
					parserNameStyle.Render(p.Extractor()),
					strings.Join(p.ResultKeys(), ", "))
			}
		},
	}
}
