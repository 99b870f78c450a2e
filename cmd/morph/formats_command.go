package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"morph/internal/registry"
)

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "formats",
		Short:       "List supported source formats and conversion targets",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			headers := []string{"Category", "Sources", "Targets"}
			rows := make([][]string, 0, len(registry.Categories()))
			for _, category := range registry.Categories() {
				sources := sourcesFor(category)
				if len(sources) == 0 {
					continue
				}
				rows = append(rows, []string{
					fmt.Sprintf("%s %s", registry.Emoji(category), category),
					strings.Join(sources, ", "),
					strings.Join(targetsFor(category), ", "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, nil))
			return nil
		},
	}
}

func sourcesFor(category registry.Category) []string {
	var sources []string
	for _, ext := range registry.SupportedExtensions() {
		if registry.Classify(ext) == category {
			sources = append(sources, ext)
		}
	}
	return sources
}

func targetsFor(category registry.Category) []string {
	seen := map[string]struct{}{}
	var codes []string
	for _, ext := range registry.SupportedExtensions() {
		if registry.Classify(ext) != category {
			continue
		}
		for _, target := range registry.LegalTargets(ext) {
			if _, ok := seen[target.Code]; ok {
				continue
			}
			seen[target.Code] = struct{}{}
			codes = append(codes, target.Code)
		}
	}
	return codes
}
