package output

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/suren2787/contextmap/pkg/cycles"
	"github.com/suren2787/contextmap/pkg/model"
)

// PrintContextMapReport prints a formatted context map report with colors
func PrintContextMapReport(contextMap *model.ContextMap, contextCycles []cycles.ContextCycle) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	bold.Println("Context Map Report")
	bold.Println("==================")
	fmt.Printf("Generated: %s (schema %s)\n", contextMap.Metadata.GeneratedAt.Format("2006-01-02 15:04:05"), contextMap.Metadata.Version)
	fmt.Printf("Contexts: %d, Relationships: %d\n", contextMap.Metadata.ContextCount, contextMap.Metadata.RelationshipCount)
	fmt.Println()

	for _, c := range contextMap.Contexts {
		cyan.Printf("%s", c.Name)
		fmt.Printf(" (%s)", c.ID)
		if c.Domain != "" {
			fmt.Printf("  domain=%s", c.Domain)
		}
		if c.Owner != "" {
			fmt.Printf("  owner=%s", c.Owner)
		}
		fmt.Println()

		fmt.Printf("  Components: %d\n", len(c.Components))
		if len(c.ProvidedAPIs) > 0 {
			fmt.Printf("  Provides: ")
			printAPIs(c.ProvidedAPIs)
		}
		if len(c.ConsumedAPIs) > 0 {
			fmt.Printf("  Consumes: ")
			printAPIs(c.ConsumedAPIs)
		}
		fmt.Println()
	}

	if len(contextMap.Relationships) > 0 {
		bold.Println("RELATIONSHIPS:")
		for _, rel := range contextMap.Relationships {
			via := ""
			if len(rel.ViaAPIs) > 0 {
				via = rel.ViaAPIs[0]
			}
			fmt.Printf("  %s  %s -> %s", rel.ID, rel.Upstream, rel.Downstream)
			yellow.Printf("  [%s]", rel.Type)
			fmt.Printf("  via %s\n", via)
		}
		fmt.Println()
	}

	if len(contextCycles) == 0 {
		green.Println("No circular context dependencies.")
	} else {
		red.Printf("CIRCULAR DEPENDENCIES: %d\n", len(contextCycles))
		for _, cycle := range contextCycles {
			yellow.Printf("  %v\n", cycle.Contexts)
		}
	}
}

func printAPIs(apis []model.ApiSummary) {
	for i, api := range apis {
		if i > 0 {
			fmt.Printf(", ")
		}
		fmt.Printf("%s", api.Name)
		if api.Type != "" {
			fmt.Printf(" (%s)", api.Type)
		}
	}
	fmt.Println()
}
