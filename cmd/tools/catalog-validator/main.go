// cmd/tools/catalog-validator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"niche-finder/internal/catalog"
)

func main() {
	path := flag.String("path", "", "Catalog JSON file to validate (defaults to the embedded catalog)")
	dump := flag.Bool("dump-embedded", false, "Print the embedded catalog document and exit")
	quiet := flag.Bool("q", false, "Only report errors")
	flag.Parse()

	if *dump {
		os.Stdout.Write(catalog.EmbeddedJSON())
		return
	}

	var (
		cat *catalog.Catalog
		err error
	)
	if *path == "" {
		cat, err = catalog.LoadEmbedded()
	} else {
		cat, err = catalog.LoadFile(*path)
	}
	if err != nil {
		fmt.Printf("Catalog validation failed: %v\n", err)
		os.Exit(1)
	}

	if *quiet {
		return
	}

	fmt.Printf("Catalog %s (source %s) is valid: %d niches\n", cat.Version(), cat.Source(), cat.Len())
	for _, n := range cat.Niches() {
		fmt.Printf("  %-12s time=%-3s cost=%-3s skills=%s\n",
			n.Name, n.TimeInvestment, n.InvestmentCost, strings.Join(n.RequiredSkills, ","))
	}

	trends := catalog.TrendGrowth(cat)
	if len(trends) > 0 {
		fmt.Println("Trends:")
		for _, g := range trends {
			fmt.Printf("  %-12s %d -> %d (%+d%%, %s)\n", g.Niche, g.First, g.Last, g.GrowthPercent, g.Class)
		}
	}
}
