package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	apperrors "niche-finder/internal/common/errors"
	"niche-finder/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed data/catalog.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return schema, schemaErr
}

// ValidateJSON checks a raw catalog document against the catalog schema.
func ValidateJSON(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return apperrors.NewCatalogValidationFailedError(fmt.Sprintf("malformed document: %v", err))
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return apperrors.NewCatalogValidationFailedError(strings.Join(msgs, "; "))
}

// tierFields lists the tier-valued columns of a record by their JSON name.
// Scoring fields must be present, display fields may be blank.
var tierFields = []struct {
	name    string
	scoring bool
	get     func(*models.Niche) models.Tier
}{
	{"time_investment", true, func(n *models.Niche) models.Tier { return n.TimeInvestment }},
	{"investment_cost", true, func(n *models.Niche) models.Tier { return n.InvestmentCost }},
	{"demand", false, func(n *models.Niche) models.Tier { return n.Demand }},
	{"competition", false, func(n *models.Niche) models.Tier { return n.Competition }},
	{"income_potential", false, func(n *models.Niche) models.Tier { return n.IncomePotential }},
}

func isTierField(name string) bool {
	for _, f := range tierFields {
		if f.name == name {
			return true
		}
	}
	return false
}

func validateSemantics(doc Document) error {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(doc.Niches) == 0 {
		add("catalog has no niches")
	}

	seen := make(map[string]bool, len(doc.Niches))
	for i := range doc.Niches {
		n := &doc.Niches[i]
		label := n.Name
		if strings.TrimSpace(n.Name) == "" {
			label = fmt.Sprintf("#%d", i)
			add("niche %s: empty name", label)
		} else if seen[n.Name] {
			add("niche %s: duplicate name", label)
		}
		seen[n.Name] = true

		if len(n.RequiredSkills) == 0 {
			add("niche %s: required_skills is empty", label)
		}

		extended := make(map[string]bool, len(n.ExtendedFields))
		for _, f := range n.ExtendedFields {
			if !isTierField(f) {
				add("niche %s: extended_fields names unknown field %q", label, f)
			}
			extended[f] = true
		}

		for _, f := range tierFields {
			v := f.get(n)
			switch {
			case v == "" && f.scoring:
				add("niche %s: %s is missing", label, f.name)
			case v == "" || v.IsOrdinal():
			case !extended[f.name]:
				add("niche %s: %s=%q is outside {低, 中等, 高} and not listed in extended_fields", label, f.name, v)
			}
		}
	}

	if doc.Trends != nil {
		months := len(doc.Trends.Months)
		for _, s := range doc.Trends.Series {
			if !seen[s.Niche] {
				add("trend series %s: no such niche", s.Niche)
			}
			if len(s.Values) != months {
				add("trend series %s: %d values for %d months", s.Niche, len(s.Values), months)
			}
		}
	}

	if len(problems) > 0 {
		return apperrors.NewCatalogValidationFailedError(strings.Join(problems, "; ")).
			WithMetadata("problemCount", len(problems))
	}
	return nil
}
