// Package catalog loads and validates the niche catalog. A Catalog is built
// once at startup and is read-only afterwards, so it is safe to share between
// workers.
package catalog

import (
	"niche-finder/internal/models"
)

const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Document is the on-disk shape of a catalog.
type Document struct {
	Version string              `json:"version,omitempty"`
	Niches  []models.Niche      `json:"niches"`
	Trends  *models.TrendSample `json:"trends,omitempty"`
}

type Catalog struct {
	version string
	source  string
	niches  []models.Niche
	index   map[string]int
	trends  models.TrendSample
}

// New validates doc and freezes it into a Catalog.
func New(doc Document, source string) (*Catalog, error) {
	if err := validateSemantics(doc); err != nil {
		return nil, err
	}

	c := &Catalog{
		version: doc.Version,
		source:  source,
		niches:  make([]models.Niche, len(doc.Niches)),
		index:   make(map[string]int, len(doc.Niches)),
	}
	for i, n := range doc.Niches {
		c.niches[i] = cloneNiche(n)
		c.index[n.Name] = i
	}
	if doc.Trends != nil {
		c.trends = cloneTrends(*doc.Trends)
	}
	return c, nil
}

// Niches returns the records in catalog order. The slice is a copy.
func (c *Catalog) Niches() []models.Niche {
	out := make([]models.Niche, len(c.niches))
	for i, n := range c.niches {
		out[i] = cloneNiche(n)
	}
	return out
}

// Get returns a copy of the named niche.
func (c *Catalog) Get(name string) (*models.Niche, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	n := cloneNiche(c.niches[i])
	return &n, true
}

// Names lists niche names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.niches))
	for i, n := range c.niches {
		names[i] = n.Name
	}
	return names
}

// Len is the number of niches.
func (c *Catalog) Len() int { return len(c.niches) }

// Version is the catalog document version.
func (c *Catalog) Version() string { return c.version }

// Source names where the catalog was loaded from.
func (c *Catalog) Source() string { return c.source }

// Trends returns a copy of the market trend sample.
func (c *Catalog) Trends() models.TrendSample { return cloneTrends(c.trends) }

// Document returns the catalog in its serializable form.
func (c *Catalog) Document() Document {
	trends := cloneTrends(c.trends)
	doc := Document{Version: c.version, Niches: c.Niches()}
	if len(trends.Months) > 0 || len(trends.Series) > 0 {
		doc.Trends = &trends
	}
	return doc
}

func cloneNiche(n models.Niche) models.Niche {
	n.RequiredSkills = cloneStrings(n.RequiredSkills)
	n.SuitedAudiences = cloneStrings(n.SuitedAudiences)
	n.Tools = cloneStrings(n.Tools)
	n.LearningResources = cloneStrings(n.LearningResources)
	n.LaunchSteps = cloneStrings(n.LaunchSteps)
	n.ExtendedFields = cloneStrings(n.ExtendedFields)
	return n
}

func cloneTrends(t models.TrendSample) models.TrendSample {
	out := models.TrendSample{Months: cloneStrings(t.Months)}
	if t.Series != nil {
		out.Series = make([]models.TrendSeries, len(t.Series))
		for i, s := range t.Series {
			vals := make([]int, len(s.Values))
			copy(vals, s.Values)
			out.Series[i] = models.TrendSeries{Niche: s.Niche, Values: vals}
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
