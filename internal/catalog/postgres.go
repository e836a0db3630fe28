package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "niche-finder/internal/common/errors"
	"niche-finder/internal/models"

	"github.com/lib/pq"
)

const DefaultTable = "niche_catalog"

// LoadPostgres reads the catalog from table, one row per niche ordered by
// position. List columns are text[]. The trend sample is not stored in the
// database; the embedded sample is attached for the niches that exist.
func LoadPostgres(ctx context.Context, db *sql.DB, table string) (*Catalog, error) {
	if table == "" {
		table = DefaultTable
	}

	query := fmt.Sprintf(`
		SELECT name, description, required_skills, time_investment, investment_cost,
		       suited_audiences, demand, competition, income_potential,
		       tools, learning_resources, launch_steps, extended_fields
		FROM %s
		ORDER BY position, name`, quoteTable(table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("catalog", err)
	}
	defer rows.Close()

	var niches []models.Niche
	for rows.Next() {
		var (
			n                              models.Niche
			demand, competition, income    sql.NullString
			timeInvestment, investmentCost string
		)
		if err := rows.Scan(
			&n.Name,
			&n.Description,
			pq.Array(&n.RequiredSkills),
			&timeInvestment,
			&investmentCost,
			pq.Array(&n.SuitedAudiences),
			&demand,
			&competition,
			&income,
			pq.Array(&n.Tools),
			pq.Array(&n.LearningResources),
			pq.Array(&n.LaunchSteps),
			pq.Array(&n.ExtendedFields),
		); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("catalog", err)
		}

		n.TimeInvestment = models.Tier(timeInvestment)
		n.InvestmentCost = models.Tier(investmentCost)
		n.Demand = models.Tier(demand.String)
		n.Competition = models.Tier(competition.String)
		n.IncomePotential = models.Tier(income.String)
		if n.SuitedAudiences == nil {
			n.SuitedAudiences = []string{}
		}
		niches = append(niches, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("catalog", err)
	}

	doc := Document{Niches: niches}
	if embedded, err := embeddedTrends(); err == nil {
		doc.Trends = trendsFor(embedded, niches)
	}

	// round-trip through JSON so database rows pass the same schema as files
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(SourcePostgres, err)
	}
	return Parse(data, SourcePostgres)
}

// quoteTable quotes each dot-separated part, so "public.niches" stays schema-qualified.
func quoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

func embeddedTrends() (*models.TrendSample, error) {
	var doc Document
	if err := json.Unmarshal(embeddedCatalog, &doc); err != nil {
		return nil, err
	}
	if doc.Trends == nil {
		return nil, fmt.Errorf("embedded catalog has no trends")
	}
	return doc.Trends, nil
}

func trendsFor(sample *models.TrendSample, niches []models.Niche) *models.TrendSample {
	present := make(map[string]bool, len(niches))
	for _, n := range niches {
		present[n.Name] = true
	}
	out := &models.TrendSample{Months: sample.Months, Series: []models.TrendSeries{}}
	for _, s := range sample.Series {
		if present[s.Niche] {
			out.Series = append(out.Series, s)
		}
	}
	return out
}
