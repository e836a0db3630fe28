package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"niche-finder/internal/common/config"
	apperrors "niche-finder/internal/common/errors"
	"niche-finder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.StandardError {
	t.Helper()
	require.Error(t, err)
	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, code, stdErr.Code)
	return stdErr
}

func validNiche(name string) models.Niche {
	return models.Niche{
		Name:            name,
		Description:     "测试描述",
		RequiredSkills:  []string{"写作能力"},
		TimeInvestment:  models.TierMedium,
		InvestmentCost:  models.TierLow,
		SuitedAudiences: []string{"学生"},
	}
}

func docJSON(t *testing.T, doc Document) []byte {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return data
}

// ==========================
// Embedded Catalog Tests
// ==========================

func TestLoadEmbedded(t *testing.T) {
	c, err := LoadEmbedded()
	require.NoError(t, err)

	assert.Equal(t, SourceEmbedded, c.Source())
	assert.Equal(t, "1.0.0", c.Version())
	assert.Equal(t, 6, c.Len())
	assert.Equal(t, []string{"内容创作", "AI应用开发", "AI咨询服务", "AI教育培训", "AI数据标注", "AI产品代理"}, c.Names())

	appDev, ok := c.Get("AI应用开发")
	require.True(t, ok)
	assert.Equal(t, []string{"编程基础", "AI/ML知识", "产品思维"}, appDev.RequiredSkills)
	assert.Equal(t, models.TierHigh, appDev.TimeInvestment)
	assert.Equal(t, models.TierMedium, appDev.InvestmentCost)

	labeling, ok := c.Get("AI数据标注")
	require.True(t, ok)
	assert.Equal(t, models.TierExtremelyLow, labeling.InvestmentCost)
	assert.Equal(t, []string{"investment_cost"}, labeling.ExtendedFields)

	trends := c.Trends()
	assert.Len(t, trends.Months, 6)
	assert.Len(t, trends.Series, 6)
}

func TestCatalog_GetUnknown(t *testing.T) {
	c, err := LoadEmbedded()
	require.NoError(t, err)

	n, ok := c.Get("不存在")
	assert.False(t, ok)
	assert.Nil(t, n)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c, err := LoadEmbedded()
	require.NoError(t, err)

	niches := c.Niches()
	niches[0].Name = "changed"
	niches[0].RequiredSkills[0] = "changed"

	got, ok := c.Get("内容创作")
	require.True(t, ok)
	got.Tools[0] = "changed"

	again, _ := c.Get("内容创作")
	assert.Equal(t, "写作能力", again.RequiredSkills[0])
	assert.Equal(t, "ChatGPT", again.Tools[0])
	assert.Equal(t, "内容创作", c.Names()[0])
}

func TestCatalog_DocumentRoundTrip(t *testing.T) {
	c, err := LoadEmbedded()
	require.NoError(t, err)

	again, err := Parse(docJSON(t, c.Document()), SourceFile)
	require.NoError(t, err)
	assert.Equal(t, c.Names(), again.Names())
	assert.Equal(t, c.Trends(), again.Trends())
}

// ==========================
// Validation Tests
// ==========================

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "not an object", json: `[]`},
		{name: "no niches", json: `{"niches": []}`},
		{name: "missing required skills", json: `{"niches": [{"name": "a", "description": "", "time_investment": "低", "investment_cost": "低", "suited_audiences": []}]}`},
		{name: "empty required skills", json: `{"niches": [{"name": "a", "description": "", "required_skills": [], "time_investment": "低", "investment_cost": "低", "suited_audiences": []}]}`},
		{name: "unknown tier", json: `{"niches": [{"name": "a", "description": "", "required_skills": ["x"], "time_investment": "超高", "investment_cost": "低", "suited_audiences": []}]}`},
		{name: "bad month", json: `{"niches": [{"name": "a", "description": "", "required_skills": ["x"], "time_investment": "低", "investment_cost": "低", "suited_audiences": []}], "trends": {"months": ["Jan"], "series": []}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json), SourceFile)
			requireCode(t, err, apperrors.ErrCodeCatalogValidationFailed)
		})
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"niches": [`), SourceFile)
	requireCode(t, err, apperrors.ErrCodeCatalogValidationFailed)
}

func TestNew_SemanticViolations(t *testing.T) {
	extendedWithoutTag := validNiche("b")
	extendedWithoutTag.InvestmentCost = models.TierExtremelyLow

	unknownExtended := validNiche("b")
	unknownExtended.ExtendedFields = []string{"name"}

	emptySkills := validNiche("b")
	emptySkills.RequiredSkills = nil

	missingTime := validNiche("b")
	missingTime.TimeInvestment = ""

	badDisplayTier := validNiche("b")
	badDisplayTier.Demand = models.TierExtremelyLow

	tests := []struct {
		name    string
		doc     Document
		details string
	}{
		{name: "empty catalog", doc: Document{}, details: "catalog has no niches"},
		{name: "duplicate names", doc: Document{Niches: []models.Niche{validNiche("a"), validNiche("a")}}, details: "duplicate name"},
		{name: "empty name", doc: Document{Niches: []models.Niche{validNiche(" ")}}, details: "empty name"},
		{name: "empty skills", doc: Document{Niches: []models.Niche{emptySkills}}, details: "required_skills is empty"},
		{name: "missing scoring tier", doc: Document{Niches: []models.Niche{missingTime}}, details: "time_investment is missing"},
		{name: "extended tier without tag", doc: Document{Niches: []models.Niche{extendedWithoutTag}}, details: "investment_cost"},
		{name: "extended display tier without tag", doc: Document{Niches: []models.Niche{badDisplayTier}}, details: "demand"},
		{name: "unknown extended field", doc: Document{Niches: []models.Niche{unknownExtended}}, details: `unknown field "name"`},
		{
			name: "trend series for unknown niche",
			doc: Document{
				Niches: []models.Niche{validNiche("a")},
				Trends: &models.TrendSample{Months: []string{"2024-01"}, Series: []models.TrendSeries{{Niche: "z", Values: []int{1}}}},
			},
			details: "no such niche",
		},
		{
			name: "trend series length mismatch",
			doc: Document{
				Niches: []models.Niche{validNiche("a")},
				Trends: &models.TrendSample{Months: []string{"2024-01", "2024-02"}, Series: []models.TrendSeries{{Niche: "a", Values: []int{1}}}},
			},
			details: "1 values for 2 months",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.doc, SourceFile)
			stdErr := requireCode(t, err, apperrors.ErrCodeCatalogValidationFailed)
			assert.Contains(t, stdErr.Details, tt.details)
		})
	}
}

func TestNew_ExtendedTierAllowedWhenTagged(t *testing.T) {
	n := validNiche("a")
	n.InvestmentCost = models.TierExtremelyLow
	n.ExtendedFields = []string{"investment_cost"}

	c, err := New(Document{Niches: []models.Niche{n}}, SourceFile)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

// ==========================
// Source Selection Tests
// ==========================

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, docJSON(t, Document{
		Version: "test",
		Niches:  []models.Niche{validNiche("a"), validNiche("b")},
	}), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, SourceFile, c.Source())
	assert.Equal(t, []string{"a", "b"}, c.Names())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	requireCode(t, err, apperrors.ErrCodeCatalogLoadFailed)
}

func TestLoad_SourceSelection(t *testing.T) {
	ctx := context.Background()

	c, err := Load(ctx, config.CatalogConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, c.Source())

	_, err = Load(ctx, config.CatalogConfig{Source: SourceFile}, nil)
	assert.ErrorContains(t, err, "catalog.path is required")

	_, err = Load(ctx, config.CatalogConfig{Source: SourcePostgres}, nil)
	assert.ErrorContains(t, err, "needs a database connection")

	_, err = Load(ctx, config.CatalogConfig{Source: "s3"}, nil)
	assert.ErrorContains(t, err, `unknown catalog source "s3"`)
}

func TestEmbeddedJSON_IsACopy(t *testing.T) {
	a := EmbeddedJSON()
	a[0] = 'x'
	assert.Equal(t, byte('{'), EmbeddedJSON()[0])
}
