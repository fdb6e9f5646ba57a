package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.NotEmpty(t, c.Brands)
	assert.Equal(t, "Chanel", c.Brands[0].Name)
	assert.Len(t, c.Insights, 12)
	assert.Equal(t, 12, c.Durability.DefaultMonths)
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Brands[0].Name = "changed"
	b := Default()
	assert.Equal(t, "Chanel", b.Brands[0].Name)
}

func TestParseRejectsIncompleteBrands(t *testing.T) {
	_, err := Parse([]byte("brands:\n  - name: Chanel\n"))
	require.Error(t, err)

	_, err = Parse([]byte("insights: []\n"))
	require.Error(t, err)

	c, err := Parse([]byte("brands:\n  - name: Loewe\n    tokens: [lw]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"lw"}, c.Brands[0].Tokens)
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"lv", "strap", "a", "s"}, Words("lv-strap (a/s)"))
	assert.Empty(t, Words(" / "))
}

func TestInsightFor(t *testing.T) {
	c := Default()
	assert.Equal(t, 10, c.InsightFor(10).Month)
	assert.Equal(t, "Annual overview", c.InsightFor(0).Title)
	assert.Equal(t, "Annual overview", c.InsightFor(13).Title)
}

func TestDurabilityMonthsFor(t *testing.T) {
	d := Default().Durability
	tests := []struct {
		category string
		want     int
	}{
		{"가방", 18},
		{"Bag repair", 18},
		{"신발", 6},
		{"의류", 24},
		{"지갑", 12},
		{"", 12},
		{"unknown", 12},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, d.MonthsFor(tt.category))
		})
	}
}

func TestReworkMatches(t *testing.T) {
	r := Default().Rework
	assert.True(t, r.Matches("핸들 재작업"))
	assert.True(t, r.Matches("AS 접수"))
	assert.True(t, r.Matches("strap a/s"))
	assert.False(t, r.Matches("glass case polish"))
	assert.False(t, r.Matches("전체 염색"))
	assert.False(t, r.Matches(""))
}
