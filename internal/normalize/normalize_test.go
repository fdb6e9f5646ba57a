package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"repair-insights-go/internal/catalog"
)

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"dotted with spaces", "2024. 11. 1", "2024-11-01", true},
		{"slashes", "2024/3/5", "2024-03-05", true},
		{"iso", "2024-11-01", "2024-11-01", true},
		{"korean units", "2024년 11월 1일", "2024-11-01", true},
		{"month only defaults day", "2024-07", "2024-07-01", true},
		{"trailing time", "2024/3/5 14:30", "2024-03-05", true},
		{"leading label", "접수 2023.12.24", "2023-12-24", true},
		{"newline inside", "2024.\n1.\n2", "2024-01-02", true},
		{"no year", "11/1", "", false},
		{"year only", "2024", "", false},
		{"month out of range", "2024-13-01", "", false},
		{"impossible day", "2024-02-30", "", false},
		{"day zero", "2024-02-0", "", false},
		{"empty", "", "", false},
		{"garbage", "tomorrow", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDate(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestDateTime(t *testing.T) {
	d, ok := ExtractDate("2024-02-29")
	require.True(t, ok)
	tm := d.Time()
	assert.Equal(t, 2024, tm.Year())
	assert.Equal(t, 29, tm.Day())
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"190,000", 190000},
		{"-50,000", -50000},
		{"₩ 2,500,000", 2500000},
		{"1,234.56", 1234},
		{"abc", 0},
		{"", 0},
		{"-", 0},
		{"1-2", 0},
		{"  35000원 ", 35000},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCurrency(tt.input))
		})
	}
}

func TestParseCost(t *testing.T) {
	assert.Equal(t, int64(50000), ParseCost("-50,000"))
	assert.Equal(t, int64(50000), ParseCost("50,000"))
	assert.Equal(t, int64(0), ParseCost("n/a"))
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "김수아", CleanName("김수아 [C / 수아]"))
	assert.Equal(t, "Jane Doe", CleanName("  Jane\n  Doe "))
	assert.Equal(t, "", CleanName("[staff only]"))
	assert.Equal(t, "박민준", CleanName("박민준"))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "핸들 교체 및 염색", CleanText("핸들 교체\r\n 및   염색 "))
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"01012345678", "010-1234-5678"},
		{"010 1234 5678", "010-1234-5678"},
		{"010-1234-5678", "010-1234-5678"},
		{"011.234.56789", "011-2345-6789"},
		{"02-123-4567", "02-123-4567"},
		{" 1234 ", "1234"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"010-1234-5678", true},
		{"02-123-4567", true},
		{"0000000000", false},
		{"010-1234-0000", false},
		{"010-9876-1111", false},
		{"1234567", false},
		{"", false},
		{"미입력", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(tt.input))
		})
	}
}

func TestBrandsCanonical(t *testing.T) {
	b := NewBrands(catalog.Default().Brands)
	tests := []struct {
		input string
		want  string
	}{
		{"chanel bag", "Chanel"},
		{"샤넬", "Chanel"},
		{"CHANEL", "Chanel"},
		{"루이비통 스피디", "Louis Vuitton"},
		{"LV", "Louis Vuitton"},
		{"Hermès Birkin", "Hermes"},
		{"silver gucci", "Gucci"},
		{"YSL", "Saint Laurent"},
		{"ysl clutch", "Saint Laurent"},
		{"LV speedy", "Louis Vuitton"},
		{"louis bag", "Louis Vuitton"},
		{"silver buckle", OtherBrand},
		{"involve", OtherBrand},
		{"Calvin Klein", OtherBrand},
		{"saint james", OtherBrand},
		{"Moynat", OtherBrand},
		{"", OtherBrand},
		{"   ", OtherBrand},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Canonical(tt.input))
		})
	}
}

func TestBrandsCanonicalDecomposedHangul(t *testing.T) {
	b := NewBrands(catalog.Default().Brands)
	decomposed := norm.NFD.String("샤넬")
	require.NotEqual(t, "샤넬", decomposed)
	assert.Equal(t, "Chanel", b.Canonical(decomposed))
}

