package numstr

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		raw           string
		maxDecimals   int
		allowNegative bool
		want          string
	}{
		{"plain", "1234", 2, false, "1234"},
		{"dot decimal", "12.5", 2, false, "12.5"},
		{"comma decimal", "12,5", 2, false, "12,5"},
		{"thousand and decimal", "1,234.56", 2, false, "1234.56"},
		{"multiple separators keep rightmost", "1.2.3", 2, false, "12.3"},
		{"truncate not round", "12.349", 2, false, "12.34"},
		{"trailing separator preserved", "12.", 2, false, "12."},
		{"trailing comma preserved", "12,", 2, false, "12,"},
		{"strip letters", "usd 12.5x", 2, false, "12.5"},
		{"garbage only", "abc", 2, false, ""},
		{"empty", "", 2, false, ""},
		{"minus stripped", "-12.5", 2, false, "12.5"},
		{"minus kept", "-12.5", 2, true, "-12.5"},
		{"inner minus moves to front", "12-5", 2, true, "-125"},
		{"lone minus kept", "-", 2, true, "-"},
		{"zero decimals drops fraction", "12.5", 0, false, "12"},
		{"zero decimals keeps bare separator", "12.", 0, false, "12."},
		{"zero decimals keeps bare comma", "12,", 0, false, "12,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.raw, tt.maxDecimals, tt.allowNegative))
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"dot", "12.5", "12.5", true},
		{"comma", "12,5", "12.5", true},
		{"trailing separator", "12.", "12", true},
		{"negative", "-3.5", "-3.5", true},
		{"zero", "0", "0", true},
		{"empty is missing", "", "", false},
		{"lone minus is missing", "-", "", false},
		{"garbage is missing", "abc", "", false},
		{"whitespace trimmed", " 7 ", "7", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, ok := Parse(tt.in)
			require.Equal(t, tt.ok, ok)
			if ok {
				want, err := decimal.NewFromString(tt.want)
				require.NoError(t, err)
				assert.True(t, want.Equal(d), "got %s", d)
			}
		})
	}
}

func TestParseMissingIsNotZero(t *testing.T) {
	t.Parallel()

	// 缺失和零必须可区分
	_, ok := Parse("")
	assert.False(t, ok)
	d, ok := Parse("0")
	assert.True(t, ok)
	assert.True(t, d.IsZero())
}

func TestRound2(t *testing.T) {
	t.Parallel()

	d, err := decimal.NewFromString("12.345")
	require.NoError(t, err)
	assert.Equal(t, "12.35", Round2(d))
	assert.Equal(t, "0.00", Round2(decimal.Zero))
	assert.Equal(t, "-12.50", Round2(decimal.NewFromFloat(-12.5)))
}
