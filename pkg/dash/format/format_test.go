package format

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMagnitude(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "N/A"},
		{"zero", 0.0, "N/A"},
		{"nan", math.NaN(), "N/A"},
		{"inf", math.Inf(1), "N/A"},
		{"string", "12", "N/A"},
		{"small", 999.0, "$999.0"},
		{"thousands", 1500.0, "$1.5K"},
		{"int thousands", 1500, "$1.5K"},
		{"billions", 2_500_000_000.0, "$2.5B"},
		{"trillions", 2_800_000_000_000.0, "$2.8T"},
		{"beyond trillions", 4_200_000_000_000_000.0, "$4200.0T"},
		{"negative", -2_500_000_000.0, "-$2.5B"},
		{"negative small", -12.0, "-$12.0"},
		{"rounding rolls over", 999_990.0, "$1.0M"},
		{"json number", json.Number("3400000"), "$3.4M"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Magnitude(tt.in))
		})
	}
}

func TestNumeric(t *testing.T) {
	assert.Equal(t, "N/A", Numeric(nil, TemplateDollar2))
	assert.Equal(t, "$12.35", Numeric(12.345, TemplateDollar2))
	assert.Equal(t, "$0.00", Numeric(0.0, TemplateDollar2))
	assert.Equal(t, "31.20", Numeric(31.2, TemplateFixed2))
	assert.Equal(t, "7.00", Numeric(int64(7), TemplateFixed2))
	assert.Equal(t, "-", Numeric("abc", TemplateFixed2, "-"))
	assert.Equal(t, "N/A", Numeric(true, TemplateFixed2))
	assert.Equal(t, "N/A", Numeric(math.NaN(), TemplateFixed2))
	assert.Equal(t, "N/A", Numeric(1.0, "%d"), "mismatched verb falls back")
	assert.Equal(t, "N/A", Numeric(1.0, "%.2f %s"), "missing operand falls back")
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "0.44%", Percent(0.0044))
	assert.Equal(t, "N/A", Percent(0.0))
	assert.Equal(t, "N/A", Percent(nil))
	assert.Equal(t, "N/A", Percent("0.5"))
	assert.Equal(t, "--", Percent(nil, "--"))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Buy", Capitalize("buy"))
	assert.Equal(t, "Strong_buy", Capitalize("strong_buy"))
	assert.Equal(t, "HOLD", Capitalize("HOLD"))
	assert.Equal(t, "Écart", Capitalize("écart"))
	assert.Equal(t, "N/A", Capitalize(""))
	assert.Equal(t, "N/A", Capitalize(nil))
	assert.Equal(t, "N/A", Capitalize(3.0))
}

func TestText(t *testing.T) {
	assert.Equal(t, "United States", Text("United States"))
	assert.Equal(t, "164000", Text(164000.0))
	assert.Equal(t, "164000", Text(164000))
	assert.Equal(t, "N/A", Text(nil))
	assert.Equal(t, "N/A", Text("  "))
	assert.Equal(t, "true", Text(true))
}
