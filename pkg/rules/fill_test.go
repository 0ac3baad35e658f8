package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillRule(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "char_fill",
			input: `std::vector<uint8_t> value(10, 'x');`,
			want:  `std::string value(10, "x");`,
		},
		{
			name:  "char_fill_large_count",
			input: `std::vector<uint8_t> large_value(1048576, 'x');`,
			want:  `std::string large_value(1048576, "x");`,
		},
		{
			name:  "escaped_char_fill",
			input: `std::vector<uint8_t> pad(4, '\t');`,
			want:  `std::string pad(4, "\t");`,
		},
		{
			name:  "cast_fill",
			input: `std::vector<uint8_t> value(50, static_cast<uint8_t>(i % 256));`,
			want:  `std::string value(50, static_cast<char>(i % 256));`,
		},
		{
			name:  "cast_fill_expression_count",
			input: `std::vector<uint8_t> value(kValueSize, static_cast<uint8_t>(seed));`,
			want:  `std::string value(kValueSize, static_cast<char>(seed));`,
		},
		{
			name:  "char_fill_requires_numeric_count",
			input: `std::vector<uint8_t> value(n, 'x');`,
			want:  `std::vector<uint8_t> value(n, 'x');`,
		},
		{
			name:  "unrelated_constructor_untouched",
			input: `std::vector<uint8_t> value(request->value().begin(), request->value().end());`,
			want:  `std::vector<uint8_t> value(request->value().begin(), request->value().end());`,
		},
		{
			name: "both_variants_in_buffer",
			input: "std::vector<uint8_t> a(10, 'x');\n" +
				"std::vector<uint8_t> b(20, static_cast<uint8_t>(c));",
			want: "std::string a(10, \"x\");\n" +
				"std::string b(20, static_cast<char>(c));",
		},
	}

	rule := NewFillRule()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rule.Apply(tt.input)
			assert.Equal(t, tt.want, got, "rewritten content")
			assert.Equal(t, got, rule.Apply(got), "second application must be a no-op")
		})
	}
}
