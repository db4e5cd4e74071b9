package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIngredient_QuantityUnitQualifier(t *testing.T) {
	got := ParseIngredient("1/4 adet ince kıyılmış lahana")

	assert.Equal(t, "1/4", got.Quantity)
	assert.Equal(t, "adet", got.Unit)
	assert.Equal(t, "Lahana", got.Name)
	assert.Contains(t, got.Note, "ince kıyılmış")
}

func TestParseIngredient_Table(t *testing.T) {
	tests := []struct {
		name string
		line string
		want ParsedIngredient
	}{
		{
			name: "multiword unit",
			line: "2 su bardağı süt",
			want: ParsedIngredient{Quantity: "2", Unit: "su bardağı", Name: "Süt"},
		},
		{
			name: "longest unit wins over shorter prefix",
			line: "1 yemek kaşığı zeytinyağı",
			want: ParsedIngredient{Quantity: "1", Unit: "yemek kaşığı", Name: "Zeytinyağı"},
		},
		{
			name: "quantity without unit defaults to count unit",
			line: "3 yumurta",
			want: ParsedIngredient{Quantity: "3", Unit: "adet", Name: "Yumurta"},
		},
		{
			name: "no quantity no unit",
			line: "Tuz",
			want: ParsedIngredient{Name: "Tuz"},
		},
		{
			name: "colloquial kilo",
			line: "1 kilo patates",
			want: ParsedIngredient{Quantity: "1", Unit: "kilo", Name: "Patates"},
		},
		{
			name: "kilogram is not read as kilo",
			line: "1 kilogram patates",
			want: ParsedIngredient{Quantity: "1", Unit: "kilogram", Name: "Patates"},
		},
		{
			name: "comma decimal",
			line: "1,5 su bardağı su",
			want: ParsedIngredient{Quantity: "1.5", Unit: "su bardağı", Name: "Su"},
		},
		{
			name: "number word",
			line: "Yarım çay kaşığı tarçın",
			want: ParsedIngredient{Quantity: "1/2", Unit: "çay kaşığı", Name: "Tarçın"},
		},
		{
			name: "dotted capital I number word",
			line: "İki diş sarımsak",
			want: ParsedIngredient{Quantity: "2", Unit: "diş", Name: "Sarımsak"},
		},
		{
			name: "unit glued to number",
			line: "200gr tavuk göğsü",
			want: ParsedIngredient{Quantity: "200", Unit: "gr", Name: "Tavuk göğsü"},
		},
		{
			name: "range",
			line: "2 - 3 dal maydanoz",
			want: ParsedIngredient{Quantity: "2-3", Unit: "dal", Name: "Maydanoz"},
		},
		{
			name: "unicode fraction",
			line: "½ su bardağı yoğurt",
			want: ParsedIngredient{Quantity: "1/2", Unit: "su bardağı", Name: "Yoğurt"},
		},
		{
			name: "mixed number",
			line: "1 1/2 su bardağı un",
			want: ParsedIngredient{Quantity: "1 1/2", Unit: "su bardağı", Name: "Un"},
		},
		{
			name: "comma clause moves to note",
			line: "2 yemek kaşığı tereyağı, isteğe göre zeytinyağı",
			want: ParsedIngredient{Quantity: "2", Unit: "yemek kaşığı", Name: "Tereyağı", Note: "isteğe göre zeytinyağı"},
		},
		{
			name: "qualifier after comma",
			line: "1 adet havuç, rendelenmiş",
			want: ParsedIngredient{Quantity: "1", Unit: "adet", Name: "Havuç", Note: "rendelenmiş"},
		},
		{
			name: "vague amount",
			line: "Bir miktar tuz",
			want: ParsedIngredient{Name: "Tuz", Note: "bir miktar"},
		},
		{
			name: "unit modifier",
			line: "1 tepeleme yemek kaşığı un",
			want: ParsedIngredient{Quantity: "1", Unit: "yemek kaşığı", Name: "Un", Note: "tepeleme"},
		},
		{
			name: "upper case I lowers to dotless",
			line: "1 adet IRMIK",
			want: ParsedIngredient{Quantity: "1", Unit: "adet", Name: "Irmık"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIngredient(tt.line))
		})
	}
}

func TestParseIngredient_ParentheticalNeverInName(t *testing.T) {
	lines := []string{
		"3 adet kuru kayısı (bir gece önceden ıslatılmış)",
		"1 kase yoğurt (ev yapımı) ",
		"(isteğe bağlı) 1 tutam tuz",
		"100 gr peynir (tuzsuz, lor)",
	}

	for _, line := range lines {
		got := ParseIngredient(line)
		assert.NotEmpty(t, got.Name, line)
		assert.NotContains(t, got.Name, "(", line)
		assert.NotContains(t, got.Name, "ıslatılmış", line)
		assert.NotContains(t, got.Name, "yapımı", line)
		assert.NotContains(t, got.Name, "bağlı", line)
		assert.NotContains(t, got.Name, "lor", line)
	}

	got := ParseIngredient("1 kase yoğurt (ev yapımı)")
	assert.Equal(t, "Yoğurt", got.Name)
	assert.Equal(t, "ev yapımı", got.Note)
}

func TestParseIngredient_EmptyName(t *testing.T) {
	assert.Empty(t, ParseIngredient("").Name)
	assert.Empty(t, ParseIngredient("2 su bardağı").Name)
	assert.Empty(t, ParseIngredient("  (not)  ").Name)
}

func TestNewIngredientParser_ExtraQualifiers(t *testing.T) {
	p := NewIngredientParser("Közlenmiş")

	got := p.Parse("2 adet közlenmiş biber")
	assert.Equal(t, "Biber", got.Name)
	assert.Equal(t, "közlenmiş", got.Note)

	// default parser is unaffected
	assert.Equal(t, "Közlenmiş biber", ParseIngredient("2 adet közlenmiş biber").Name)
}
