package catalog

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseSizeCaseInsensitive(t *testing.T) {
	cases := map[string]Size{"xs": SizeXS, "S": SizeS, " m ": SizeM, "L": SizeL, "xL": SizeXL, "XXL": SizeXXL}
	for text, want := range cases {
		got, err := ParseSize(text)
		if err != nil {
			t.Fatalf("parse %q: %v", text, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", text, want, got)
		}
	}
	if _, err := ParseSize("XXXL"); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected invalid size, got %v", err)
	}
	if Size(9).String() != "Size(9)" || Size(9).Valid() {
		t.Fatalf("unexpected out of range size handling")
	}
	if names := SizeNames(); len(names) != 6 || names[5] != "XXL" {
		t.Fatalf("unexpected size names: %v", names)
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	c := RGB(255, 16, 0)
	if c.Hex() != "#FF1000" {
		t.Fatalf("unexpected hex: %s", c.Hex())
	}
	parsed, err := ParseHexColor("ff1000")
	if err != nil || parsed != c {
		t.Fatalf("unexpected parse: %v %v", parsed, err)
	}
	if _, err := ParseHexColor("#12"); !errors.Is(err, ErrUnsupportedConversion) {
		t.Fatalf("expected conversion error, got %v", err)
	}
	if _, err := ParseHexColor("#GGGGGG"); !errors.Is(err, ErrUnsupportedConversion) {
		t.Fatalf("expected conversion error, got %v", err)
	}
}

func TestProductVariantHelpers(t *testing.T) {
	a := NewVariant("A", SizeS, White)
	b := NewVariant("B", SizeM, White)
	p := NewProduct("Shirt", decimal.Zero, "desc", true)
	if p.HasVariants() || p.HasMoreThanOneVariant() || p.VariantPlusMore() != 0 {
		t.Fatalf("unexpected helpers for empty product")
	}
	p = NewProduct("Shirt", decimal.Zero, "desc", true, a, b, a, nil)
	if len(p.Variants) != 2 {
		t.Fatalf("expected dedup to two variants, got %d", len(p.Variants))
	}
	if !p.HasVariants() || !p.HasMoreThanOneVariant() || p.VariantPlusMore() != 1 {
		t.Fatalf("unexpected helpers for two-variant product")
	}
}

func TestConverters(t *testing.T) {
	p, err := ProductFromValues("Shirt", "19.99", true, "Cotton")
	if err != nil {
		t.Fatalf("convert product: %v", err)
	}
	if p.Name != "Shirt" || !p.Price.Equal(decimal.RequireFromString("19.99")) || !p.IsListed || p.Description != "Cotton" {
		t.Fatalf("unexpected product: %+v", p)
	}
	if _, err := ProductFromValues("Shirt", 19.99, true, "Cotton"); !errors.Is(err, ErrUnsupportedConversion) {
		t.Fatalf("expected float price to be unsupported, got %v", err)
	}
	if _, err := ProductFromValues("Shirt"); !errors.Is(err, ErrUnsupportedConversion) {
		t.Fatalf("expected short input to be unsupported, got %v", err)
	}

	v, err := VariantFromValues("Red")
	if err != nil {
		t.Fatalf("convert variant: %v", err)
	}
	if v.Size != SizeM || v.Color != White {
		t.Fatalf("unexpected variant defaults: %+v", v)
	}
	if _, err := VariantFromValues(3); !errors.Is(err, ErrUnsupportedConversion) {
		t.Fatalf("expected non-string name to be unsupported, got %v", err)
	}
}
