package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCurrency_TwoDecimals(t *testing.T) {
	cases := map[string]string{
		"0":       "R$ 0.00",
		"50":      "R$ 50.00",
		"150.5":   "R$ 150.50",
		"1234.56": "R$ 1234.56",
		"0.005":   "R$ 0.01",
		"1.005":   "R$ 1.01",
		"2.004":   "R$ 2.00",
		"9.995":   "R$ 10.00",
	}
	for in, want := range cases {
		if got := Currency(decimal.RequireFromString(in)); got != want {
			t.Errorf("Currency(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestCurrency_MissingAndInvalidRenderAsZero(t *testing.T) {
	zero := Currency(decimal.Zero)
	if zero != "R$ 0.00" {
		t.Fatalf("zero = %q", zero)
	}
	if got := NullCurrency(decimal.NullDecimal{}); got != zero {
		t.Errorf("NullCurrency(missing) = %q, want %q", got, zero)
	}
	if got := CurrencyString(""); got != zero {
		t.Errorf("CurrencyString(\"\") = %q, want %q", got, zero)
	}
	if got := CurrencyString("1e20000000"); got != zero {
		t.Errorf("CurrencyString(exponent) = %q, want %q", got, zero)
	}
	if got := CurrencyString("12,5"); got != "R$ 12.50" {
		t.Errorf("CurrencyString(12,5) = %q", got)
	}
	if got := CurrencyString("abc"); got != zero {
		t.Errorf("CurrencyString(abc) = %q, want %q", got, zero)
	}
	if got := NullCurrency(decimal.NewNullDecimal(decimal.NewFromInt(3))); got != "R$ 3.00" {
		t.Errorf("NullCurrency(3) = %q", got)
	}
}

func TestDate(t *testing.T) {
	d := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	if got := Date(d); got != "31/03/2024" {
		t.Errorf("Date = %q, want 31/03/2024", got)
	}
	if got := Date(time.Time{}); got != "" {
		t.Errorf("Date(zero) = %q, want empty", got)
	}
	if got := OptionalDate(nil); got != "-" {
		t.Errorf("OptionalDate(nil) = %q, want -", got)
	}
	if got := OptionalDate(&d); got != "31/03/2024" {
		t.Errorf("OptionalDate = %q", got)
	}
}

func TestFileName(t *testing.T) {
	cases := []struct{ client, want string }{
		{"João Silva", "ordem-servico-joão-silva.pdf"},
		{"ACME   Corp\tLtda", "ordem-servico-acme-corp-ltda.pdf"},
		{"", "ordem-servico-.pdf"},
		{"A/B Serviços", "ordem-servico-a-b-serviços.pdf"},
	}
	for _, tc := range cases {
		if got := FileName(tc.client, ".pdf"); got != tc.want {
			t.Errorf("FileName(%q) = %q, want %q", tc.client, got, tc.want)
		}
	}
}
