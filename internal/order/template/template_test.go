package template

import (
	"strings"
	"testing"
)

func TestRenderFixedTokensCaseInsensitive(t *testing.T) {
	body := "Produk: {nama produk} / {NAMA PRODUK}, TRX {transaction id}, ke {Email Pembeli}"
	out := Render(body, Data{
		ProductName:   "Netflix Private",
		TransactionID: "NFLX-ABC1234567",
		BuyerEmail:    "buyer@mail.test",
	})

	want := "Produk: Netflix Private / Netflix Private, TRX NFLX-ABC1234567, ke buyer@mail.test"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestRenderDynamicFieldWithMetacharacters(t *testing.T) {
	body := "Akun berlaku sampai {Exp.Date}"
	out := Render(body, Data{
		Fields: map[string]string{"Exp.Date": "2026-12-31"},
	})
	if out != "Akun berlaku sampai 2026-12-31" {
		t.Fatalf("unexpected output %q", out)
	}

	// The dot must not match arbitrary characters.
	body = "Nilai {ExpXDate} tetap"
	out = Render(body, Data{
		Fields: map[string]string{"Exp.Date": "2026-12-31"},
	})
	if out != "Nilai {ExpXDate} tetap" {
		t.Fatalf("quoted token leaked into %q", out)
	}
}

func TestRenderMissingValueDash(t *testing.T) {
	out := Render("Produk {Nama Produk}, PIN {PIN}", Data{
		Fields: map[string]string{"PIN": "  "},
	})
	if out != "Produk -, PIN -" {
		t.Fatalf("expected dashes for blank values, got %q", out)
	}
}

func TestRenderIdempotentOnPlainValues(t *testing.T) {
	body := "TRX {Transaction ID}"
	data := Data{TransactionID: "TRX-ABCDEFGHIJ"}

	once := Render(body, data)
	twice := Render(once, data)
	if once != twice {
		t.Fatalf("render not idempotent: %q vs %q", once, twice)
	}
}

func TestRenderValueWithDollarSign(t *testing.T) {
	out := Render("Harga: {Price}", Data{
		Fields: map[string]string{"Price": "$10"},
	})
	if out != "Harga: $10" {
		t.Fatalf("expected literal value substitution, got %q", out)
	}
}

func TestRenderItemsList(t *testing.T) {
	out := Render(DefaultLinkBody, Data{
		CategoryName:  "Design Assets",
		TransactionID: "LINK-ABCDEFGHIJ",
		BuyerEmail:    "buyer@mail.test",
		Items: []Item{
			{Name: "Mockup Pack", MainURL: "https://example.test/mockup"},
			{Name: "Icon Pack", MainURL: "https://example.test/icons"},
		},
	})

	if !strings.Contains(out, "Mockup Pack") || !strings.Contains(out, "Icon Pack") {
		t.Fatalf("expected both item cards, got %q", out)
	}
	if strings.Contains(out, "{{items_list}}") {
		t.Fatalf("items_list token left in output")
	}
	if strings.Index(out, "Mockup Pack") > strings.Index(out, "Icon Pack") {
		t.Fatalf("expected supply order preserved")
	}
}

func TestRenderItemFragmentOverride(t *testing.T) {
	out := Render("{{items_list}}", Data{
		Items: []Item{
			{Name: "Go Course", MainURL: "https://example.test/go", Fragment: "<li>{{item_name}}: {{item_url}}</li>"},
		},
	})
	if out != "<li>Go Course: https://example.test/go</li>" {
		t.Fatalf("unexpected fragment output %q", out)
	}
}

func TestRenderEmptyItemsList(t *testing.T) {
	out := Render("Isi: {{items_list}}", Data{})
	if out != "Isi: -" {
		t.Fatalf("expected dash for empty items, got %q", out)
	}
}
