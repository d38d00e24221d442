package domain

import "testing"

func TestResolveTemplateAbsentReturnsDefault(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte(""), []byte("   \n")} {
		items, reason := ResolveTemplate(raw)
		if reason != nil {
			t.Errorf("absent template must not produce a fallback reason, got %v", reason)
		}
		assertDefaultTemplate(t, items)
	}
}

func TestResolveTemplateMalformedFallsBack(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{{{"},
		{"wrong shape", `{"key":"x"}`},
		{"missing label", `[{"key":"a","gate":"before_first_payment"}]`},
		{"bad gate", `[{"key":"a","label":"A","gate":"before_lunch"}]`},
		{"bad key format", `[{"key":"Not A Key","label":"A","gate":"before_first_payment"}]`},
		{"empty list", `[]`},
		{"duplicate keys", `[
			{"key":"a","label":"A","gate":"before_first_payment"},
			{"key":"a","label":"B","gate":"before_final_invoice"}
		]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, reason := ResolveTemplate([]byte(tc.raw))
			if reason == nil {
				t.Error("expected a fallback reason")
			}
			assertDefaultTemplate(t, items)
		})
	}
}

func TestResolveTemplateValidOverride(t *testing.T) {
	raw := `[
		{"key":"site_survey","label":"Site survey","requiresAttachment":true,"gate":"before_first_payment"},
		{"key":"final_walkthrough","label":"Final walkthrough","gate":"before_final_invoice"}
	]`

	items, reason := ResolveTemplate([]byte(raw))
	if reason != nil {
		t.Fatalf("valid template rejected: %v", reason)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Key != "site_survey" || !items[0].RequiresAttachment {
		t.Errorf("first item = %+v", items[0])
	}
	if items[1].Gate != GateBeforeFinalInvoice {
		t.Errorf("second item gate = %q", items[1].Gate)
	}
}

// assertDefaultTemplate checks the built-in 7-item template in its fixed,
// documented order.
func assertDefaultTemplate(t *testing.T, items []TemplateItem) {
	t.Helper()

	wantKeys := []string{
		"measurement_report",
		"signed_quote",
		"contract_signed",
		"deposit_invoice_sent",
		"materials_checked",
		"delivery_note_signed",
		"installation_photos",
	}

	if len(items) != len(wantKeys) {
		t.Fatalf("default template has %d items, want %d", len(items), len(wantKeys))
	}
	for i, key := range wantKeys {
		if items[i].Key != key {
			t.Errorf("default item %d = %q, want %q", i, items[i].Key, key)
		}
	}

	// The first four gate the first payment, the rest the final invoice.
	for i, item := range items {
		wantGate := GateBeforeFirstPayment
		if i >= 4 {
			wantGate = GateBeforeFinalInvoice
		}
		if item.Gate != wantGate {
			t.Errorf("default item %q gate = %q, want %q", item.Key, item.Gate, wantGate)
		}
	}
}
