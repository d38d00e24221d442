package domain

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Gate values a checklist item can block on.
const (
	GateBeforeFirstPayment = "before_first_payment"
	GateBeforeFinalInvoice = "before_final_invoice"
)

// TemplateItem defines one required checklist entry, process-wide. Items are
// identified by a stable string key so that template overwrites reconcile
// deterministically against existing per-montage items.
type TemplateItem struct {
	Key                string `json:"key"`
	Label              string `json:"label"`
	RequiresAttachment bool   `json:"requiresAttachment"`
	Gate               string `json:"gate"`
}

// DefaultTemplate is the built-in checklist used when no template is
// configured. Order is significant: it becomes the order index of
// materialized items.
func DefaultTemplate() []TemplateItem {
	return []TemplateItem{
		{Key: "measurement_report", Label: "Inmeetrapport", RequiresAttachment: true, Gate: GateBeforeFirstPayment},
		{Key: "signed_quote", Label: "Getekende offerte", RequiresAttachment: true, Gate: GateBeforeFirstPayment},
		{Key: "contract_signed", Label: "Getekend contract", RequiresAttachment: true, Gate: GateBeforeFirstPayment},
		{Key: "deposit_invoice_sent", Label: "Aanbetalingsfactuur verstuurd", Gate: GateBeforeFirstPayment},
		{Key: "materials_checked", Label: "Materiaal gecontroleerd", Gate: GateBeforeFinalInvoice},
		{Key: "delivery_note_signed", Label: "Getekende leverbon", RequiresAttachment: true, Gate: GateBeforeFinalInvoice},
		{Key: "installation_photos", Label: "Opleverfoto's", RequiresAttachment: true, Gate: GateBeforeFinalInvoice},
	}
}

//go:embed checklist_template.schema.json
var templateSchemaJSON string

var templateSchema = func() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(templateSchemaJSON))
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("checklist_template.schema.json", doc); err != nil {
		panic(err)
	}
	return compiler.MustCompile("checklist_template.schema.json")
}()

// ResolveTemplate parses a configured checklist template. It is total: an
// absent, malformed, schema-invalid or empty template degrades to
// DefaultTemplate and a non-nil reason the caller should log. The reason is
// informational only, never an error to surface.
func ResolveTemplate(raw []byte) ([]TemplateItem, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return DefaultTemplate(), nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return DefaultTemplate(), fmt.Errorf("checklist template is not valid JSON: %w", err)
	}

	if err := templateSchema.Validate(doc); err != nil {
		return DefaultTemplate(), fmt.Errorf("checklist template rejected by schema: %w", err)
	}

	var items []TemplateItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return DefaultTemplate(), fmt.Errorf("checklist template decode: %w", err)
	}
	if len(items) == 0 {
		return DefaultTemplate(), fmt.Errorf("checklist template is empty")
	}

	if err := checkDuplicateKeys(items); err != nil {
		return DefaultTemplate(), err
	}

	return items, nil
}

func checkDuplicateKeys(items []TemplateItem) error {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.Key] {
			return fmt.Errorf("checklist template has duplicate key %q", item.Key)
		}
		seen[item.Key] = true
	}
	return nil
}
