package workflows

import (
	"testing"

	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

func TestMissingFieldsKeepsConfiguredOrder(t *testing.T) {
	w := &models.PartnershipWorkflow{}
	cfg, _ := ConfigForStep(1)

	missing := MissingFields(w, cfg.Required)
	want := []string{FieldAgreedPrice, FieldContactEmail, FieldContactInstagram, FieldContactWhatsapp}
	if len(missing) != len(want) {
		t.Fatalf("expected %d missing fields, got %v", len(want), missing)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, missing)
		}
	}
}

func TestMissingFieldsTreatsBlankStringsAsAbsent(t *testing.T) {
	blank := "   "
	w := &models.PartnershipWorkflow{ContactEmail: &blank}

	missing := MissingFields(w, []string{FieldContactEmail})
	if len(missing) != 1 {
		t.Fatalf("expected blank email to count as missing, got %v", missing)
	}
}

func TestMissingFieldsAcceptsZeroPrice(t *testing.T) {
	zero := decimal.Zero
	w := &models.PartnershipWorkflow{AgreedPrice: &zero}

	if missing := MissingFields(w, []string{FieldAgreedPrice}); len(missing) != 0 {
		t.Fatalf("zero price must satisfy the field, got %v", missing)
	}
}

func populateField(w *models.PartnershipWorkflow, field string) {
	value := "set"
	switch field {
	case FieldAgreedPrice:
		price := decimal.NewFromInt(500)
		w.AgreedPrice = &price
	case FieldContactEmail:
		w.ContactEmail = &value
	case FieldContactInstagram:
		w.ContactInstagram = &value
	case FieldContactWhatsapp:
		w.ContactWhatsapp = &value
	case FieldShippingAddress:
		w.ShippingAddress = &value
	case FieldShippingCity:
		w.ShippingCity = &value
	case FieldShippingZip:
		w.ShippingZip = &value
	case FieldProductSuggestion1:
		w.ProductSuggestion1 = &value
	case FieldSelectedProductURL:
		w.SelectedProductURL = &value
	case FieldDesignProofURL:
		w.DesignProofURL = &value
	case FieldContractSigned:
		signed := true
		w.ContractSigned = &signed
	case FieldContractURL:
		w.ContractURL = &value
	case FieldTrackingURL:
		w.TrackingURL = &value
	case FieldCouponCode:
		w.CouponCode = &value
	}
}

func TestMissingFieldsPerStepCompleteness(t *testing.T) {
	for step := FirstStep; step <= LastStep; step++ {
		cfg, ok := ConfigForStep(step)
		if !ok {
			t.Fatalf("step %d: no configuration", step)
		}

		full := &models.PartnershipWorkflow{}
		for _, field := range cfg.Required {
			populateField(full, field)
		}
		if missing := MissingFields(full, cfg.Required); len(missing) != 0 {
			t.Fatalf("step %d: all fields set but still missing %v", step, missing)
		}

		// Omitting any single field must surface exactly that field.
		for _, omitted := range cfg.Required {
			w := &models.PartnershipWorkflow{}
			for _, field := range cfg.Required {
				if field != omitted {
					populateField(w, field)
				}
			}
			missing := MissingFields(w, cfg.Required)
			if len(missing) != 1 || missing[0] != omitted {
				t.Fatalf("step %d: expected only %q missing, got %v", step, omitted, missing)
			}
		}
	}
}

func TestPortalCanAdvanceOnlyPortalSteps(t *testing.T) {
	expected := map[int]bool{1: true, 2: true, 3: false, 4: true, 5: false}
	for step, want := range expected {
		if got := PortalCanAdvance(step); got != want {
			t.Fatalf("step %d: expected %v, got %v", step, want, got)
		}
	}
	if PortalCanAdvance(9) {
		t.Fatal("unknown step must not be portal-advanceable")
	}
}
