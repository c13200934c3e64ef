package workflows

import (
	"strings"

	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
)

// MissingFields returns the subset of fields not yet satisfied on the
// workflow, in the order they are configured.
//
// Presence rules: string fields count when non-empty after trimming;
// agreedPrice counts when set (an explicit zero price is valid);
// contractSigned counts only when explicitly true, so an unanswered or
// declined contract both block the transition.
func MissingFields(w *models.PartnershipWorkflow, fields []string) []string {
	var missing []string
	for _, field := range fields {
		if !fieldPresent(w, field) {
			missing = append(missing, field)
		}
	}
	return missing
}

func fieldPresent(w *models.PartnershipWorkflow, field string) bool {
	switch field {
	case FieldAgreedPrice:
		return w.AgreedPrice != nil
	case FieldContactEmail:
		return stringSet(w.ContactEmail)
	case FieldContactInstagram:
		return stringSet(w.ContactInstagram)
	case FieldContactWhatsapp:
		return stringSet(w.ContactWhatsapp)
	case FieldShippingAddress:
		return stringSet(w.ShippingAddress)
	case FieldShippingCity:
		return stringSet(w.ShippingCity)
	case FieldShippingZip:
		return stringSet(w.ShippingZip)
	case FieldProductSuggestion1:
		return stringSet(w.ProductSuggestion1)
	case FieldSelectedProductURL:
		return stringSet(w.SelectedProductURL)
	case FieldDesignProofURL:
		return stringSet(w.DesignProofURL)
	case FieldContractSigned:
		return w.ContractSigned != nil && *w.ContractSigned
	case FieldContractURL:
		return stringSet(w.ContractURL)
	case FieldTrackingURL:
		return stringSet(w.TrackingURL)
	case FieldCouponCode:
		return stringSet(w.CouponCode)
	default:
		return false
	}
}

func stringSet(value *string) bool {
	return value != nil && strings.TrimSpace(*value) != ""
}
