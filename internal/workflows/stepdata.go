package workflows

import (
	"strings"

	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
)

// applyStepData copies submitted values onto the workflow. When allowed is
// non-empty only the listed fields are written; anything else in the request
// is silently ignored.
func applyStepData(w *models.PartnershipWorkflow, data *StepData, allowed []string) {
	permit := func(field string) bool {
		if len(allowed) == 0 {
			return true
		}
		for _, f := range allowed {
			if f == field {
				return true
			}
		}
		return false
	}

	if data.AgreedPrice != nil && permit(FieldAgreedPrice) {
		w.AgreedPrice = data.AgreedPrice
	}
	if data.ContactEmail != nil && permit(FieldContactEmail) {
		w.ContactEmail = data.ContactEmail
	}
	if data.ContactInstagram != nil && permit(FieldContactInstagram) {
		w.ContactInstagram = data.ContactInstagram
	}
	if data.ContactWhatsapp != nil && permit(FieldContactWhatsapp) {
		w.ContactWhatsapp = data.ContactWhatsapp
	}
	if data.ShippingAddress != nil && permit(FieldShippingAddress) {
		w.ShippingAddress = data.ShippingAddress
	}
	if data.ShippingCity != nil && permit(FieldShippingCity) {
		w.ShippingCity = data.ShippingCity
	}
	if data.ShippingZip != nil && permit(FieldShippingZip) {
		w.ShippingZip = data.ShippingZip
	}
	if data.ProductSuggestion1 != nil && permit(FieldProductSuggestion1) {
		w.ProductSuggestion1 = data.ProductSuggestion1
	}
	if data.ProductSuggestion2 != nil && permit(FieldProductSuggestion1) {
		w.ProductSuggestion2 = data.ProductSuggestion2
	}
	if data.ProductSuggestion3 != nil && permit(FieldProductSuggestion1) {
		w.ProductSuggestion3 = data.ProductSuggestion3
	}
	if data.SelectedProductURL != nil && permit(FieldSelectedProductURL) {
		w.SelectedProductURL = data.SelectedProductURL
	}
	if data.DesignProofURL != nil && permit(FieldDesignProofURL) {
		w.DesignProofURL = data.DesignProofURL
	}
	if data.PreparationNotes != nil && len(allowed) == 0 {
		w.PreparationNotes = data.PreparationNotes
	}
	if data.ContractSigned != nil && permit(FieldContractSigned) {
		w.ContractSigned = data.ContractSigned
	}
	if data.ContractURL != nil && permit(FieldContractURL) {
		w.ContractURL = data.ContractURL
	}
	if data.TrackingURL != nil && permit(FieldTrackingURL) {
		w.TrackingURL = data.TrackingURL
	}
	if data.CouponCode != nil && permit(FieldCouponCode) {
		w.CouponCode = data.CouponCode
	}
}

// recipientFor prefers the negotiated contact email, falling back to the
// influencer's record.
func recipientFor(w *models.PartnershipWorkflow, influencer *models.Influencer) string {
	if w.ContactEmail != nil && strings.TrimSpace(*w.ContactEmail) != "" {
		return strings.TrimSpace(*w.ContactEmail)
	}
	return influencer.Email
}

// buildVariables assembles the template substitution map for the step
// notification email.
func buildVariables(w *models.PartnershipWorkflow, influencer *models.Influencer, cfg StepConfig) map[string]string {
	vars := map[string]string{
		"influencerName": influencer.Name,
		"stepName":       cfg.Name,
		"nextStep":       cfg.Name,
	}
	if cfg.NextStep > 0 {
		if next, ok := ConfigForStep(cfg.NextStep); ok {
			vars["nextStep"] = next.Name
		}
	}
	if w.AgreedPrice != nil {
		vars["agreedPrice"] = w.AgreedPrice.StringFixed(2)
	}
	setVar := func(key string, value *string) {
		if value != nil && strings.TrimSpace(*value) != "" {
			vars[key] = strings.TrimSpace(*value)
		}
	}
	setVar("contactEmail", w.ContactEmail)
	setVar("contactInstagram", w.ContactInstagram)
	setVar("contactWhatsapp", w.ContactWhatsapp)
	setVar("shippingAddress", w.ShippingAddress)
	setVar("shippingCity", w.ShippingCity)
	setVar("shippingZip", w.ShippingZip)
	setVar("productSuggestion", w.ProductSuggestion1)
	setVar("selectedProductUrl", w.SelectedProductURL)
	setVar("designProofUrl", w.DesignProofURL)
	setVar("contractUrl", w.ContractURL)
	setVar("trackingUrl", w.TrackingURL)
	setVar("couponCode", w.CouponCode)
	return vars
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
