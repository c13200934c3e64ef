package workflows

import "github.com/miguelantunes/partnerflow-backend/pkg/enums"

// Step field identifiers as exposed through the API.
const (
	FieldAgreedPrice        = "agreedPrice"
	FieldContactEmail       = "contactEmail"
	FieldContactInstagram   = "contactInstagram"
	FieldContactWhatsapp    = "contactWhatsapp"
	FieldShippingAddress    = "shippingAddress"
	FieldShippingCity       = "shippingCity"
	FieldShippingZip        = "shippingZip"
	FieldProductSuggestion1 = "productSuggestion1"
	FieldSelectedProductURL = "selectedProductUrl"
	FieldDesignProofURL     = "designProofUrl"
	FieldContractSigned     = "contractSigned"
	FieldContractURL        = "contractUrl"
	FieldTrackingURL        = "trackingUrl"
	FieldCouponCode         = "couponCode"
)

const (
	FirstStep = 1
	LastStep  = 5
)

// StepConfig describes one step of the partnership workflow: the influencer
// status it corresponds to, the fields that must be filled before leaving it,
// and where the transition lands.
type StepConfig struct {
	Step          int
	Name          string
	CurrentStatus enums.InfluencerStatus
	NextStep      int
	NextStatus    enums.InfluencerStatus
	Required      []string
	// PortalFields lists the fields the influencer portal may submit for this
	// step. Empty means the step is admin-only.
	PortalFields []string
	Terminal     bool
}

var stepConfigs = map[int]StepConfig{
	1: {
		Step:          1,
		Name:          "Partnership",
		CurrentStatus: enums.InfluencerStatusNegotiating,
		NextStep:      2,
		NextStatus:    enums.InfluencerStatusAgreed,
		Required: []string{
			FieldAgreedPrice,
			FieldContactEmail,
			FieldContactInstagram,
			FieldContactWhatsapp,
		},
		PortalFields: []string{
			FieldContactEmail,
			FieldContactInstagram,
			FieldContactWhatsapp,
		},
	},
	2: {
		Step:          2,
		Name:          "Shipping",
		CurrentStatus: enums.InfluencerStatusAgreed,
		NextStep:      3,
		NextStatus:    enums.InfluencerStatusPreparing,
		Required: []string{
			FieldShippingAddress,
			FieldShippingCity,
			FieldShippingZip,
			FieldProductSuggestion1,
		},
		PortalFields: []string{
			FieldShippingAddress,
			FieldShippingCity,
			FieldShippingZip,
			FieldProductSuggestion1,
		},
	},
	3: {
		Step:          3,
		Name:          "Preparing",
		CurrentStatus: enums.InfluencerStatusPreparing,
		NextStep:      4,
		NextStatus:    enums.InfluencerStatusContractPending,
		Required: []string{
			FieldSelectedProductURL,
			FieldDesignProofURL,
		},
	},
	4: {
		Step:          4,
		Name:          "Contract",
		CurrentStatus: enums.InfluencerStatusContractPending,
		NextStep:      5,
		NextStatus:    enums.InfluencerStatusShipped,
		Required: []string{
			FieldContractSigned,
			FieldContractURL,
		},
		PortalFields: []string{
			FieldContractSigned,
		},
	},
	5: {
		Step:          5,
		Name:          "Shipped",
		CurrentStatus: enums.InfluencerStatusShipped,
		NextStatus:    enums.InfluencerStatusCompleted,
		Required: []string{
			FieldTrackingURL,
			FieldCouponCode,
		},
		Terminal: true,
	},
}

// ConfigForStep returns the static configuration for the given step.
func ConfigForStep(step int) (StepConfig, bool) {
	cfg, ok := stepConfigs[step]
	return cfg, ok
}

// PortalCanAdvance reports whether the influencer portal is permitted to
// trigger the transition out of the given step.
func PortalCanAdvance(step int) bool {
	cfg, ok := stepConfigs[step]
	return ok && len(cfg.PortalFields) > 0
}
