package workflows

import (
	"time"

	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
	"github.com/miguelantunes/partnerflow-backend/pkg/outbox"
	"github.com/shopspring/decimal"
)

// StepData carries optional field updates submitted alongside an advance.
// Nil pointers leave the stored value untouched.
type StepData struct {
	AgreedPrice        *decimal.Decimal `json:"agreedPrice,omitempty"`
	ContactEmail       *string          `json:"contactEmail,omitempty"`
	ContactInstagram   *string          `json:"contactInstagram,omitempty"`
	ContactWhatsapp    *string          `json:"contactWhatsapp,omitempty"`
	ShippingAddress    *string          `json:"shippingAddress,omitempty"`
	ShippingCity       *string          `json:"shippingCity,omitempty"`
	ShippingZip        *string          `json:"shippingZip,omitempty"`
	ProductSuggestion1 *string          `json:"productSuggestion1,omitempty"`
	ProductSuggestion2 *string          `json:"productSuggestion2,omitempty"`
	ProductSuggestion3 *string          `json:"productSuggestion3,omitempty"`
	SelectedProductURL *string          `json:"selectedProductUrl,omitempty"`
	DesignProofURL     *string          `json:"designProofUrl,omitempty"`
	PreparationNotes   *string          `json:"preparationNotes,omitempty"`
	ContractSigned     *bool            `json:"contractSigned,omitempty"`
	ContractURL        *string          `json:"contractUrl,omitempty"`
	TrackingURL        *string          `json:"trackingUrl,omitempty"`
	CouponCode         *string          `json:"couponCode,omitempty"`
}

// AdvanceInput is the admin-side advance request.
type AdvanceInput struct {
	WorkflowID uuid.UUID
	Data       *StepData
	Actor      *outbox.ActorRef
}

// PortalAdvanceInput is the influencer-side advance request, scoped to the
// token's influencer rather than a workflow id.
type PortalAdvanceInput struct {
	InfluencerID uuid.UUID
	Data         *StepData
}

// RestartInput starts a fresh run from a finished workflow.
type RestartInput struct {
	WorkflowID uuid.UUID
	Actor      *outbox.ActorRef
}

// AttachCouponInput sets or clears the workflow's coupon code.
type AttachCouponInput struct {
	WorkflowID uuid.UUID
	CouponCode *string
	Actor      *outbox.ActorRef
}

// CreateInput spawns the initial workflow for an influencer.
type CreateInput struct {
	InfluencerID uuid.UUID
	Actor        *outbox.ActorRef
}

// AdvanceResult reports the outcome of a transition.
type AdvanceResult struct {
	Workflow    *WorkflowDTO `json:"workflow"`
	Message     string       `json:"message"`
	EmailQueued bool         `json:"emailQueued"`
}

// WorkflowDTO is the API projection of a workflow row.
type WorkflowDTO struct {
	ID                 uuid.UUID            `json:"id"`
	InfluencerID       uuid.UUID            `json:"influencerId"`
	CurrentStep        int                  `json:"currentStep"`
	StepName           string               `json:"stepName"`
	Status             enums.WorkflowStatus `json:"status"`
	Version            int                  `json:"version"`
	IsRestarted        bool                 `json:"isRestarted"`
	PreviousWorkflowID *uuid.UUID           `json:"previousWorkflowId,omitempty"`

	AgreedPrice        *decimal.Decimal `json:"agreedPrice,omitempty"`
	ContactEmail       *string          `json:"contactEmail,omitempty"`
	ContactInstagram   *string          `json:"contactInstagram,omitempty"`
	ContactWhatsapp    *string          `json:"contactWhatsapp,omitempty"`
	ShippingAddress    *string          `json:"shippingAddress,omitempty"`
	ShippingCity       *string          `json:"shippingCity,omitempty"`
	ShippingZip        *string          `json:"shippingZip,omitempty"`
	ProductSuggestion1 *string          `json:"productSuggestion1,omitempty"`
	ProductSuggestion2 *string          `json:"productSuggestion2,omitempty"`
	ProductSuggestion3 *string          `json:"productSuggestion3,omitempty"`
	SelectedProductURL *string          `json:"selectedProductUrl,omitempty"`
	DesignProofURL     *string          `json:"designProofUrl,omitempty"`
	PreparationNotes   *string          `json:"preparationNotes,omitempty"`
	ContractSigned     *bool            `json:"contractSigned,omitempty"`
	ContractURL        *string          `json:"contractUrl,omitempty"`
	TrackingURL        *string          `json:"trackingUrl,omitempty"`
	CouponCode         *string          `json:"couponCode,omitempty"`

	Step1CompletedAt *time.Time `json:"step1CompletedAt,omitempty"`
	Step2CompletedAt *time.Time `json:"step2CompletedAt,omitempty"`
	Step3CompletedAt *time.Time `json:"step3CompletedAt,omitempty"`
	Step4CompletedAt *time.Time `json:"step4CompletedAt,omitempty"`
	Step5CompletedAt *time.Time `json:"step5CompletedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toDTO(w *models.PartnershipWorkflow) *WorkflowDTO {
	if w == nil {
		return nil
	}
	stepName := ""
	if cfg, ok := ConfigForStep(w.CurrentStep); ok {
		stepName = cfg.Name
	}
	return &WorkflowDTO{
		ID:                 w.ID,
		InfluencerID:       w.InfluencerID,
		CurrentStep:        w.CurrentStep,
		StepName:           stepName,
		Status:             w.Status,
		Version:            w.Version,
		IsRestarted:        w.IsRestarted,
		PreviousWorkflowID: w.PreviousWorkflowID,
		AgreedPrice:        w.AgreedPrice,
		ContactEmail:       w.ContactEmail,
		ContactInstagram:   w.ContactInstagram,
		ContactWhatsapp:    w.ContactWhatsapp,
		ShippingAddress:    w.ShippingAddress,
		ShippingCity:       w.ShippingCity,
		ShippingZip:        w.ShippingZip,
		ProductSuggestion1: w.ProductSuggestion1,
		ProductSuggestion2: w.ProductSuggestion2,
		ProductSuggestion3: w.ProductSuggestion3,
		SelectedProductURL: w.SelectedProductURL,
		DesignProofURL:     w.DesignProofURL,
		PreparationNotes:   w.PreparationNotes,
		ContractSigned:     w.ContractSigned,
		ContractURL:        w.ContractURL,
		TrackingURL:        w.TrackingURL,
		CouponCode:         w.CouponCode,
		Step1CompletedAt:   w.Step1CompletedAt,
		Step2CompletedAt:   w.Step2CompletedAt,
		Step3CompletedAt:   w.Step3CompletedAt,
		Step4CompletedAt:   w.Step4CompletedAt,
		Step5CompletedAt:   w.Step5CompletedAt,
		CreatedAt:          w.CreatedAt,
		UpdatedAt:          w.UpdatedAt,
	}
}
