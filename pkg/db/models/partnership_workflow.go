package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PartnershipWorkflow struct {
	ID                 uuid.UUID            `gorm:"type:uuid;primaryKey"`
	InfluencerID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	CurrentStep        int                  `gorm:"not null;default:1"`
	Status             enums.WorkflowStatus `gorm:"type:varchar(16);not null;default:'ACTIVE'"`
	Version            int                  `gorm:"not null;default:1"`
	IsRestarted        bool                 `gorm:"not null;default:false"`
	PreviousWorkflowID *uuid.UUID           `gorm:"type:uuid"`

	// Step 1: partnership terms.
	AgreedPrice      *decimal.Decimal `gorm:"type:numeric(12,2)"`
	ContactEmail     *string          ``
	ContactInstagram *string          ``
	ContactWhatsapp  *string          ``

	// Step 2: shipping details.
	ShippingAddress    *string ``
	ShippingCity       *string ``
	ShippingZip        *string ``
	ProductSuggestion1 *string ``
	ProductSuggestion2 *string ``
	ProductSuggestion3 *string ``

	// Step 3: preparation.
	SelectedProductURL *string `gorm:"column:selected_product_url"`
	DesignProofURL     *string `gorm:"column:design_proof_url"`
	PreparationNotes   *string ``

	// Step 4: contract.
	ContractSigned *bool   ``
	ContractURL    *string `gorm:"column:contract_url"`

	// Step 5: shipment.
	TrackingURL *string `gorm:"column:tracking_url"`
	CouponCode  *string ``

	Step1CompletedAt *time.Time `gorm:"column:step1_completed_at"`
	Step2CompletedAt *time.Time `gorm:"column:step2_completed_at"`
	Step3CompletedAt *time.Time `gorm:"column:step3_completed_at"`
	Step4CompletedAt *time.Time `gorm:"column:step4_completed_at"`
	Step5CompletedAt *time.Time `gorm:"column:step5_completed_at"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (PartnershipWorkflow) TableName() string {
	return "partnership_workflows"
}

func (w *PartnershipWorkflow) BeforeCreate(_ *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// StepCompletedAt returns a pointer to the completion timestamp column for
// the given step, or nil for an unknown step.
func (w *PartnershipWorkflow) StepCompletedAt(step int) **time.Time {
	switch step {
	case 1:
		return &w.Step1CompletedAt
	case 2:
		return &w.Step2CompletedAt
	case 3:
		return &w.Step3CompletedAt
	case 4:
		return &w.Step4CompletedAt
	case 5:
		return &w.Step5CompletedAt
	default:
		return nil
	}
}
