package services

import (
	"fmt"
	"time"

	"github.com/framewave-studio/framewave-portal-api/apperrors"
	"github.com/framewave-studio/framewave-portal-api/models"
	"gorm.io/gorm"
)

// The lifecycle orchestrator is the only component permitted to mutate the
// inquiry and proposal state machines in one logical operation. Every
// two-entity change runs inside a single database transaction: both rows
// change together or not at all. Best-effort side channels (activity log,
// notifications) run after commit and never fail the primary operation.

// DeliverableInput is one proposal line item supplied by the admin
type DeliverableInput struct {
	Name                    string `json:"name"`
	Description             string `json:"description"`
	EstimatedCompletionWeek int    `json:"estimated_completion_week"`
}

// ProposalInput carries the mutable fields of a proposal
type ProposalInput struct {
	Description       string             `json:"description"`
	Deliverables      []DeliverableInput `json:"deliverables"`
	Currency          string             `json:"currency"`
	TotalPrice        int64              `json:"total_price"`
	AdvancePercentage int                `json:"advance_percentage"`
	RevisionsIncluded int                `json:"revisions_included"`
}

// InquiryInput carries the fields of a new inquiry submission
type InquiryInput struct {
	ContactName          string `json:"contact_name"`
	ContactEmail         string `json:"contact_email"`
	ContactCompany       string `json:"contact_company"`
	ContactPhone         string `json:"contact_phone"`
	ProjectNotes         string `json:"project_notes"`
	Niche                string `json:"niche"`
	Audience             string `json:"audience"`
	Style                string `json:"style"`
	Mood                 string `json:"mood"`
	DurationSeconds      int    `json:"duration_seconds"`
	RecommendedVideoType string `json:"recommended_video_type"`
}

// ContactInput carries the independently editable contact snapshot fields
type ContactInput struct {
	ContactName    string `json:"contact_name"`
	ContactEmail   string `json:"contact_email"`
	ContactCompany string `json:"contact_company"`
	ContactPhone   string `json:"contact_phone"`
	ProjectNotes   string `json:"project_notes"`
}

// ValidateProposalInput checks the create/update invariants and returns one
// FieldError per violation
func ValidateProposalInput(input *ProposalInput) []apperrors.FieldError {
	var fields []apperrors.FieldError

	if input.Description == "" {
		fields = append(fields, apperrors.FieldError{Field: "description", Message: "must not be empty"})
	}
	if len(input.Deliverables) == 0 {
		fields = append(fields, apperrors.FieldError{Field: "deliverables", Message: "at least one deliverable is required"})
	}
	for i, d := range input.Deliverables {
		if d.Name == "" {
			fields = append(fields, apperrors.FieldError{
				Field: fmt.Sprintf("deliverables[%d].name", i), Message: "must not be empty"})
		}
		if d.Description == "" {
			fields = append(fields, apperrors.FieldError{
				Field: fmt.Sprintf("deliverables[%d].description", i), Message: "must not be empty"})
		}
		if d.EstimatedCompletionWeek < 1 {
			fields = append(fields, apperrors.FieldError{
				Field: fmt.Sprintf("deliverables[%d].estimated_completion_week", i), Message: "must be at least 1"})
		}
	}
	if input.TotalPrice <= 0 {
		fields = append(fields, apperrors.FieldError{Field: "total_price", Message: "must be greater than zero"})
	}
	if !IsAllowedAdvancePercentage(input.AdvancePercentage) {
		fields = append(fields, apperrors.FieldError{Field: "advance_percentage", Message: "must be 40, 50 or 60"})
	}
	if input.Currency != models.CurrencyINR && input.Currency != models.CurrencyUSD {
		fields = append(fields, apperrors.FieldError{Field: "currency", Message: "must be INR or USD"})
	}
	if input.RevisionsIncluded < 0 {
		fields = append(fields, apperrors.FieldError{Field: "revisions_included", Message: "must not be negative"})
	}

	return fields
}

// CreateInquiry records a new inquiry submission. When the submitter has an
// account, the inquiry is owned by them; anonymous submissions have no owner.
func CreateInquiry(db *gorm.DB, input *InquiryInput, submitter *models.User) (*models.Inquiry, error) {
	var fields []apperrors.FieldError
	if input.ContactName == "" {
		fields = append(fields, apperrors.FieldError{Field: "contact_name", Message: "must not be empty"})
	}
	if input.ContactEmail == "" {
		fields = append(fields, apperrors.FieldError{Field: "contact_email", Message: "must not be empty"})
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation("Invalid inquiry submission", fields...)
	}

	inquiry := &models.Inquiry{
		Status:               models.InquiryStatusNew,
		ContactName:          input.ContactName,
		ContactEmail:         input.ContactEmail,
		ContactCompany:       input.ContactCompany,
		ContactPhone:         input.ContactPhone,
		ProjectNotes:         input.ProjectNotes,
		Niche:                input.Niche,
		Audience:             input.Audience,
		Style:                input.Style,
		Mood:                 input.Mood,
		DurationSeconds:      input.DurationSeconds,
		RecommendedVideoType: input.RecommendedVideoType,
	}
	if submitter != nil {
		inquiry.ClientUserID = &submitter.ID
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// The inquiry number is derived from a count taken inside the
		// transaction so concurrent submissions cannot collide
		var count int64
		if err := tx.Model(&models.Inquiry{}).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to allocate inquiry number", err)
		}
		inquiry.InquiryNumber = fmt.Sprintf("INQ-%d-%04d", time.Now().Year(), count+1)

		if err := tx.Create(inquiry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to create inquiry", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return inquiry, nil
}

// UpdateInquiryContact edits the contact snapshot. The snapshot is
// independently editable only while the inquiry is still new.
func UpdateInquiryContact(db *gorm.DB, user *models.User, inquiryID uint, input *ContactInput) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	if err := db.First(&inquiry, inquiryID).Error; err != nil {
		return nil, apperrors.NotFound("Inquiry")
	}

	if !CanAccessInquiry(user, &inquiry) {
		return nil, apperrors.Forbidden("You do not have permission to edit this inquiry")
	}
	if inquiry.Status != models.InquiryStatusNew {
		return nil, apperrors.Conflict("Contact details can only be edited while the inquiry is new")
	}
	if input.ContactName == "" || input.ContactEmail == "" {
		return nil, apperrors.Validation("Invalid contact details",
			apperrors.FieldError{Field: "contact_name", Message: "contact name and email must not be empty"})
	}

	updates := map[string]interface{}{
		"contact_name":    input.ContactName,
		"contact_email":   input.ContactEmail,
		"contact_company": input.ContactCompany,
		"contact_phone":   input.ContactPhone,
		"project_notes":   input.ProjectNotes,
	}
	if err := db.Model(&inquiry).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to update inquiry", err)
	}

	return &inquiry, nil
}

// StartInquiryReview moves a new inquiry into review
func StartInquiryReview(db *gorm.DB, user *models.User, inquiryID uint) (*models.Inquiry, error) {
	if !user.IsStaff() {
		return nil, apperrors.Forbidden("Only staff can review inquiries")
	}

	var inquiry models.Inquiry
	if err := db.First(&inquiry, inquiryID).Error; err != nil {
		return nil, apperrors.NotFound("Inquiry")
	}

	next, err := NextInquiryStatus(&inquiry, EventReviewStarted)
	if err != nil {
		return nil, err
	}

	if err := db.Model(&inquiry).Update("status", next).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to update inquiry", err)
	}

	RecordActivity(db, "inquiry.review_started", user, &inquiry.ID, nil)
	return &inquiry, nil
}

// RejectInquiry marks an inquiry rejected from any non-terminal state
func RejectInquiry(db *gorm.DB, user *models.User, inquiryID uint) (*models.Inquiry, error) {
	if !user.IsStaff() {
		return nil, apperrors.Forbidden("Only staff can reject inquiries")
	}

	var inquiry models.Inquiry
	if err := db.First(&inquiry, inquiryID).Error; err != nil {
		return nil, apperrors.NotFound("Inquiry")
	}

	next, err := NextInquiryStatus(&inquiry, EventRejected)
	if err != nil {
		return nil, err
	}

	if err := db.Model(&inquiry).Update("status", next).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to update inquiry", err)
	}

	RecordActivity(db, "inquiry.rejected", user, &inquiry.ID, nil)
	return &inquiry, nil
}

// ArchiveInquiry archives an inquiry from any non-terminal state
func ArchiveInquiry(db *gorm.DB, user *models.User, inquiryID uint) (*models.Inquiry, error) {
	if !user.IsStaff() {
		return nil, apperrors.Forbidden("Only staff can archive inquiries")
	}

	var inquiry models.Inquiry
	if err := db.First(&inquiry, inquiryID).Error; err != nil {
		return nil, apperrors.NotFound("Inquiry")
	}

	next, err := NextInquiryStatus(&inquiry, EventArchived)
	if err != nil {
		return nil, err
	}

	if err := db.Model(&inquiry).Update("status", next).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to update inquiry", err)
	}

	RecordActivity(db, "inquiry.archived", user, &inquiry.ID, nil)
	return &inquiry, nil
}

// CreateProposal creates the first proposal for an inquiry and moves the
// inquiry to proposal_sent, setting its proposal pointer in the same write
func CreateProposal(db *gorm.DB, user *models.User, inquiryID uint, input *ProposalInput) (*models.Proposal, error) {
	if !CanCreateProposal(user) {
		return nil, apperrors.Forbidden("Only a super admin can create proposals")
	}

	var inquiry models.Inquiry
	if err := db.First(&inquiry, inquiryID).Error; err != nil {
		return nil, apperrors.NotFound("Inquiry")
	}

	// One live proposal pointer per inquiry; a revision reuses it
	if inquiry.ProposalID != nil {
		return nil, apperrors.Conflict("Inquiry already has a proposal; resend a revision instead")
	}

	next, err := NextInquiryStatus(&inquiry, EventProposalCreated)
	if err != nil {
		return nil, err
	}

	if fields := ValidateProposalInput(input); len(fields) > 0 {
		return nil, apperrors.Validation("Invalid proposal", fields...)
	}

	pricing, err := ComputePricing(input.TotalPrice, input.AdvancePercentage)
	if err != nil {
		return nil, err
	}

	proposal := &models.Proposal{
		InquiryID:         inquiry.ID,
		Status:            models.ProposalStatusSent,
		Version:           1,
		Description:       input.Description,
		Currency:          input.Currency,
		TotalPrice:        input.TotalPrice,
		AdvancePercentage: input.AdvancePercentage,
		AdvanceAmount:     pricing.AdvanceAmount,
		BalanceAmount:     pricing.BalanceAmount,
		RevisionsIncluded: input.RevisionsIncluded,
		Deliverables:      buildDeliverables(input.Deliverables),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(proposal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to create proposal", err)
		}

		// Status and side payload change in a single update call
		updates := map[string]interface{}{
			"status":      next,
			"proposal_id": proposal.ID,
		}
		if err := tx.Model(&inquiry).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to update inquiry", err)
		}

		edit := models.ProposalEdit{
			ProposalID:     proposal.ID,
			EditorID:       user.ID,
			EditorName:     user.Name,
			Forced:         false,
			PreviousStatus: models.ProposalStatusSent,
		}
		if err := tx.Create(&edit).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to record proposal edit", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	RecordActivity(db, "proposal.created", user, &proposal.ID, map[string]interface{}{
		"inquiry_id":  inquiry.ID,
		"total_price": proposal.TotalPrice,
	})
	notifyInquiryOwner(&inquiry, NotificationEvent{
		Type:    "proposal.sent",
		Title:   "Your proposal is ready",
		Message: fmt.Sprintf("A proposal has been prepared for inquiry %s", inquiry.InquiryNumber),
	})

	return proposal, nil
}

// UpdateProposal edits a proposal under the edit-lock policy. A force edit
// bypasses the lock for privileged roles and must carry a justification; it
// is recorded with the actor and the status it overrode.
func UpdateProposal(db *gorm.DB, user *models.User, proposalID uint, input *ProposalInput, force bool, justification string) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := db.First(&proposal, proposalID).Error; err != nil {
		return nil, apperrors.NotFound("Proposal")
	}

	if force {
		if !CanForceEdit(user) {
			return nil, apperrors.Forbidden("Only a super admin can force-edit a locked proposal")
		}
		if justification == "" {
			return nil, apperrors.Validation("Force edits require a justification",
				apperrors.FieldError{Field: "justification", Message: "must not be empty"})
		}
	} else {
		if !user.IsStaff() {
			return nil, apperrors.Forbidden("You do not have permission to edit this proposal")
		}
		if proposal.Status != models.ProposalStatusChangesRequested {
			return nil, apperrors.Conflict(fmt.Sprintf(
				"Proposal is locked while status is %q; only a revision cycle allows edits", proposal.Status))
		}
	}

	if fields := ValidateProposalInput(input); len(fields) > 0 {
		return nil, apperrors.Validation("Invalid proposal", fields...)
	}

	pricing, err := ComputePricing(input.TotalPrice, input.AdvancePercentage)
	if err != nil {
		return nil, err
	}

	previousStatus := proposal.Status

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"description":        input.Description,
			"currency":           input.Currency,
			"total_price":        input.TotalPrice,
			"advance_percentage": input.AdvancePercentage,
			"advance_amount":     pricing.AdvanceAmount,
			"balance_amount":     pricing.BalanceAmount,
			"revisions_included": input.RevisionsIncluded,
		}
		if err := tx.Model(&proposal).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to update proposal", err)
		}

		// Replace the deliverable list wholesale to preserve its order
		if err := tx.Where("proposal_id = ?", proposal.ID).Delete(&models.Deliverable{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to replace deliverables", err)
		}
		deliverables := buildDeliverables(input.Deliverables)
		for i := range deliverables {
			deliverables[i].ProposalID = proposal.ID
		}
		if err := tx.Create(&deliverables).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to replace deliverables", err)
		}

		edit := models.ProposalEdit{
			ProposalID:     proposal.ID,
			EditorID:       user.ID,
			EditorName:     user.Name,
			Forced:         force,
			PreviousStatus: previousStatus,
			Justification:  justification,
		}
		if err := tx.Create(&edit).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to record proposal edit", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	RecordActivity(db, "proposal.updated", user, &proposal.ID, map[string]interface{}{
		"forced":          force,
		"previous_status": previousStatus,
	})

	if err := db.Preload("Deliverables").First(&proposal, proposal.ID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to load proposal", err)
	}
	return &proposal, nil
}

// ResendProposal sends a revised proposal back to the client. The status
// change and the version bump are atomic: a version bump without the status
// change, or vice versa, never happens.
func ResendProposal(db *gorm.DB, user *models.User, proposalID uint) (*models.Proposal, error) {
	if !CanCreateProposal(user) {
		return nil, apperrors.Forbidden("Only a super admin can resend proposals")
	}

	var proposal models.Proposal
	if err := db.First(&proposal, proposalID).Error; err != nil {
		return nil, apperrors.NotFound("Proposal")
	}

	var inquiry models.Inquiry
	if err := db.First(&inquiry, proposal.InquiryID).Error; err != nil {
		return nil, apperrors.NotFound("Inquiry")
	}

	nextProposal, err := NextProposalStatus(&proposal, EventResend)
	if err != nil {
		return nil, err
	}
	nextInquiry, err := NextInquiryStatus(&inquiry, EventProposalResent)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":  nextProposal,
			"version": proposal.Version + 1,
		}
		if err := tx.Model(&proposal).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to update proposal", err)
		}
		if err := tx.Model(&inquiry).Update("status", nextInquiry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to update inquiry", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	RecordActivity(db, "proposal.resent", user, &proposal.ID, map[string]interface{}{
		"version": proposal.Version,
	})
	notifyInquiryOwner(&inquiry, NotificationEvent{
		Type:    "proposal.resent",
		Title:   "Your proposal has been revised",
		Message: fmt.Sprintf("Proposal for inquiry %s was updated to version %d", inquiry.InquiryNumber, proposal.Version),
	})

	return &proposal, nil
}

// AcceptProposal records the client's acceptance. Proposal and inquiry
// change together or not at all.
func AcceptProposal(db *gorm.DB, user *models.User, proposalID uint) (*models.Proposal, error) {
	return respondToProposal(db, user, proposalID, EventAccept, EventProposalAccepted, "")
}

// RejectProposal records the client's rejection with their feedback
func RejectProposal(db *gorm.DB, user *models.User, proposalID uint, feedback string) (*models.Proposal, error) {
	return respondToProposal(db, user, proposalID, EventReject, EventRejected, feedback)
}

// RequestProposalChanges starts a revision cycle with the client's feedback
func RequestProposalChanges(db *gorm.DB, user *models.User, proposalID uint, feedback string) (*models.Proposal, error) {
	return respondToProposal(db, user, proposalID, EventRequestChanges, EventRevisionRequested, feedback)
}

// respondToProposal implements the three client actions. Each is a
// two-entity transaction over the proposal and its inquiry.
func respondToProposal(db *gorm.DB, user *models.User, proposalID uint, proposalEvent, inquiryEvent, feedback string) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := db.First(&proposal, proposalID).Error; err != nil {
		return nil, apperrors.NotFound("Proposal")
	}

	var inquiry models.Inquiry
	if err := db.First(&inquiry, proposal.InquiryID).Error; err != nil {
		return nil, apperrors.NotFound("Inquiry")
	}

	if !CanRespondToProposal(user, &inquiry) {
		return nil, apperrors.Forbidden("You do not have permission to respond to this proposal")
	}

	nextProposal, err := NextProposalStatus(&proposal, proposalEvent)
	if err != nil {
		return nil, err
	}
	nextInquiry, err := NextInquiryStatus(&inquiry, inquiryEvent)
	if err != nil {
		return nil, err
	}

	if (proposalEvent == EventReject || proposalEvent == EventRequestChanges) && feedback == "" {
		return nil, apperrors.Validation("Feedback is required",
			apperrors.FieldError{Field: "feedback", Message: "must not be empty"})
	}

	now := time.Now()
	proposalUpdates := map[string]interface{}{"status": nextProposal}
	switch proposalEvent {
	case EventAccept:
		proposalUpdates["accepted_at"] = &now
	case EventReject:
		proposalUpdates["rejected_at"] = &now
		proposalUpdates["feedback"] = feedback
	case EventRequestChanges:
		proposalUpdates["feedback"] = feedback
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&proposal).Updates(proposalUpdates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to update proposal", err)
		}
		if err := tx.Model(&inquiry).Update("status", nextInquiry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to update inquiry", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	RecordActivity(db, "proposal."+proposalEvent, user, &proposal.ID, map[string]interface{}{
		"inquiry_id": inquiry.ID,
		"feedback":   feedback,
	})

	return &proposal, nil
}

// CreatePaymentOrder registers a gateway order for the advance or balance
// portion of an accepted proposal and records the local pending payment. A
// gateway failure leaves no local record.
func CreatePaymentOrder(db *gorm.DB, user *models.User, proposalID uint, paymentType string) (*models.Payment, *GatewayOrder, error) {
	var proposal models.Proposal
	if err := db.First(&proposal, proposalID).Error; err != nil {
		return nil, nil, apperrors.NotFound("Proposal")
	}

	var inquiry models.Inquiry
	if err := db.First(&inquiry, proposal.InquiryID).Error; err != nil {
		return nil, nil, apperrors.NotFound("Inquiry")
	}

	if !CanAccessInquiry(user, &inquiry) {
		return nil, nil, apperrors.Forbidden("You do not have permission to pay for this proposal")
	}
	if proposal.Status != models.ProposalStatusAccepted {
		return nil, nil, apperrors.Conflict("Payments can only be created for an accepted proposal")
	}

	var amount int64
	var inquiryEvent string
	switch paymentType {
	case models.PaymentTypeAdvance:
		amount = proposal.AdvanceAmount
		inquiryEvent = EventPaymentOrderCreated
	case models.PaymentTypeBalance:
		amount = proposal.BalanceAmount
		inquiryEvent = ""
	default:
		return nil, nil, apperrors.Validation("Invalid payment type",
			apperrors.FieldError{Field: "payment_type", Message: "must be advance or balance"})
	}

	// An open pending payment of the same type blocks a second order
	var pending int64
	if err := db.Model(&models.Payment{}).
		Where("proposal_id = ? AND payment_type = ? AND status = ?", proposal.ID, paymentType, models.PaymentStatusPending).
		Count(&pending).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to check payments", err)
	}
	if pending > 0 {
		return nil, nil, apperrors.Conflict("A pending payment of this type already exists")
	}

	var nextInquiry string
	if inquiryEvent != "" {
		next, err := NextInquiryStatus(&inquiry, inquiryEvent)
		if err != nil {
			return nil, nil, err
		}
		nextInquiry = next
	}

	gateway := GetPaymentGateway()
	receipt := fmt.Sprintf("prop-%d-%s", proposal.ID, paymentType)
	order, err := gateway.CreateOrder(amount, proposal.Currency, receipt)
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return nil, nil, err
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrCodeGateway, "Payment gateway rejected the order", err)
	}

	payment := &models.Payment{
		ProposalID:     proposal.ID,
		PaymentType:    paymentType,
		Amount:         amount,
		Currency:       proposal.Currency,
		Status:         models.PaymentStatusPending,
		GatewayOrderID: order.OrderID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to create payment", err)
		}
		if nextInquiry != "" {
			if err := tx.Model(&inquiry).Update("status", nextInquiry).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to update inquiry", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	RecordActivity(db, "payment.order_created", user, &payment.ID, map[string]interface{}{
		"proposal_id":  proposal.ID,
		"payment_type": paymentType,
		"amount":       amount,
	})

	return payment, order, nil
}

// ConfirmPayment verifies the gateway signature and, on success, marks the
// payment completed and converts the inquiry. An invalid signature marks the
// payment failed and leaves the inquiry untouched.
func ConfirmPayment(db *gorm.DB, gatewayOrderID, gatewayPaymentID, signature string) (*models.Payment, error) {
	var payment models.Payment
	if err := db.Where("gateway_order_id = ?", gatewayOrderID).First(&payment).Error; err != nil {
		return nil, apperrors.NotFound("Payment")
	}

	if payment.Status != models.PaymentStatusPending {
		return nil, apperrors.Conflict(fmt.Sprintf("Payment is already %s", payment.Status))
	}

	gateway := GetPaymentGateway()
	if !gateway.VerifySignature(gatewayOrderID, gatewayPaymentID, signature) {
		if err := db.Model(&payment).Update("status", models.PaymentStatusFailed).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to update payment", err)
		}
		return nil, apperrors.New(apperrors.ErrCodeGateway, "Payment signature verification failed")
	}

	return settlePayment(db, &payment, gatewayPaymentID)
}

// MarkPaymentCompleted is the admin manual-mark action for out-of-band
// payments (e.g. bank transfer)
func MarkPaymentCompleted(db *gorm.DB, user *models.User, paymentID uint) (*models.Payment, error) {
	if user.Role != models.RoleSuperAdmin {
		return nil, apperrors.Forbidden("Only a super admin can mark payments completed")
	}

	var payment models.Payment
	if err := db.First(&payment, paymentID).Error; err != nil {
		return nil, apperrors.NotFound("Payment")
	}
	if payment.Status != models.PaymentStatusPending {
		return nil, apperrors.Conflict(fmt.Sprintf("Payment is already %s", payment.Status))
	}

	settled, err := settlePayment(db, &payment, "")
	if err != nil {
		return nil, err
	}

	RecordActivity(db, "payment.marked_completed", user, &payment.ID, nil)
	return settled, nil
}

// RefundPayment marks a completed payment refunded
func RefundPayment(db *gorm.DB, user *models.User, paymentID uint) (*models.Payment, error) {
	if user.Role != models.RoleSuperAdmin {
		return nil, apperrors.Forbidden("Only a super admin can refund payments")
	}

	var payment models.Payment
	if err := db.First(&payment, paymentID).Error; err != nil {
		return nil, apperrors.NotFound("Payment")
	}
	if payment.Status != models.PaymentStatusCompleted {
		return nil, apperrors.Conflict("Only completed payments can be refunded")
	}

	if err := db.Model(&payment).Update("status", models.PaymentStatusRefunded).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to update payment", err)
	}

	RecordActivity(db, "payment.refunded", user, &payment.ID, nil)
	return &payment, nil
}

// settlePayment completes a pending payment and advances the inquiry: an
// advance payment converts the inquiry into a project, a balance payment
// settles it as paid. All rows change in one transaction.
func settlePayment(db *gorm.DB, payment *models.Payment, gatewayPaymentID string) (*models.Payment, error) {
	var proposal models.Proposal
	if err := db.First(&proposal, payment.ProposalID).Error; err != nil {
		return nil, apperrors.NotFound("Proposal")
	}

	var inquiry models.Inquiry
	if err := db.First(&inquiry, proposal.InquiryID).Error; err != nil {
		return nil, apperrors.NotFound("Inquiry")
	}

	inquiryEvent := EventAdvancePaid
	if payment.PaymentType == models.PaymentTypeBalance {
		inquiryEvent = EventBalancePaid
	}

	nextInquiry, err := NextInquiryStatus(&inquiry, inquiryEvent)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		paymentUpdates := map[string]interface{}{
			"status":       models.PaymentStatusCompleted,
			"completed_at": &now,
		}
		if gatewayPaymentID != "" {
			paymentUpdates["gateway_payment_id"] = gatewayPaymentID
		}
		if err := tx.Model(payment).Updates(paymentUpdates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to update payment", err)
		}

		inquiryUpdates := map[string]interface{}{"status": nextInquiry}
		if inquiryEvent == EventAdvancePaid {
			projectName := inquiry.RecommendedVideoType
			if projectName == "" {
				projectName = "Video project"
			}
			project := models.Project{
				InquiryID:  inquiry.ID,
				ProposalID: proposal.ID,
				Name:       fmt.Sprintf("%s (%s)", projectName, inquiry.InquiryNumber),
				Status:     "active",
			}
			if err := tx.Create(&project).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to create project", err)
			}
			inquiryUpdates["converted_to_project_id"] = project.ID
			inquiryUpdates["converted_at"] = &now
		}
		if err := tx.Model(&inquiry).Updates(inquiryUpdates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to update inquiry", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifyInquiryOwner(&inquiry, NotificationEvent{
		Type:    "payment.completed",
		Title:   "Payment received",
		Message: fmt.Sprintf("Your %s payment for inquiry %s is confirmed", payment.PaymentType, inquiry.InquiryNumber),
	})

	return payment, nil
}

// buildDeliverables converts inputs preserving list order
func buildDeliverables(inputs []DeliverableInput) []models.Deliverable {
	deliverables := make([]models.Deliverable, 0, len(inputs))
	for i, d := range inputs {
		deliverables = append(deliverables, models.Deliverable{
			Name:                    d.Name,
			Description:             d.Description,
			EstimatedCompletionWeek: d.EstimatedCompletionWeek,
			Position:                i,
		})
	}
	return deliverables
}

// notifyInquiryOwner sends a fire-and-forget notification to the inquiry's
// owner, when one is recorded and a notifier is configured
func notifyInquiryOwner(inquiry *models.Inquiry, event NotificationEvent) {
	notifier := GetNotifier()
	if notifier == nil || inquiry.ClientUserID == nil {
		return
	}
	event.UserID = *inquiry.ClientUserID
	event.TargetEntityID = &inquiry.ID
	notifier.Notify(event)
}
