package services

import (
	"fmt"

	"github.com/framewave-studio/framewave-portal-api/apperrors"
	"github.com/framewave-studio/framewave-portal-api/models"
)

// Lifecycle events for the inquiry state machine
const (
	EventReviewStarted       = "review_started"
	EventProposalCreated     = "proposal_created"
	EventRevisionRequested   = "revision_requested"
	EventProposalAccepted    = "proposal_accepted"
	EventProposalResent      = "proposal_resent"
	EventProjectSetupStarted = "project_setup_started"
	EventPaymentOrderCreated = "payment_order_created"
	EventAdvancePaid         = "advance_paid"
	EventBalancePaid         = "balance_paid"
	EventRejected            = "rejected"
	EventArchived            = "archived"
)

// Lifecycle events for the proposal state machine
const (
	EventAccept         = "accept"
	EventReject         = "reject"
	EventRequestChanges = "request_changes"
	EventResend         = "resend"
)

type transitionKey struct {
	from  string
	event string
}

// inquiryTransitions is the explicit legality table for inquiry status
// changes. Every orchestrator write consults it first; an absent entry means
// the transition is illegal and surfaces as a CONFLICT.
var inquiryTransitions = map[transitionKey]string{
	{models.InquiryStatusNew, EventReviewStarted}:                models.InquiryStatusReviewing,
	{models.InquiryStatusNew, EventProposalCreated}:              models.InquiryStatusProposalSent,
	{models.InquiryStatusReviewing, EventProposalCreated}:        models.InquiryStatusProposalSent,
	{models.InquiryStatusProposalSent, EventRevisionRequested}:   models.InquiryStatusNegotiating,
	{models.InquiryStatusProposalSent, EventProposalAccepted}:    models.InquiryStatusAccepted,
	{models.InquiryStatusNegotiating, EventProposalResent}:       models.InquiryStatusProposalSent,
	{models.InquiryStatusAccepted, EventProjectSetupStarted}:     models.InquiryStatusProjectSetup,
	{models.InquiryStatusAccepted, EventPaymentOrderCreated}:     models.InquiryStatusPaymentPending,
	{models.InquiryStatusProjectSetup, EventPaymentOrderCreated}: models.InquiryStatusPaymentPending,
	{models.InquiryStatusAccepted, EventAdvancePaid}:             models.InquiryStatusConverted,
	{models.InquiryStatusPaymentPending, EventAdvancePaid}:       models.InquiryStatusConverted,
	{models.InquiryStatusConverted, EventBalancePaid}:            models.InquiryStatusPaid,
}

// proposalTransitions is the legality table for proposal status changes
var proposalTransitions = map[transitionKey]string{
	{models.ProposalStatusSent, EventAccept}:             models.ProposalStatusAccepted,
	{models.ProposalStatusSent, EventReject}:             models.ProposalStatusRejected,
	{models.ProposalStatusSent, EventRequestChanges}:     models.ProposalStatusChangesRequested,
	{models.ProposalStatusChangesRequested, EventResend}: models.ProposalStatusSent,
}

// NextInquiryStatus resolves the target status for an inquiry event.
// Reject and archive are reachable from any non-terminal state; everything
// else must appear in the table.
func NextInquiryStatus(inquiry *models.Inquiry, event string) (string, error) {
	if event == EventRejected || event == EventArchived {
		if inquiry.IsTerminal() {
			return "", apperrors.Conflict(fmt.Sprintf(
				"Inquiry %s cannot transition from terminal status %q", inquiry.InquiryNumber, inquiry.Status))
		}
		if event == EventRejected {
			return models.InquiryStatusRejected, nil
		}
		return models.InquiryStatusArchived, nil
	}

	to, ok := inquiryTransitions[transitionKey{inquiry.Status, event}]
	if !ok {
		return "", apperrors.Conflict(fmt.Sprintf(
			"Event %q is not valid for inquiry status %q", event, inquiry.Status))
	}
	return to, nil
}

// NextProposalStatus resolves the target status for a proposal event
func NextProposalStatus(proposal *models.Proposal, event string) (string, error) {
	to, ok := proposalTransitions[transitionKey{proposal.Status, event}]
	if !ok {
		return "", apperrors.Conflict(fmt.Sprintf(
			"Event %q is not valid for proposal status %q", event, proposal.Status))
	}
	return to, nil
}
