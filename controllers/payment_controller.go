package controllers

import (
	"net/http"

	"github.com/framewave-studio/framewave-portal-api/config"
	"github.com/framewave-studio/framewave-portal-api/models"
	"github.com/framewave-studio/framewave-portal-api/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreatePaymentOrderRequest selects which installment the client is paying
type CreatePaymentOrderRequest struct {
	PaymentType string `json:"payment_type" binding:"required"`
}

// CreatePaymentOrder handles POST /api/v1/proposals/:id/payments - opens a
// gateway order for the advance or balance installment
func CreatePaymentOrder(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	proposalID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req CreatePaymentOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	payment, order, svcErr := services.CreatePaymentOrder(config.GetDB(), user, proposalID, req.PaymentType)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"payment": payment,
			"order": gin.H{
				"order_id":    order.OrderID,
				"amount":      order.Amount,
				"currency":    order.Currency,
				"gateway_key": order.GatewayKey,
			},
		},
	})
}

// VerifyPaymentRequest carries the gateway's checkout callback fields
type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
}

// VerifyPayment handles POST /api/v1/payments/verify - validates the gateway
// signature and settles the payment
func VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	payment, svcErr := services.ConfirmPayment(config.GetDB(), req.GatewayOrderID, req.GatewayPaymentID, req.Signature)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payment,
	})
}

// GetPayment handles GET /api/v1/payments/:id
func GetPayment(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	paymentID, err := parseID(c, "id")
	if err != nil {
		return
	}

	db := config.GetDB()
	var payment models.Payment
	if err := db.First(&payment, paymentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Payment not found",
			},
		})
		return
	}

	var proposal models.Proposal
	if err := db.First(&proposal, payment.ProposalID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Proposal not found",
			},
		})
		return
	}

	var inquiry models.Inquiry
	if err := db.First(&inquiry, proposal.InquiryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Inquiry not found",
			},
		})
		return
	}

	if !services.CanAccessInquiry(user, &inquiry) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERMISSION_DENIED",
				"message": "You do not have permission to view this payment",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payment,
	})
}

// MarkPaymentCompleted handles POST /api/v1/payments/:id/mark-completed -
// manual settlement by a super admin when the gateway callback never arrived
func MarkPaymentCompleted(c *gin.Context) {
	paymentAdminAction(c, services.MarkPaymentCompleted)
}

// RefundPayment handles POST /api/v1/payments/:id/refund
func RefundPayment(c *gin.Context) {
	paymentAdminAction(c, services.RefundPayment)
}

func paymentAdminAction(c *gin.Context, action func(db *gorm.DB, user *models.User, paymentID uint) (*models.Payment, error)) {
	user := currentUser(c)
	if user == nil {
		return
	}

	paymentID, err := parseID(c, "id")
	if err != nil {
		return
	}

	payment, svcErr := action(config.GetDB(), user, paymentID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payment,
	})
}
