package api

import (
	"errors"
	"net/http"

	reqdto "edustore/internal/handler/dto/request"
	resdto "edustore/internal/handler/dto/response"
	"edustore/internal/handler/httperr"
	"edustore/internal/handler/middleware"
	"edustore/internal/pkg/errs"
	"edustore/internal/usecase/commands"
	"edustore/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchaseCommands commands.PurchaseCommands
	purchaseQueries  queries.PurchaseQueries
}

func NewPurchaseHandler(purchaseCommands commands.PurchaseCommands, purchaseQueries queries.PurchaseQueries) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseCommands: purchaseCommands,
		purchaseQueries:  purchaseQueries,
	}
}

// Verify is the payment gateway callback target. A 200 means the purchase is
// settled and entitlements are durable; the gateway retries anything else.
func (h *PurchaseHandler) Verify(c *gin.Context) {
	var req reqdto.VerifyPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.purchaseCommands.VerifyPurchase(c.Request.Context(), commands.VerifyPurchaseRequest{
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		Signature:        req.Signature,
		CouponCode:       req.CouponCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBadSignature):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Signature verification failed", nil)
		case errors.Is(err, commands.ErrPurchaseNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "No purchase found for this order", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromVerifyResult(result))
}

func (h *PurchaseHandler) GetByOrderID(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing auth context"), "Unauthorized", nil)
		return
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing role context"), "Unauthorized", nil)
		return
	}

	orderID := c.Param("orderId")
	if orderID == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.New("empty order id"), "Order ID is required", nil)
		return
	}

	view, err := h.purchaseQueries.GetByOrderID(c.Request.Context(), orderID, userID, role)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrPurchaseNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Purchase not found", nil)
		case errors.Is(err, queries.ErrPurchaseAccess):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Not allowed to view this purchase", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromPurchaseView(view))
}
