package request

// VerifyPurchaseRequest carries the payment gateway's callback payload: the
// order/payment pair and the HMAC signature computed over them.
type VerifyPurchaseRequest struct {
	GatewayOrderID   string  `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string  `json:"gateway_payment_id" binding:"required"`
	Signature        string  `json:"gateway_signature" binding:"required"`
	CouponCode       *string `json:"coupon_code"`
}
