//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"edustore/internal/domain/user"
	"edustore/internal/handler/api"
	resdto "edustore/internal/handler/dto/response"
	"edustore/internal/usecase/commands"
	"edustore/internal/usecase/queries"
	"edustore/tests/common/httptest"
	"edustore/tests/common/testutil"
	commandsmock "edustore/tests/mock/commands"
	queriesmock "edustore/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PurchaseHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPurchaseCommands
	mockQueries  *queriesmock.MockPurchaseQueries
	handler      *api.PurchaseHandler

	requesterID   uuid.UUID
	requesterRole user.Role
}

func (s *PurchaseHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPurchaseCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockPurchaseQueries(s.mockCtrl)
	s.handler = api.NewPurchaseHandler(s.mockCommands, s.mockQueries)

	s.requesterID = uuid.New()
	s.requesterRole = user.RoleStudent

	s.router.POST("/purchases/verify", s.handler.Verify)
	s.router.GET("/purchases/:orderId", func(c *gin.Context) {
		// Mock middleware behavior for authenticated lookups
		c.Set("user_id", s.requesterID)
		c.Set("user_role", s.requesterRole)
		s.handler.GetByOrderID(c)
	})
}

func (s *PurchaseHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPurchaseHandlerSuite(t *testing.T) {
	suite.Run(t, new(PurchaseHandlerTestSuite))
}

func verifyBody() map[string]any {
	return map[string]any{
		"gateway_order_id":   "order_abc",
		"gateway_payment_id": "pay_abc",
		"gateway_signature":  "deadbeef",
	}
}

func (s *PurchaseHandlerTestSuite) TestVerify() {
	url := "/purchases/verify"

	s.Run("success: returns 200 OK with entitlement report", func() {
		purchaseID := uuid.New()
		enrollmentID := uuid.New()
		report := &commands.FanOutReport{Results: []commands.InclusionResult{{
			InclusionID: uuid.New(),
			TargetID:    uuid.New(),
			Outcome:     commands.OutcomeGranted,
		}}}
		s.mockCommands.EXPECT().VerifyPurchase(gomock.Any(), gomock.Any()).
			Return(&commands.VerifyPurchaseResult{
				PurchaseID:   purchaseID,
				EnrollmentID: &enrollmentID,
				Report:       report,
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, verifyBody(), "")

		var response resdto.VerifyPurchaseResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(purchaseID, response.PurchaseID)
		s.Require().NotNil(response.EnrollmentID)
		s.Equal(enrollmentID, *response.EnrollmentID)
		s.Len(response.Inclusions, 1)
		s.Equal("granted", response.Inclusions[0].Outcome)
	})

	s.Run("success: replayed callback reports replayed flag", func() {
		s.mockCommands.EXPECT().VerifyPurchase(gomock.Any(), gomock.Any()).
			Return(&commands.VerifyPurchaseResult{PurchaseID: uuid.New(), Replayed: true}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, verifyBody(), "")

		var response resdto.VerifyPurchaseResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.Replayed)
	})

	s.Run("success: passes coupon code through to the command", func() {
		body := verifyBody()
		body["coupon_code"] = "LAUNCH15"

		s.mockCommands.EXPECT().VerifyPurchase(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req commands.VerifyPurchaseRequest) (*commands.VerifyPurchaseResult, error) {
				s.Require().NotNil(req.CouponCode)
				s.Equal("LAUNCH15", *req.CouponCode)
				return &commands.VerifyPurchaseResult{PurchaseID: uuid.New()}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request on missing required fields", func() {
		cases := []func(map[string]any){
			testutil.Field("gateway_order_id", nil),
			testutil.Field("gateway_payment_id", nil),
			testutil.Field("gateway_signature", nil),
		}
		for _, mutate := range cases {
			body := verifyBody()
			mutate(body)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "bad signature",
				commandsError:  commands.ErrBadSignature,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Signature verification failed",
			},
			{
				name:           "unknown order",
				commandsError:  commands.ErrPurchaseNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "No purchase found for this order",
			},
			{
				name:           "storage failure",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().VerifyPurchase(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, verifyBody(), "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *PurchaseHandlerTestSuite) TestGetByOrderID() {
	url := "/purchases/order_abc"

	s.Run("success: returns the purchase view", func() {
		paidAt := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
		view := &queries.PurchaseView{
			ID:                 uuid.New(),
			UserID:             s.requesterID,
			GatewayOrderID:     "order_abc",
			TargetKind:         "course",
			TargetTitle:        "Quant Aptitude Masterclass",
			Paid:               true,
			OriginalPriceCents: 500000,
			PaidAt:             &paidAt,
		}
		s.mockQueries.EXPECT().GetByOrderID(gomock.Any(), "order_abc", s.requesterID, user.RoleStudent).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")

		var response resdto.PurchaseResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("order_abc", response.GatewayOrderID)
		s.Equal("Quant Aptitude Masterclass", response.TargetTitle)
	})

	s.Run("error: 404 when the order is unknown", func() {
		s.mockQueries.EXPECT().GetByOrderID(gomock.Any(), "order_abc", s.requesterID, user.RoleStudent).
			Return(nil, queries.ErrPurchaseNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Purchase not found")
	})

	s.Run("error: 403 when the requester does not own the purchase", func() {
		s.mockQueries.EXPECT().GetByOrderID(gomock.Any(), "order_abc", s.requesterID, user.RoleStudent).
			Return(nil, queries.ErrPurchaseAccess).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Not allowed")
	})

	s.Run("error: staff requester is passed through with its role", func() {
		s.requesterRole = user.RoleStaff
		defer func() { s.requesterRole = user.RoleStudent }()

		s.mockQueries.EXPECT().GetByOrderID(gomock.Any(), "order_abc", s.requesterID, user.RoleStaff).
			Return(&queries.PurchaseView{GatewayOrderID: "order_abc"}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})
}
