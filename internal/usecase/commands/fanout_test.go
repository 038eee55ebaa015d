//go:build unit

package commands

import (
	"context"
	"strings"
	"testing"
	"time"

	"edustore/internal/domain/course"
	"edustore/internal/pkg/clock"
	"edustore/internal/pkg/config"
	"edustore/internal/pkg/errs"
	"edustore/internal/pkg/signature"
	"edustore/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type FanOutTestSuite struct {
	suite.Suite
	store  *fakeStore
	sender *recordingSender
	clock  *clock.MockClock
	cmds   PurchaseCommands
	secret string

	userID   uuid.UUID
	courseID uuid.UUID
}

func TestFanOutSuite(t *testing.T) {
	suite.Run(t, new(FanOutTestSuite))
}

func (s *FanOutTestSuite) SetupTest() {
	cfg := config.NewTestConfig()
	s.secret = cfg.Gateway.KeySecret
	s.store = newFakeStore()
	s.sender = &recordingSender{}
	s.clock = clock.NewMockClock(time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC))
	s.cmds = NewPurchaseCommands(s.store, s.sender, cfg.Gateway, s.clock)

	s.userID = uuid.New()
	s.courseID = uuid.New()

	s.store.contacts[s.userID] = &shared.ContactSnapshot{
		ID:    s.userID,
		Name:  "Ravi Nair",
		Email: "ravi@example.com",
	}
	s.store.courses[s.courseID] = &shared.CourseSnapshot{
		ID:             s.courseID,
		Title:          "Banking Exams Complete",
		DurationMonths: 12,
		ListPriceCents: 800000,
		SalePriceCents: 650000,
	}
}

func (s *FanOutTestSuite) seedPurchase(orderID string) *shared.PurchaseSnapshot {
	snap := &shared.PurchaseSnapshot{
		ID:                 uuid.New(),
		UserID:             s.userID,
		CourseID:           &s.courseID,
		GatewayOrderID:     orderID,
		OriginalPriceCents: 800000,
		CreatedAt:          s.clock.Now(),
	}
	s.store.purchases[orderID] = snap
	return snap
}

func (s *FanOutTestSuite) addInclusion(kind course.InclusionKind, targetID uuid.UUID) course.Inclusion {
	inc, err := course.NewInclusion(uuid.New(), kind.String(), targetID)
	s.Require().NoError(err)
	snap := s.store.courses[s.courseID]
	snap.Inclusions = append(snap.Inclusions, inc)
	return inc
}

func (s *FanOutTestSuite) verify(orderID string) *VerifyPurchaseResult {
	result, err := s.cmds.VerifyPurchase(context.Background(), VerifyPurchaseRequest{
		GatewayOrderID:   orderID,
		GatewayPaymentID: "pay_1",
		Signature:        signature.Sign(orderID, "pay_1", s.secret),
	})
	s.Require().NoError(err)
	return result
}

func (s *FanOutTestSuite) TestMockTestInclusionGranted() {
	snap := s.seedPurchase("order_1")
	mockTestID := uuid.New()
	inc := s.addInclusion(course.InclusionMockTest, mockTestID)

	result := s.verify("order_1")

	s.Require().NotNil(result.Report)
	s.Equal(1, result.Report.Granted())
	s.Equal(inc.ID(), result.Report.Results[0].InclusionID)
	s.True(s.store.mockGrants[pairKey(s.userID, mockTestID)])

	// grant row carries the audit tag, zero amount, paid
	s.Require().Len(s.store.grantRows, 1)
	row := s.store.grantRows[0]
	s.True(row.Paid())
	s.Equal(int64(0), *row.AmountPaidCents())
	s.Contains(row.GatewayOrderID(), "inclusion_")
	s.Contains(row.GatewayOrderID(), snap.ID.String())
	s.Nil(row.SourceBundleID())
}

func (s *FanOutTestSuite) TestOwnedMockTestReportsAlreadyExisted() {
	s.seedPurchase("order_1")
	mockTestID := uuid.New()
	s.addInclusion(course.InclusionMockTest, mockTestID)
	s.store.mockGrants[pairKey(s.userID, mockTestID)] = true

	result := s.verify("order_1")

	s.Equal(0, result.Report.Granted())
	s.Equal(1, result.Report.AlreadyExisted())
	s.Empty(s.store.grantRows)
}

func (s *FanOutTestSuite) TestBundleExpansionGrantsMissingMembers() {
	s.seedPurchase("order_1")
	bundleID := uuid.New()
	owned := uuid.New()
	missing1 := uuid.New()
	missing2 := uuid.New()
	s.store.bundles[bundleID] = &shared.BundleSnapshot{
		ID:            bundleID,
		Title:         "Prelims Mock Pack",
		MemberMockIDs: []uuid.UUID{owned, missing1, missing2},
	}
	s.store.mockGrants[pairKey(s.userID, owned)] = true
	s.addInclusion(course.InclusionMockBundle, bundleID)

	result := s.verify("order_1")

	s.Equal(1, result.Report.Granted())
	s.True(s.store.bundleGrants[pairKey(s.userID, bundleID)])

	// owner of 1 of 3 members gains exactly 2 new grants
	s.Len(s.store.grantRows, 2)
	for _, row := range s.store.grantRows {
		s.Require().NotNil(row.SourceBundleID())
		s.Equal(bundleID, *row.SourceBundleID())
	}
	s.True(s.store.mockGrants[pairKey(s.userID, missing1)])
	s.True(s.store.mockGrants[pairKey(s.userID, missing2)])
}

func (s *FanOutTestSuite) TestBundleMemberGrantsCarryDistinctOrderIDs() {
	s.seedPurchase("order_1")
	bundleID := uuid.New()
	m1, m2 := uuid.New(), uuid.New()
	s.store.bundles[bundleID] = &shared.BundleSnapshot{
		ID:            bundleID,
		Title:         "Mains Mock Pack",
		MemberMockIDs: []uuid.UUID{m1, m2},
	}
	s.addInclusion(course.InclusionMockBundle, bundleID)

	result := s.verify("order_1")

	s.Equal(1, result.Report.Granted())
	s.Equal(0, result.Report.Failed())

	// every member grant carries its own gateway order id keyed by the mock test
	s.Require().Len(s.store.grantRows, 2)
	seen := map[string]bool{}
	for _, row := range s.store.grantRows {
		orderID := row.GatewayOrderID()
		s.False(seen[orderID], "gateway order id %s minted twice", orderID)
		seen[orderID] = true
		s.Contains(orderID, row.MockTestID().String())
	}
}

func (s *FanOutTestSuite) TestBundleExpansionIsRerunnable() {
	s.seedPurchase("order_1")
	bundleID := uuid.New()
	m1, m2 := uuid.New(), uuid.New()
	s.store.bundles[bundleID] = &shared.BundleSnapshot{
		ID:            bundleID,
		MemberMockIDs: []uuid.UUID{m1, m2},
	}
	s.addInclusion(course.InclusionMockBundle, bundleID)

	first := s.verify("order_1")
	s.Equal(1, first.Report.Granted())
	s.Len(s.store.grantRows, 2)

	second := s.verify("order_1")
	s.Equal(1, second.Report.AlreadyExisted())
	s.Len(s.store.grantRows, 2)
}

func (s *FanOutTestSuite) TestMissingBundleRecordedAsFailure() {
	s.seedPurchase("order_1")
	mockTestID := uuid.New()
	s.addInclusion(course.InclusionMockBundle, uuid.New()) // never seeded
	s.addInclusion(course.InclusionMockTest, mockTestID)

	result := s.verify("order_1")

	// the broken inclusion does not block the healthy one
	s.Equal(1, result.Report.Granted())
	s.Equal(1, result.Report.Failed())
	failures := result.Report.Failures()
	s.Require().Len(failures, 1)
	s.Equal("bundle not found", failures[0].Reason)
	s.True(s.store.mockGrants[pairKey(s.userID, mockTestID)])
}

func (s *FanOutTestSuite) TestSessionSeatGrantedWithContactFallback() {
	s.seedPurchase("order_1")
	sessionID := uuid.New()
	s.store.sessions[sessionID] = &shared.SessionSnapshot{
		ID:         sessionID,
		Title:      "Interview Guidance",
		PriceCents: 150000,
	}
	s.addInclusion(course.InclusionSession, sessionID)

	result := s.verify("order_1")

	s.Equal(1, result.Report.Granted())
	s.True(s.store.seats[pairKey(s.userID, sessionID)])
}

func (s *FanOutTestSuite) TestSessionSeatFailsWithoutContact() {
	s.seedPurchase("order_1")
	sessionID := uuid.New()
	s.store.sessions[sessionID] = &shared.SessionSnapshot{ID: sessionID}
	s.addInclusion(course.InclusionSession, sessionID)
	delete(s.store.contacts, s.userID)

	result := s.verify("order_1")

	s.Equal(1, result.Report.Failed())
	s.False(s.store.seats[pairKey(s.userID, sessionID)])
	failures := result.Report.Failures()
	s.Require().Len(failures, 1)
	s.True(strings.Contains(failures[0].Reason, "contact"))
}

func (s *FanOutTestSuite) TestExistingSeatReportsAlreadyExisted() {
	s.seedPurchase("order_1")
	sessionID := uuid.New()
	s.store.sessions[sessionID] = &shared.SessionSnapshot{ID: sessionID}
	s.addInclusion(course.InclusionSession, sessionID)
	s.store.seats[pairKey(s.userID, sessionID)] = true

	result := s.verify("order_1")
	s.Equal(1, result.Report.AlreadyExisted())
}

func (s *FanOutTestSuite) TestFanOutTransactionFailureDoesNotFailPurchase() {
	s.seedPurchase("order_1")
	s.addInclusion(course.InclusionMockTest, uuid.New())
	s.addInclusion(course.InclusionMockTest, uuid.New())

	// settlement and enrollment succeed; the fan-out transaction fails
	s.store.withinErr = errs.New("storage unavailable")
	s.store.withinErrOnCall = 3

	result := s.verify("order_1")
	s.NotNil(result.EnrollmentID)
	s.Equal(2, result.Report.Failed())
	for _, res := range result.Report.Results {
		s.Equal(OutcomeFailed, res.Outcome)
	}
}

func (s *FanOutTestSuite) TestDirectBundlePurchaseExpands() {
	bundleID := uuid.New()
	m1, m2 := uuid.New(), uuid.New()
	s.store.bundles[bundleID] = &shared.BundleSnapshot{
		ID:            bundleID,
		MemberMockIDs: []uuid.UUID{m1, m2},
	}
	orderID := "order_bundle"
	s.store.purchases[orderID] = &shared.PurchaseSnapshot{
		ID:                 uuid.New(),
		UserID:             s.userID,
		MockBundleID:       &bundleID,
		GatewayOrderID:     orderID,
		OriginalPriceCents: 200000,
		CreatedAt:          s.clock.Now(),
	}

	result := s.verify(orderID)

	s.Nil(result.EnrollmentID)
	s.Require().NotNil(result.Report)
	s.Equal(1, result.Report.Granted())
	s.True(s.store.bundleGrants[pairKey(s.userID, bundleID)])
	s.Len(s.store.grantRows, 2)
	s.True(s.store.purchases[orderID].Paid)
}

func (s *FanOutTestSuite) TestMixedInclusionsProcessIndependently() {
	s.seedPurchase("order_1")
	mockTestID := uuid.New()
	sessionID := uuid.New()
	bundleID := uuid.New()

	s.addInclusion(course.InclusionMockTest, mockTestID)
	s.addInclusion(course.InclusionSession, sessionID) // session never seeded
	s.store.bundles[bundleID] = &shared.BundleSnapshot{
		ID:            bundleID,
		MemberMockIDs: []uuid.UUID{uuid.New()},
	}
	s.addInclusion(course.InclusionMockBundle, bundleID)

	result := s.verify("order_1")

	s.Equal(2, result.Report.Granted())
	s.Equal(1, result.Report.Failed())
	s.Equal("session not found", result.Report.Failures()[0].Reason)
}
