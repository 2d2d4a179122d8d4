package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portssvc "github.com/SscSPs/retail_stt_seeder/internal/core/ports/services"
	"github.com/SscSPs/retail_stt_seeder/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type VerificationServiceTestSuite struct {
	suite.Suite
	mockTxnRepo   *MockTransactionRepository
	mockItemRepo  *MockItemRepository
	mockStatsRepo *MockStatsRepository
	service       portssvc.VerificationSvc
}

func (suite *VerificationServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockItemRepo = new(MockItemRepository)
	suite.mockStatsRepo = new(MockStatsRepository)
	suite.service = services.NewVerificationService(suite.mockTxnRepo, suite.mockItemRepo, suite.mockStatsRepo, 0)
}

func (suite *VerificationServiceTestSuite) expect(txns, items int64, histogram []domain.HistogramBucket, stored, itemRevenue string, invalid, floor int64) {
	ctx := context.Background()
	suite.mockTxnRepo.On("CountTransactions", ctx).Return(txns, nil)
	suite.mockItemRepo.On("CountItems", ctx).Return(items, nil)
	suite.mockStatsRepo.On("ItemHistogram", ctx).Return(histogram, nil)
	suite.mockStatsRepo.On("RevenueTotals", ctx).Return(decimal.RequireFromString(stored), decimal.RequireFromString(itemRevenue), nil)
	suite.mockStatsRepo.On("CountInvalidItems", ctx).Return(invalid, nil)
	suite.mockStatsRepo.On("CountFloorViolations", ctx, services.DefaultVerifyFloorRatio).Return(floor, nil)
}

func (suite *VerificationServiceTestSuite) TestVerify_HealthyDataset() {
	suite.expect(100, 250, []domain.HistogramBucket{{Items: 1, Transactions: 20}, {Items: 2, Transactions: 40}, {Items: 3, Transactions: 40}},
		"10300", "10000", 0, 0)

	result, err := suite.service.Verify(context.Background(), 100)

	suite.Require().NoError(err)
	suite.True(result.Passed)
	suite.Equal(2.5, result.ItemsPerTransaction)
	suite.Zero(result.ZeroItemCount)
	suite.Equal(3.0, result.DiscrepancyPct)
	suite.Equal(domain.GradeExcellent, result.Grade)
	suite.Empty(result.Warnings)
	suite.mockStatsRepo.AssertExpectations(suite.T())
}

func (suite *VerificationServiceTestSuite) TestVerify_ItemlessTransactionsFail() {
	suite.expect(100, 190, []domain.HistogramBucket{{Items: 0, Transactions: 5}, {Items: 2, Transactions: 95}},
		"10000", "9500", 0, 0)

	result, err := suite.service.Verify(context.Background(), 100)

	suite.Require().NoError(err)
	suite.False(result.Passed)
	suite.Equal(int64(5), result.ZeroItemCount)
	suite.Require().NotEmpty(result.Warnings)
	suite.Contains(result.Warnings[0], "row-level security")
}

func (suite *VerificationServiceTestSuite) TestVerify_BelowTargetAndPoorReconciliation() {
	suite.expect(80, 160, []domain.HistogramBucket{{Items: 2, Transactions: 80}}, "12000", "10000", 2, 3)

	result, err := suite.service.Verify(context.Background(), 100)

	suite.Require().NoError(err)
	suite.False(result.Passed)
	suite.False(result.TargetMet())
	suite.Equal(20.0, result.DiscrepancyPct)
	suite.Equal(domain.GradeNeedsAttention, result.Grade)
	suite.Equal(int64(2), result.InvalidItemCount)
	suite.Equal(int64(3), result.FloorViolations)
	suite.Len(result.Warnings, 4)
}

func (suite *VerificationServiceTestSuite) TestVerify_EmptyDataset() {
	suite.expect(0, 0, []domain.HistogramBucket{}, "0", "0", 0, 0)

	result, err := suite.service.Verify(context.Background(), 0)

	suite.Require().NoError(err)
	suite.True(result.Passed)
	suite.Zero(result.ItemsPerTransaction)
	suite.Zero(result.DiscrepancyPct)
}

func (suite *VerificationServiceTestSuite) TestVerify_CountError() {
	dbErr := errors.New("connection refused")
	suite.mockTxnRepo.On("CountTransactions", context.Background()).Return(int64(0), dbErr)

	_, err := suite.service.Verify(context.Background(), 100)

	suite.Require().Error(err)
	suite.ErrorIs(err, dbErr)
	suite.mockStatsRepo.AssertNotCalled(suite.T(), "ItemHistogram")
}

func TestVerificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VerificationServiceTestSuite))
}
