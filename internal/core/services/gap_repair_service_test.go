package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portssvc "github.com/SscSPs/retail_stt_seeder/internal/core/ports/services"
	"github.com/SscSPs/retail_stt_seeder/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type GapRepairServiceTestSuite struct {
	suite.Suite
	mockTxnRepo  *MockTransactionRepository
	mockItemRepo *MockItemRepository
	service      portssvc.GapRepairSvc
}

func (suite *GapRepairServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockItemRepo = new(MockItemRepository)
	committer := services.NewBatchCommitter(testPolicy(), noSleep(nil))
	noise := services.NewNoiseModel(mustProfile(domain.ProfileMinimumItems), services.NewRand(5))
	suite.service = services.NewGapRepairService(suite.mockTxnRepo, suite.mockItemRepo, committer, noise, 0)
}

func gaps(ids ...int64) []domain.TransactionFill {
	fills := make([]domain.TransactionFill, 0, len(ids))
	for _, id := range ids {
		fills = append(fills, domain.TransactionFill{Transaction: domain.Transaction{ID: id, StoreID: 100}})
	}
	return fills
}

func (suite *GapRepairServiceTestSuite) TestRepair_ConvergesInOnePass() {
	ctx := context.Background()

	suite.mockTxnRepo.On("ListTransactionFills", ctx, 0).Return(gaps(3, 4), nil).Once()
	suite.mockTxnRepo.On("ListTransactionFills", ctx, 0).Return([]domain.TransactionFill{}, nil).Once()
	suite.mockItemRepo.On("InsertItems", ctx, mock.Anything).Return(echoItems, nil)
	suite.mockTxnRepo.On("UpdateTransactionTotals", ctx, mock.Anything).Return(echoUpdates, nil)

	result, commits, err := suite.service.Repair(ctx, testCatalog())

	suite.Require().NoError(err)
	suite.Equal(1, result.Passes)
	suite.Equal(2, result.InitialGaps)
	suite.Equal(2, result.Repaired)
	suite.Equal(2, result.TotalsUpdated)
	suite.GreaterOrEqual(result.ItemsAdded, 2)
	suite.Equal([]int{2}, result.GapsPerPass)
	suite.True(result.Converged())
	suite.NotEmpty(commits)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *GapRepairServiceTestSuite) TestRepair_NoGaps() {
	ctx := context.Background()
	suite.mockTxnRepo.On("ListTransactionFills", ctx, 0).Return([]domain.TransactionFill{}, nil).Once()

	result, commits, err := suite.service.Repair(ctx, testCatalog())

	suite.Require().NoError(err)
	suite.Zero(result.Passes)
	suite.True(result.Converged())
	suite.Empty(commits)
	suite.mockItemRepo.AssertNotCalled(suite.T(), "InsertItems", mock.Anything, mock.Anything)
}

func (suite *GapRepairServiceTestSuite) TestRepair_ResidualWhenInsertsForbidden() {
	ctx := context.Background()

	suite.mockTxnRepo.On("ListTransactionFills", ctx, 0).Return(gaps(3, 4), nil)
	suite.mockItemRepo.On("InsertItems", ctx, mock.Anything).Return(nil, errRLS)

	result, _, err := suite.service.Repair(ctx, testCatalog())

	suite.Require().NoError(err)
	suite.Equal(services.DefaultRepairPasses, result.Passes)
	suite.Equal(2, result.Residual)
	suite.Zero(result.Repaired)
	suite.False(result.Converged())
	suite.Equal([]int{2, 2, 2}, result.GapsPerPass)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpdateTransactionTotals", mock.Anything, mock.Anything)
}

func (suite *GapRepairServiceTestSuite) TestRepair_EmptyCatalog() {
	_, _, err := suite.service.Repair(context.Background(), domain.Catalog{})
	suite.ErrorIs(err, apperrors.ErrEmptyCatalog)
}

func (suite *GapRepairServiceTestSuite) TestRepair_ListError() {
	ctx := context.Background()
	suite.mockTxnRepo.On("ListTransactionFills", ctx, 0).Return(nil, errSerialize).Once()

	_, _, err := suite.service.Repair(ctx, testCatalog())

	suite.Require().Error(err)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(503, appErr.Code)
	suite.ErrorIs(err, errSerialize)
}

func TestGapRepairServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GapRepairServiceTestSuite))
}
