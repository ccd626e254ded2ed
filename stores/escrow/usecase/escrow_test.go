package usecase

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/escrow"
	mockEscrow "github.com/bidhaus/goapi/domain/escrow/mocks"
	mockContract "github.com/bidhaus/goapi/service/chain/contract/mocks"
)

var (
	mockCtx = ctx.Background()
)

type testsuite struct {
	suite.Suite
	mockRepo  *mockEscrow.Repo
	mockErc20 *mockContract.Erc20Contract
	subject   *impl
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.mockRepo = &mockEscrow.Repo{}
	t.mockErc20 = &mockContract.Erc20Contract{}
	t.subject = &impl{
		repo:  t.mockRepo,
		erc20: t.mockErc20,
	}
}

func (t *testsuite) TestDepositNewEntry() {
	var (
		chainId     = domain.ChainId(1)
		currency    = domain.Address("0xTOKEN")
		beneficiary = domain.Address("0xALICE")
	)

	t.mockRepo.
		On("FindOne", mockCtx, chainId, currency, beneficiary).
		Return(nil, domain.ErrNotFound)
	t.mockRepo.
		On("Upsert", mockCtx, &escrow.Entry{
			ChainId:     chainId,
			Currency:    currency.ToLower(),
			Beneficiary: beneficiary.ToLower(),
			Amount:      "500",
		}).
		Return(nil)

	t.NoError(t.subject.Deposit(mockCtx, chainId, currency, beneficiary, big.NewInt(500)))
	t.mockRepo.AssertExpectations(t.T())
}

func (t *testsuite) TestDepositAccumulates() {
	var (
		chainId     = domain.ChainId(1)
		currency    = domain.Address("0xtoken")
		beneficiary = domain.Address("0xalice")
	)

	t.mockRepo.
		On("FindOne", mockCtx, chainId, currency, beneficiary).
		Return(&escrow.Entry{
			ChainId:     chainId,
			Currency:    currency,
			Beneficiary: beneficiary,
			Amount:      "300",
		}, nil)
	t.mockRepo.
		On("Upsert", mockCtx, &escrow.Entry{
			ChainId:     chainId,
			Currency:    currency,
			Beneficiary: beneficiary,
			Amount:      "800",
		}).
		Return(nil)

	t.NoError(t.subject.Deposit(mockCtx, chainId, currency, beneficiary, big.NewInt(500)))
	t.mockRepo.AssertExpectations(t.T())
}

func (t *testsuite) TestDepositRejectsNonPositive() {
	err := t.subject.Deposit(mockCtx, 1, "0xtoken", "0xalice", big.NewInt(0))
	t.ErrorIs(err, domain.ErrBadParamInput)
	t.mockRepo.AssertNotCalled(t.T(), "Upsert")
}

func (t *testsuite) TestBalanceMissingEntryIsZero() {
	t.mockRepo.
		On("FindOne", mockCtx, domain.ChainId(1), domain.Address("0xtoken"), domain.Address("0xalice")).
		Return(nil, domain.ErrNotFound)

	val, err := t.subject.Balance(mockCtx, 1, "0xtoken", "0xalice")
	t.NoError(err)
	t.Equal(big.NewInt(0), val)
}

func (t *testsuite) TestWithdrawToken() {
	var (
		chainId  = domain.ChainId(1)
		currency = domain.Address("0xtoken")
		caller   = domain.Address("0xalice")
	)

	t.mockRepo.
		On("FindOne", mockCtx, chainId, currency, caller).
		Return(&escrow.Entry{
			ChainId:     chainId,
			Currency:    currency,
			Beneficiary: caller,
			Amount:      "1200",
		}, nil)
	t.mockErc20.
		On("Transfer", mockCtx, int32(chainId), string(currency), string(caller), big.NewInt(1200)).
		Return(domain.TxHash("0xabc"), nil)
	t.mockRepo.
		On("Remove", mockCtx, chainId, currency, caller).
		Return(nil)

	val, err := t.subject.Withdraw(mockCtx, chainId, currency, caller)
	t.NoError(err)
	t.Equal(big.NewInt(1200), val)
	t.mockRepo.AssertExpectations(t.T())
	t.mockErc20.AssertExpectations(t.T())
}

func (t *testsuite) TestWithdrawNativeUsesWrappedToken() {
	var (
		chainId = domain.ChainId(1)
		caller  = domain.Address("0xalice")
		wrapped = domain.ChainIdWrappedNativeMap[chainId]
	)

	t.mockRepo.
		On("FindOne", mockCtx, chainId, domain.EmptyAddress, caller).
		Return(&escrow.Entry{
			ChainId:     chainId,
			Currency:    domain.EmptyAddress,
			Beneficiary: caller,
			Amount:      "999",
		}, nil)
	t.mockErc20.
		On("Transfer", mockCtx, int32(chainId), string(wrapped), string(caller), big.NewInt(999)).
		Return(domain.TxHash("0xdef"), nil)
	t.mockRepo.
		On("Remove", mockCtx, chainId, domain.EmptyAddress, caller).
		Return(nil)

	val, err := t.subject.Withdraw(mockCtx, chainId, domain.EmptyAddress, caller)
	t.NoError(err)
	t.Equal(big.NewInt(999), val)
	t.mockErc20.AssertExpectations(t.T())
}

func (t *testsuite) TestWithdrawNothingOwed() {
	t.mockRepo.
		On("FindOne", mockCtx, domain.ChainId(1), domain.Address("0xtoken"), domain.Address("0xalice")).
		Return(nil, domain.ErrNotFound)

	_, err := t.subject.Withdraw(mockCtx, 1, "0xtoken", "0xalice")
	t.ErrorIs(err, domain.ErrNothingToWithdraw)
}

func (t *testsuite) TestWithdrawKeepsEntryWhenTransferFails() {
	var (
		chainId  = domain.ChainId(1)
		currency = domain.Address("0xtoken")
		caller   = domain.Address("0xalice")
	)

	t.mockRepo.
		On("FindOne", mockCtx, chainId, currency, caller).
		Return(&escrow.Entry{
			ChainId:     chainId,
			Currency:    currency,
			Beneficiary: caller,
			Amount:      "1200",
		}, nil)
	t.mockErc20.
		On("Transfer", mockCtx, int32(chainId), string(currency), string(caller), big.NewInt(1200)).
		Return(domain.TxHash(""), domain.ErrTransferFailed)

	_, err := t.subject.Withdraw(mockCtx, chainId, currency, caller)
	t.ErrorIs(err, domain.ErrTransferFailed)
	t.mockRepo.AssertNotCalled(t.T(), "Remove", mockCtx, chainId, currency, caller)
}
