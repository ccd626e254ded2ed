package escrow

import (
	"math/big"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/domain"
)

// Entry holds funds owed to an outbid participant, keyed by
// (currency, beneficiary) and shared across every auction of the factory.
type Entry struct {
	ChainId     domain.ChainId `json:"chainId" bson:"chainId"`
	Currency    domain.Address `json:"currency" bson:"currency"`
	Beneficiary domain.Address `json:"beneficiary" bson:"beneficiary"`
	// Amount is a base-unit integer string
	Amount string `json:"amount" bson:"amount"`
}

func (e *Entry) AmountBig() (*big.Int, error) {
	return domain.ToBigInt(e.Amount)
}

type Id struct {
	ChainId     domain.ChainId `bson:"chainId"`
	Currency    domain.Address `bson:"currency"`
	Beneficiary domain.Address `bson:"beneficiary"`
}

func (e *Entry) ToId() *Id {
	return &Id{
		ChainId:     e.ChainId,
		Currency:    e.Currency,
		Beneficiary: e.Beneficiary,
	}
}

type Repo interface {
	FindOne(c ctx.Ctx, chainId domain.ChainId, currency, beneficiary domain.Address) (*Entry, error)
	FindAll(c ctx.Ctx, chainId domain.ChainId, beneficiary domain.Address) ([]*Entry, error)
	Upsert(c ctx.Ctx, entry *Entry) error
	Remove(c ctx.Ctx, chainId domain.ChainId, currency, beneficiary domain.Address) error
}

// UseCase is the escrow vault. Deposits come from the state machine when a
// bid is superseded; withdrawals are pull-based and caller initiated.
//
// Deposit reads the current balance and writes the sum back without any
// locking of its own. Callers must serialize ledger mutations; the auction
// state machine does this under its mutex.
type UseCase interface {
	Deposit(c ctx.Ctx, chainId domain.ChainId, currency, beneficiary domain.Address, amount *big.Int) error
	Balance(c ctx.Ctx, chainId domain.ChainId, currency, beneficiary domain.Address) (*big.Int, error)
	Withdraw(c ctx.Ctx, chainId domain.ChainId, currency, caller domain.Address) (*big.Int, error)
}
