package usecase

import (
	"math/big"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/escrow"
	"github.com/bidhaus/goapi/service/chain/contract"
)

type impl struct {
	repo  escrow.Repo
	erc20 contract.Erc20Contract
}

func New(repo escrow.Repo, erc20 contract.Erc20Contract) escrow.UseCase {
	return &impl{repo: repo, erc20: erc20}
}

func (im *impl) Deposit(c ctx.Ctx, chainId domain.ChainId, currency, beneficiary domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return domain.ErrBadParamInput
	}

	balance := big.NewInt(0)
	entry, err := im.repo.FindOne(c, chainId, currency, beneficiary)
	if err != nil && err != domain.ErrNotFound {
		c.WithField("err", err).Error("repo.FindOne failed")
		return err
	}
	if entry != nil {
		if balance, err = entry.AmountBig(); err != nil {
			c.WithFields(log.Fields{
				"err":    err,
				"amount": entry.Amount,
			}).Error("entry.AmountBig failed")
			return err
		}
	}

	balance = new(big.Int).Add(balance, amount)
	if err := im.repo.Upsert(c, &escrow.Entry{
		ChainId:     chainId,
		Currency:    currency.ToLower(),
		Beneficiary: beneficiary.ToLower(),
		Amount:      balance.String(),
	}); err != nil {
		c.WithField("err", err).Error("repo.Upsert failed")
		return err
	}
	return nil
}

func (im *impl) Balance(c ctx.Ctx, chainId domain.ChainId, currency, beneficiary domain.Address) (*big.Int, error) {
	entry, err := im.repo.FindOne(c, chainId, currency, beneficiary)
	if err == domain.ErrNotFound {
		return big.NewInt(0), nil
	} else if err != nil {
		c.WithField("err", err).Error("repo.FindOne failed")
		return nil, err
	}
	return entry.AmountBig()
}

// Withdraw pays out the caller's full balance of a currency and clears the
// entry. The transfer must succeed before the entry is touched.
func (im *impl) Withdraw(c ctx.Ctx, chainId domain.ChainId, currency, caller domain.Address) (*big.Int, error) {
	entry, err := im.repo.FindOne(c, chainId, currency, caller)
	if err == domain.ErrNotFound {
		return nil, domain.ErrNothingToWithdraw
	} else if err != nil {
		c.WithField("err", err).Error("repo.FindOne failed")
		return nil, err
	}

	amount, err := entry.AmountBig()
	if err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"amount": entry.Amount,
		}).Error("entry.AmountBig failed")
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, domain.ErrNothingToWithdraw
	}

	token, ok := domain.CustodyToken(chainId, currency)
	if !ok {
		c.WithField("chainId", chainId).Error("no wrapped native token for chain")
		return nil, domain.ErrTransferFailed
	}
	if _, err := im.erc20.Transfer(c, int32(chainId), string(token), string(caller), amount); err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"currency": currency,
			"caller":   caller,
			"amount":   amount.String(),
		}).Error("erc20.Transfer failed")
		return nil, domain.ErrTransferFailed
	}

	if err := im.repo.Remove(c, chainId, currency, caller); err != nil && err != domain.ErrNotFound {
		c.WithField("err", err).Error("repo.Remove failed")
		return nil, err
	}

	return amount, nil
}
