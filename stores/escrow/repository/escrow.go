package repository

import (
	bCtx "github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/database/mongoclient"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/escrow"
	"github.com/bidhaus/goapi/service/query"
)

type escrowMongoRepo struct {
	q query.Mongo
}

func NewEscrowRepo(q query.Mongo) escrow.Repo {
	return &escrowMongoRepo{
		q: q,
	}
}

func (r *escrowMongoRepo) FindOne(ctx bCtx.Ctx, chainId domain.ChainId, currency, beneficiary domain.Address) (*escrow.Entry, error) {
	entry := &escrow.Entry{}
	qry, err := mongoclient.MakeBsonM(&escrow.Id{
		ChainId:     chainId,
		Currency:    currency.ToLower(),
		Beneficiary: beneficiary.ToLower(),
	})
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}
	if err := r.q.FindOne(ctx, domain.TableEscrows, qry, entry); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return entry, nil
}

func (r *escrowMongoRepo) FindAll(ctx bCtx.Ctx, chainId domain.ChainId, beneficiary domain.Address) ([]*escrow.Entry, error) {
	res := []*escrow.Entry{}
	qry, err := mongoclient.MakeBsonM(&escrow.Entry{ChainId: chainId, Beneficiary: beneficiary.ToLower()})
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}
	if err := r.q.Search(ctx, domain.TableEscrows, 0, 0, "currency", qry, &res); err != nil {
		ctx.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (r *escrowMongoRepo) Upsert(ctx bCtx.Ctx, entry *escrow.Entry) error {
	entry.Currency = entry.Currency.ToLower()
	entry.Beneficiary = entry.Beneficiary.ToLower()
	selector, err := mongoclient.MakeBsonM(entry.ToId())
	if err != nil {
		ctx.WithField("err", err).Error("failed to make bson.M")
		return err
	}
	if err := r.q.Upsert(ctx, domain.TableEscrows, selector, entry); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  entry.ToId(),
		}).Error("failed to upsert")
		return err
	}
	return nil
}

func (r *escrowMongoRepo) Remove(ctx bCtx.Ctx, chainId domain.ChainId, currency, beneficiary domain.Address) error {
	selector, err := mongoclient.MakeBsonM(&escrow.Id{
		ChainId:     chainId,
		Currency:    currency.ToLower(),
		Beneficiary: beneficiary.ToLower(),
	})
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}
	if err := r.q.Remove(ctx, domain.TableEscrows, selector); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.Remove failed")
		return err
	}
	return nil
}
