package repository

import (
	bCtx "github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/database/mongoclient"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
	"github.com/bidhaus/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

const counterName = "auctionId"

type counterRecord struct {
	Name string           `bson:"name"`
	Seq  domain.AuctionId `bson:"seq"`
}

type auctionMongoRepo struct {
	q query.Mongo
}

func NewAuctionRepo(q query.Mongo) auction.Repo {
	return &auctionMongoRepo{
		q: q,
	}
}

func (r *auctionMongoRepo) FindAll(ctx bCtx.Ctx, optFns ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	opts, err := auction.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("auction.GetFindAllOptions failed")
		return nil, err
	}

	qry := bson.M{}
	if opts.ChainId != nil {
		qry["chainId"] = *opts.ChainId
	}
	if opts.Seller != nil {
		qry["seller"] = *opts.Seller
	}
	if opts.Settled != nil {
		qry["settled"] = *opts.Settled
	}
	if opts.EndTimeLT != nil {
		qry["endTime"] = bson.M{"$lt": *opts.EndTimeLT}
	}

	offset := int32(0)
	limit := int32(0)
	if opts.Offset != nil {
		offset = *opts.Offset
	}
	if opts.Limit != nil {
		limit = *opts.Limit
	}
	sort := "-createdAt"
	if opts.SortBy != nil {
		sort = *opts.SortBy
	}

	res := []*auction.Auction{}
	if err := r.q.Search(ctx, domain.TableAuctions, int(offset), int(limit), sort, qry, &res); err != nil {
		ctx.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (r *auctionMongoRepo) FindOne(ctx bCtx.Ctx, id domain.AuctionId) (*auction.Auction, error) {
	a := &auction.Auction{}
	if err := r.q.FindOne(ctx, domain.TableAuctions, bson.M{"auctionId": id}, a); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return a, nil
}

func (r *auctionMongoRepo) Create(ctx bCtx.Ctx, a *auction.Auction) error {
	if err := r.q.Insert(ctx, domain.TableAuctions, a); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		ctx.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *auctionMongoRepo) Update(ctx bCtx.Ctx, id domain.AuctionId, patchable auction.Patchable) error {
	update, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}
	if err := r.q.Patch(ctx, domain.TableAuctions, bson.M{"auctionId": id}, update); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"auctionId": id,
		}).Error("q.Patch failed")
		return err
	}
	return nil
}

func (r *auctionMongoRepo) NextId(ctx bCtx.Ctx) (domain.AuctionId, error) {
	record := &counterRecord{}
	if err := r.q.Increment(ctx, domain.TableCounters, bson.M{"name": counterName}, record, "seq", 1); err != nil {
		ctx.WithField("err", err).Error("q.Increment failed")
		return 0, err
	}
	return record.Seq, nil
}
