package repository

import (
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
	"github.com/bidhaus/goapi/service/query"
)

type eventMongoRepo struct {
	q query.Mongo
}

func NewEventRepo(q query.Mongo) auction.EventRepo {
	return &eventMongoRepo{
		q: q,
	}
}

func (r *eventMongoRepo) Append(ctx bCtx.Ctx, event *auction.Event) error {
	if event.EventId == "" {
		event.EventId = uuid.New().String()
	}
	if err := r.q.Insert(ctx, domain.TableAuctionEvents, event); err != nil {
		ctx.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *eventMongoRepo) FindAll(ctx bCtx.Ctx, optFns ...auction.EventFindAllOptionsFunc) ([]*auction.Event, error) {
	opts, err := auction.GetEventFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("auction.GetEventFindAllOptions failed")
		return nil, err
	}

	qry := bson.M{}
	if opts.AuctionId != nil {
		qry["auctionId"] = *opts.AuctionId
	}
	if opts.Type != nil {
		qry["type"] = *opts.Type
	}

	offset := int32(0)
	limit := int32(0)
	if opts.Offset != nil {
		offset = *opts.Offset
	}
	if opts.Limit != nil {
		limit = *opts.Limit
	}

	res := []*auction.Event{}
	if err := r.q.Search(ctx, domain.TableAuctionEvents, int(offset), int(limit), "-time", qry, &res); err != nil {
		ctx.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}
