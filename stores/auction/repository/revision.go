package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
	"github.com/bidhaus/goapi/service/query"
)

// a single record tracks the active logic revision
const revisionKey = "active"

type revisionRecord struct {
	Key              string `bson:"key"`
	auction.Revision `bson:",inline"`
}

type revisionMongoRepo struct {
	q query.Mongo
}

func NewRevisionRepo(q query.Mongo) auction.RevisionRepo {
	return &revisionMongoRepo{
		q: q,
	}
}

func (r *revisionMongoRepo) Get(ctx bCtx.Ctx) (*auction.Revision, error) {
	record := &revisionRecord{}
	if err := r.q.FindOne(ctx, domain.TableLogicRevisions, bson.M{"key": revisionKey}, record); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return &record.Revision, nil
}

func (r *revisionMongoRepo) Put(ctx bCtx.Ctx, rev *auction.Revision) error {
	record := &revisionRecord{Key: revisionKey, Revision: *rev}
	if err := r.q.Upsert(ctx, domain.TableLogicRevisions, bson.M{"key": revisionKey}, record); err != nil {
		ctx.WithField("err", err).Error("q.Upsert failed")
		return err
	}
	return nil
}
