package usecase

import (
	"math/big"
	"sync"
	"time"

	"golang.org/x/xerrors"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
)

var timeNow = time.Now

// gate is the stable handle callers hold while the logic behind it is
// swapped. Everything except Upgrade and ActiveVersion delegates to the
// active revision.
type gate struct {
	mu        sync.RWMutex
	active    auction.Logic
	revisions auction.RevisionRepo
	events    auction.EventRepo
	admin     domain.Address
}

// New builds the gate, activating the recorded logic revision when one is
// persisted. A record naming an unregistered revision is a refusal to start.
func New(c ctx.Ctx, initial auction.Logic, registered map[string]auction.Logic, revisions auction.RevisionRepo, events auction.EventRepo, admin domain.Address) (auction.GateUseCase, error) {
	g := &gate{
		active:    initial,
		revisions: revisions,
		events:    events,
		admin:     admin,
	}
	rev, err := revisions.Get(c)
	if err == domain.ErrNotFound {
		if err := revisions.Put(c, &auction.Revision{
			Version:       initial.Version(),
			LayoutVersion: initial.LayoutVersion(),
			UpgradedAt:    timeNow(),
		}); err != nil {
			c.WithField("err", err).Error("revisions.Put failed")
			return nil, err
		}
	} else if err != nil {
		c.WithField("err", err).Error("revisions.Get failed")
		return nil, err
	} else if rev.Version != initial.Version() {
		logic, ok := registered[rev.Version]
		if !ok {
			c.WithField("recorded", rev.Version).Error("recorded logic revision is not registered")
			return nil, xerrors.Errorf("recorded logic revision %s is not registered", rev.Version)
		}
		c.WithFields(log.Fields{
			"recorded": rev.Version,
			"injected": initial.Version(),
		}).Info("activating recorded logic revision")
		g.active = logic
	}
	return g, nil
}

func (g *gate) logic() auction.Logic {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active
}

func (g *gate) GetAuction(c ctx.Ctx, id domain.AuctionId) (*auction.Auction, error) {
	return g.logic().GetAuction(c, id)
}

func (g *gate) FindAll(c ctx.Ctx, opts ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	return g.logic().FindAll(c, opts...)
}

func (g *gate) PlaceBid(c ctx.Ctx, id domain.AuctionId, bidder, currency domain.Address, amount *big.Int) (*auction.Auction, error) {
	return g.logic().PlaceBid(c, id, bidder, currency, amount)
}

func (g *gate) EndAuction(c ctx.Ctx, id domain.AuctionId) (*auction.Auction, error) {
	return g.logic().EndAuction(c, id)
}

func (g *gate) WithdrawRefund(c ctx.Ctx, caller, currency domain.Address) (*big.Int, error) {
	return g.logic().WithdrawRefund(c, caller, currency)
}

// Upgrade swaps the active logic. The replacement must understand the
// persisted state layout; records written by the old logic are never
// migrated or dropped.
func (g *gate) Upgrade(c ctx.Ctx, caller domain.Address, logic auction.Logic) error {
	if !caller.Equals(g.admin) {
		return domain.ErrUnauthorized
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if logic.LayoutVersion() != g.active.LayoutVersion() {
		c.WithFields(log.Fields{
			"active":      g.active.LayoutVersion(),
			"replacement": logic.LayoutVersion(),
		}).Warn("rejecting upgrade with incompatible layout")
		return domain.ErrIncompatibleLayout
	}

	now := timeNow()
	rev := &auction.Revision{
		Version:       logic.Version(),
		LayoutVersion: logic.LayoutVersion(),
		UpgradedAt:    now,
		UpgradedBy:    caller.ToLower(),
	}
	if err := g.revisions.Put(c, rev); err != nil {
		c.WithField("err", err).Error("revisions.Put failed")
		return err
	}

	g.active = logic

	if err := g.events.Append(c, &auction.Event{
		Type:    auction.EventTypeLogicUpgraded,
		Account: caller.ToLower(),
		Version: logic.Version(),
		Time:    now,
	}); err != nil {
		c.WithField("err", err).Warn("events.Append failed")
	}

	c.WithField("version", logic.Version()).Info("logic upgraded")
	return nil
}

func (g *gate) ActiveVersion(c ctx.Ctx) (string, error) {
	return g.logic().Version(), nil
}
