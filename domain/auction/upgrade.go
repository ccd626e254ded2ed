package auction

import (
	"time"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/domain"
)

// Logic is one revision of the auction state machine. The gate's external
// handle stays stable while the logic behind it is swapped.
type Logic interface {
	UseCase
	Version() string
	// LayoutVersion identifies the persistent state layout the logic can
	// operate on. An upgrade is rejected when layouts differ.
	LayoutVersion() int
}

// Revision is the persisted record of the active logic.
type Revision struct {
	Version       string         `json:"version" bson:"version"`
	LayoutVersion int            `json:"layoutVersion" bson:"layoutVersion"`
	UpgradedAt    time.Time      `json:"upgradedAt" bson:"upgradedAt"`
	UpgradedBy    domain.Address `json:"upgradedBy" bson:"upgradedBy"`
}

type RevisionRepo interface {
	Get(c ctx.Ctx) (*Revision, error)
	Put(c ctx.Ctx, rev *Revision) error
}

// GateUseCase is the stable handle in front of the active logic revision.
type GateUseCase interface {
	UseCase
	Upgrade(c ctx.Ctx, caller domain.Address, logic Logic) error
	ActiveVersion(c ctx.Ctx) (string, error)
}
