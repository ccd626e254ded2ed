package auction

import (
	"time"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/domain"
)

type EventType string

const (
	EventTypeAuctionCreated  EventType = "auctionCreated"
	EventTypeBidAccepted     EventType = "bidAccepted"
	EventTypeAuctionEnded    EventType = "auctionEnded"
	EventTypeCurrencyFeedSet EventType = "currencyFeedSet"
	EventTypeLogicUpgraded   EventType = "logicUpgraded"
)

// Event is an append-only record for off-core indexing.
type Event struct {
	EventId   string           `json:"eventId" bson:"eventId"`
	Type      EventType        `json:"type" bson:"type"`
	AuctionId domain.AuctionId `json:"auctionId,omitempty" bson:"auctionId,omitempty"`
	Account   domain.Address   `json:"account,omitempty" bson:"account,omitempty"`
	Currency  domain.Address   `json:"currency,omitempty" bson:"currency,omitempty"`
	// Amount is the raw principal for bid events, empty otherwise
	Amount     string         `json:"amount,omitempty" bson:"amount,omitempty"`
	Normalized string         `json:"normalized,omitempty" bson:"normalized,omitempty"`
	Winner     domain.Address `json:"winner,omitempty" bson:"winner,omitempty"`
	Version    string         `json:"version,omitempty" bson:"version,omitempty"`
	Time       time.Time      `json:"time" bson:"time"`
}

type EventFindAllOptions struct {
	AuctionId *domain.AuctionId
	Type      *EventType
	Offset    *int32
	Limit     *int32
}

type EventFindAllOptionsFunc func(*EventFindAllOptions) error

func GetEventFindAllOptions(opts ...EventFindAllOptionsFunc) (EventFindAllOptions, error) {
	res := EventFindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func EventWithAuctionId(id domain.AuctionId) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		options.AuctionId = &id
		return nil
	}
}

func EventWithType(t EventType) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		options.Type = &t
		return nil
	}
}

func EventWithPagination(offset, limit int32) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

type EventRepo interface {
	Append(c ctx.Ctx, event *Event) error
	FindAll(c ctx.Ctx, opts ...EventFindAllOptionsFunc) ([]*Event, error)
}
