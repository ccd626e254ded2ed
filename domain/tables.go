package domain

// Table is a mongo collection name
type Table string

const (
	TableAuctions       Table = "auctions"
	TableEscrows        Table = "escrows"
	TablePayTokens      Table = "paytokens"
	TableAuctionEvents  Table = "auctionevents"
	TableLogicRevisions Table = "logicrevisions"
	TableCounters       Table = "counters"
)
