package observability

// Metric name prefixes
const (
	MetricPrefix = "wheelhouse"
)

// Metric names
const (
	// Spin metrics
	SpinsSettledTotal = MetricPrefix + ".spins.settled_total"
	SpinsStakedTotal  = MetricPrefix + ".spins.staked_total"
	SpinsPayoutTotal  = MetricPrefix + ".spins.payout_total"
	PocketsDrawnTotal = MetricPrefix + ".pockets.drawn_total"

	// Wager metrics
	WagersPlacedTotal = MetricPrefix + ".wagers.placed_total"

	// Ledger metrics
	LedgerEntriesTotal = MetricPrefix + ".ledger.entries_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelType    = "type"
	LabelResult  = "result"
	LabelColor   = "color"
	LabelKind    = "kind"
	LabelSubject = "subject"
)

// Spin results
const (
	ResultWin  = "win"
	ResultLoss = "loss"
	ResultPush = "push"
)
