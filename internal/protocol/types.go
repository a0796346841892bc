package protocol

// Frame types sent by clients.
const (
	TypeOffer = "offer"
	TypeDone  = "done"
	TypeOrder = "order"
)

// Frame types sent by the server.
const (
	TypeSummary   = "summary"
	TypeTick      = "tick"
	TypeExecution = "execution"
	TypeError     = "error"
)

// Envelope is used for fast type extraction before full decoding.
type Envelope struct {
	Type string `json:"type"`
}

// Stock is the public projection of a listed security. Price is
// deliberately absent: the listing contract exposes identity only.
type Stock struct {
	Ticker      string `json:"ticker"`
	Description string `json:"description,omitempty"`
}

// ListResponse is the unary response of GET /v1/stocks.
type ListResponse struct {
	Stocks []Stock `json:"stocks"`
}

// OfferRequest asks the exchange to list a new security.
type OfferRequest struct {
	Type         string `json:"type"` // "offer"
	Ticker       string `json:"ticker"`
	Description  string `json:"description"`
	InitialPrice int    `json:"initial_price"` // cents
}

// OfferSummary is the single terminal response of an offer session. Rejected
// entries carry the rejection reason in the Description field.
type OfferSummary struct {
	Type     string  `json:"type"` // "summary"
	Listed   []Stock `json:"listed"`
	Rejected []Stock `json:"rejected"`
}

// PriceTick is one snapshot pushed on a follow session.
type PriceTick struct {
	Type   string `json:"type"` // "tick"
	Ticker string `json:"ticker"`
	Price  int    `json:"price"` // cents
}

// OrderRequest is one buy/sell instruction on a trade session. Amount is
// signed: positive buys, negative sells. LimitPrice nil means market order.
type OrderRequest struct {
	Type       string `json:"type"` // "order"
	Ticker     string `json:"ticker"`
	Amount     int    `json:"amount"`
	LimitPrice *int   `json:"limit_price,omitempty"` // cents
}

// ExecutionReport is pushed on a trade session when an order is processed.
type ExecutionReport struct {
	Type   string `json:"type"` // "execution"
	ID     string `json:"id"`
	Ticker string `json:"ticker"`
	Amount int    `json:"amount"`
	Price  int    `json:"price,omitempty"` // fill price, cents
	Status string `json:"status"`          // "filled", "canceled", "rejected"
}

// ErrorFrame reports a session-level error before the stream closes.
type ErrorFrame struct {
	Type    string `json:"type"` // "error"
	Code    string `json:"code"`
	Message string `json:"message"`
}
