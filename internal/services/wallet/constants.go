package wallet

import "time"

// Default configuration values
const (
	DefaultCurrency           = "INR"
	DefaultPlatformAccountID  = "platform"
	DefaultPlatformFeePercent = 5.0
	DefaultHistoryLimit       = 20
	MaxHistoryLimit           = 100
)

// Reference types recorded on ledger entries
const (
	ReferenceAuction     = "auction"
	ReferenceBid         = "bid"
	ReferenceTransaction = "transaction"
)

// Operation names used in logs and metrics
const (
	opAddFunds     = "add_funds"
	opDeductFunds  = "deduct_funds"
	opHoldFunds    = "hold_funds"
	opReleaseFunds = "release_funds"
	opRefund       = "process_refund"
	opSettlement   = "process_auction_settlement"
	opBidRefunds   = "refund_auction_bids"
	opGetBalance   = "get_balance"
	opHistory      = "get_transaction_history"
)

var defaultNow = func() time.Time { return time.Now().UTC() }
