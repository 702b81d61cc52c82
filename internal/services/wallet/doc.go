/*
Package wallet provides the marketplace wallet ledger.

Every user owns a single wallet with an available and a held balance
stored in minor units. The service handles:
- Balance mutations (credit, debit, hold, release)
- Refunds of earlier transactions
- Auction settlement with platform commission
- Batch refunds of losing bid deposits
- Transaction history

Each mutation updates the wallet and appends a ledger entry in one
database transaction, so a failed operation leaves both untouched.

Usage:

	svc := wallet.NewService(repo, publisher, config, metrics, logger)

	res, err := svc.AddFunds(ctx, wallet.OperationRequest{
	    UserID:  userID,
	    Amount:  1000,
	    Purpose: models.PurposeWalletTopup,
	})

	settled, err := svc.ProcessAuctionSettlement(ctx, wallet.SettlementRequest{
	    AuctionID:  auctionID,
	    WinnerID:   winnerID,
	    SellerID:   sellerID,
	    FinalPrice: 10000,
	})

Configuration:

	fee := 5.0
	config := wallet.WalletConfig{
	    DefaultCurrency:           "INR",
	    PlatformAccountID:         "platform",
	    DefaultPlatformFeePercent: &fee,
	}

Error Handling:

Client errors come from the bidmart/internal/errors package:
- ErrInvalidAmount: amount is not positive
- ErrInsufficientFunds: available balance is too low
- ErrInsufficientHeldFunds: held balance is too low
- ErrAlreadySettled: the auction was settled before
- ErrInvalidFeePercent: fee percent outside 0..100

Events:

AddFunds and DeductFunds publish wallet.transaction.completed after
commit. ProcessRefund additionally publishes wallet.refund.processed.
Publish failures are logged and never fail the operation.
*/
package wallet
