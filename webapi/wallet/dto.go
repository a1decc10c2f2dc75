package wallet

// DepositRequest is the payload for starting a deposit through the payment
// gateway. Amount is in the minor currency unit (kobo).
type DepositRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// TransferRequest is the payload for an internal wallet-to-wallet transfer.
type TransferRequest struct {
	WalletNumber string `json:"wallet_number" validate:"required,len=13,numeric"`
	Amount       int64  `json:"amount" validate:"required,gt=0"`
}
