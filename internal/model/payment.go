package model

import "time"

// Payment statuses and methods.  Payments are a collaborator of the
// booking core: at most one per booking, referenced by status only.
const (
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
	PaymentRefunded  = "REFUNDED"
)

const (
	MethodCreditCard   = "CREDIT_CARD"
	MethodDebitCard    = "DEBIT_CARD"
	MethodBankTransfer = "BANK_TRANSFER"
)

// Payment records a settled payment for a booking.  Gateway
// integration is out of scope; the record only tracks the status a
// booking exposes to the payment flow.
//
// Fields:
//
//	ID            – primary key identifier.
//	BookingID     – booking the payment settles.
//	UserID        – paying user.
//	AmountCents   – amount paid, in cents.
//	Method        – payment method.
//	Status        – COMPLETED, FAILED or REFUNDED.
//	TransactionID – unique transaction identifier.
//	CreatedAt     – when the payment was recorded.
type Payment struct {
	ID            uint64    // payments.id
	BookingID     uint64    // payments.booking_id
	UserID        uint64    // payments.user_id
	AmountCents   int64     // payments.amount_cents
	Method        string    // payments.method
	Status        string    // payments.status
	TransactionID string    // payments.transaction_id
	CreatedAt     time.Time // payments.created_at
}
