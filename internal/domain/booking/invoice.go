package booking

import (
	"errors"
	"time"

	"skipper/internal/domain/shared/money"
)

var (
	ErrDiscountNotFound = errors.New("booking: discount not found")
	ErrOverpayment      = errors.New("booking: payment exceeds outstanding balance")
	ErrInvalidAmount    = errors.New("booking: amount must be positive")
)

type PaymentStatus string

const (
	PaymentAwaiting    PaymentStatus = "AWAITING_PAYMENT"
	PaymentPartialPaid PaymentStatus = "PARTIAL_PAID"
	PaymentPaid        PaymentStatus = "PAID"
)

type Discount struct {
	ID     string
	Code   string
	Amount money.Money
}

type Payment struct {
	ID     string
	Amount money.Money
	PaidAt time.Time
}

// Invoice tracks the commercial side of a booking. TotalAmount, PaidAmount,
// Balance and PaymentStatus are always recomputed from the regular amount,
// the discounts and the payments; they are never set directly.
type Invoice struct {
	RegularAmount money.Money
	Discounts     []Discount
	TotalAmount   money.Money
	Payments      []Payment
	PaidAmount    money.Money
	Balance       money.Money
	Currency      string
	PaymentStatus PaymentStatus
}

func NewInvoice(regular money.Money) Invoice {
	inv := Invoice{
		RegularAmount: regular,
		Currency:      regular.Currency,
	}
	inv.recalculate()
	return inv
}

func (inv *Invoice) ApplyDiscount(id string, amount money.Money, code string) error {
	if amount.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !amount.SameCurrency(inv.RegularAmount) {
		return money.ErrCurrencyMismatch
	}
	inv.Discounts = append(inv.Discounts, Discount{ID: id, Code: code, Amount: amount})
	inv.recalculate()
	return nil
}

func (inv *Invoice) RemoveDiscount(id string) error {
	idx := -1
	for i, d := range inv.Discounts {
		if d.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrDiscountNotFound
	}
	inv.Discounts = append(inv.Discounts[:idx], inv.Discounts[idx+1:]...)
	inv.recalculate()
	return nil
}

// MakePayment records a payment against the invoice. Payments in a foreign
// currency are rejected, as is any non-positive payment and any payment that
// would push the paid amount past the total.
func (inv *Invoice) MakePayment(id string, amount money.Money, paidAt time.Time) error {
	if amount.Amount <= 0 {
		return ErrInvalidAmount
	}
	if amount.Currency != inv.Currency {
		return money.ErrCurrencyMismatch
	}
	paid := inv.paidTotal() + amount.Amount
	if paid > inv.TotalAmount.Amount {
		return ErrOverpayment
	}
	inv.Payments = append(inv.Payments, Payment{ID: id, Amount: amount, PaidAt: paidAt.UTC()})
	inv.recalculate()
	return nil
}

func (inv *Invoice) paidTotal() int64 {
	var sum int64
	for _, p := range inv.Payments {
		sum += p.Amount.Amount
	}
	return sum
}

func (inv *Invoice) discountTotal() int64 {
	var sum int64
	for _, d := range inv.Discounts {
		sum += d.Amount.Amount
	}
	return sum
}

func (inv *Invoice) recalculate() {
	currency := inv.Currency
	if currency == "" {
		currency = inv.RegularAmount.Currency
		inv.Currency = currency
	}
	total := inv.RegularAmount.Amount - inv.discountTotal()
	paid := inv.paidTotal()
	inv.TotalAmount = money.Money{Amount: total, Currency: currency}
	inv.PaidAmount = money.Money{Amount: paid, Currency: currency}
	inv.Balance = money.Money{Amount: total - paid, Currency: currency}
	switch {
	case paid == 0:
		inv.PaymentStatus = PaymentAwaiting
	case paid < total:
		inv.PaymentStatus = PaymentPartialPaid
	default:
		inv.PaymentStatus = PaymentPaid
	}
}
