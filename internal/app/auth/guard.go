package auth

import (
	"errors"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("auth: principal required")
	ErrForbidden       = errors.New("auth: principal lacks required group")
)

// Principal is the authenticated caller as supplied by the authorization
// collaborator. Only Groups is consulted here.
type Principal struct {
	UserID string
	Name   string
	Groups []string
}

type Operation string

const (
	OpInitBooking      Operation = "booking.init"
	OpConfirmBooking   Operation = "booking.confirm"
	OpCancelBooking    Operation = "booking.cancel"
	OpFulfillBooking   Operation = "booking.fulfill"
	OpApplyDiscount    Operation = "invoice.apply_discount"
	OpRemoveDiscount   Operation = "invoice.remove_discount"
	OpMakePayment      Operation = "invoice.make_payment"
	OpBlockMaintenance Operation = "occupancy.block_maintenance"
)

const (
	GroupAdmin    = "admin"
	GroupCustomer = "customer"
	GroupOwner    = "owner"
)

// requiredGroups is the single declarative map from operation to the groups
// allowed to perform it. An empty set means any authenticated principal.
var requiredGroups = map[Operation][]string{
	OpInitBooking:      nil,
	OpConfirmBooking:   {GroupAdmin},
	OpCancelBooking:    {GroupAdmin},
	OpFulfillBooking:   {GroupAdmin},
	OpApplyDiscount:    {GroupAdmin},
	OpRemoveDiscount:   {GroupAdmin},
	OpMakePayment:      {GroupAdmin},
	OpBlockMaintenance: {GroupAdmin},
}

// Allowed is the pure membership test gating an operation.
func Allowed(p Principal, op Operation) error {
	if p.UserID == "" {
		return ErrUnauthenticated
	}
	allowed, ok := requiredGroups[op]
	if !ok {
		return ErrForbidden
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, need := range allowed {
		for _, have := range p.Groups {
			if strings.EqualFold(have, need) {
				return nil
			}
		}
	}
	return ErrForbidden
}
