package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedRequiresPrincipal(t *testing.T) {
	err := Allowed(Principal{}, OpInitBooking)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAllowedAnyAuthenticatedMayInit(t *testing.T) {
	p := Principal{UserID: "user-1", Groups: []string{GroupCustomer}}
	assert.NoError(t, Allowed(p, OpInitBooking))

	// No groups at all is still an authenticated principal.
	assert.NoError(t, Allowed(Principal{UserID: "user-2"}, OpInitBooking))
}

func TestAllowedAdminOperations(t *testing.T) {
	admin := Principal{UserID: "admin-1", Groups: []string{GroupAdmin}}
	customer := Principal{UserID: "user-1", Groups: []string{GroupCustomer, GroupOwner}}

	adminOps := []Operation{
		OpConfirmBooking,
		OpCancelBooking,
		OpFulfillBooking,
		OpApplyDiscount,
		OpRemoveDiscount,
		OpMakePayment,
		OpBlockMaintenance,
	}
	for _, op := range adminOps {
		assert.NoError(t, Allowed(admin, op), "admin on %s", op)
		assert.ErrorIs(t, Allowed(customer, op), ErrForbidden, "customer on %s", op)
	}
}

func TestAllowedGroupMatchIsCaseInsensitive(t *testing.T) {
	p := Principal{UserID: "admin-1", Groups: []string{"ADMIN"}}
	assert.NoError(t, Allowed(p, OpConfirmBooking))
}

func TestAllowedUnknownOperation(t *testing.T) {
	p := Principal{UserID: "admin-1", Groups: []string{GroupAdmin}}
	assert.ErrorIs(t, Allowed(p, Operation("booking.purge")), ErrForbidden)
}
