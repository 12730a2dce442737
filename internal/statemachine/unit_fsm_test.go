package statemachine

import (
	"context"
	"errors"
	"testing"

	"github.com/realapp/realapp-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestUnitFSM_BookFromAvailable(t *testing.T) {
	unit := &models.Unit{Status: models.UnitStatusAvailable}
	ufsm := NewUnitFSM(unit)

	err := ufsm.Book(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.UnitStatusBooked, unit.Status)
}

func TestUnitFSM_BookRejectedOutsideAvailable(t *testing.T) {
	for _, status := range []string{models.UnitStatusBooked, models.UnitStatusBlocked, models.UnitStatusSold} {
		unit := &models.Unit{Status: status}
		ufsm := NewUnitFSM(unit)

		err := ufsm.Book(context.Background())
		assert.Error(t, err)

		var terr *TransitionError
		assert.True(t, errors.As(err, &terr))
		assert.Equal(t, "book", terr.Event)
		assert.Equal(t, status, terr.From)
		assert.Equal(t, status, unit.Status, "status must not change on rejected transition")
	}
}

func TestUnitFSM_ReleaseFromBooked(t *testing.T) {
	unit := &models.Unit{Status: models.UnitStatusBooked}
	ufsm := NewUnitFSM(unit)

	err := ufsm.Release(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.UnitStatusAvailable, unit.Status)
}

func TestUnitFSM_ReleaseRejectedOutsideBooked(t *testing.T) {
	for _, status := range []string{models.UnitStatusAvailable, models.UnitStatusBlocked, models.UnitStatusSold} {
		unit := &models.Unit{Status: status}
		ufsm := NewUnitFSM(unit)

		err := ufsm.Release(context.Background())
		var terr *TransitionError
		assert.True(t, errors.As(err, &terr))
		assert.Equal(t, status, unit.Status)
	}
}

func TestUnitFSM_BlockUnblock(t *testing.T) {
	unit := &models.Unit{Status: models.UnitStatusAvailable}
	ufsm := NewUnitFSM(unit)

	err := ufsm.Block(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.UnitStatusBlocked, unit.Status)

	ufsm = NewUnitFSM(unit)
	err = ufsm.Unblock(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.UnitStatusAvailable, unit.Status)
}

func TestUnitFSM_SellFromBookedOnly(t *testing.T) {
	unit := &models.Unit{Status: models.UnitStatusBooked}
	ufsm := NewUnitFSM(unit)

	err := ufsm.Sell(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.UnitStatusSold, unit.Status)

	unit = &models.Unit{Status: models.UnitStatusAvailable}
	ufsm = NewUnitFSM(unit)
	err = ufsm.Sell(context.Background())
	assert.Error(t, err)
	assert.Equal(t, models.UnitStatusAvailable, unit.Status)
}

func TestUnitFSM_Can(t *testing.T) {
	unit := &models.Unit{Status: models.UnitStatusAvailable}
	ufsm := NewUnitFSM(unit)

	assert.True(t, ufsm.Can("book"))
	assert.True(t, ufsm.Can("block"))
	assert.False(t, ufsm.Can("release"))
	assert.False(t, ufsm.Can("sell"))
}

func TestBookingFSM_SubmitAndCancel(t *testing.T) {
	booking := &models.BookingOrder{Status: models.BookingStatusDraft}
	bfsm := NewBookingFSM(booking)

	err := bfsm.Submit(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusSubmitted, booking.Status)

	bfsm = NewBookingFSM(booking)
	err = bfsm.Cancel(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)
}

func TestBookingFSM_SubmitRejectedWhenNotDraft(t *testing.T) {
	for _, status := range []string{models.BookingStatusSubmitted, models.BookingStatusCancelled} {
		booking := &models.BookingOrder{Status: status}
		bfsm := NewBookingFSM(booking)

		err := bfsm.Submit(context.Background())
		var terr *TransitionError
		assert.True(t, errors.As(err, &terr))
		assert.Equal(t, status, booking.Status)
	}
}

func TestBookingFSM_CancelRejectedWhenAlreadyCancelled(t *testing.T) {
	booking := &models.BookingOrder{Status: models.BookingStatusCancelled}
	bfsm := NewBookingFSM(booking)

	err := bfsm.Cancel(context.Background())
	assert.Error(t, err)
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)
}
