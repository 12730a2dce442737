package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/realapp/realapp-api/internal/models"
)

// BookingFSM wraps a booking order with its state machine
type BookingFSM struct {
	booking *models.BookingOrder
	fsm     *fsm.FSM
}

// NewBookingFSM creates a new booking order state machine
func NewBookingFSM(booking *models.BookingOrder) *BookingFSM {
	bfsm := &BookingFSM{
		booking: booking,
	}

	bfsm.fsm = fsm.NewFSM(
		booking.Status,
		fsm.Events{
			// draft → submitted
			{Name: "submit", Src: []string{models.BookingStatusDraft}, Dst: models.BookingStatusSubmitted},

			// submitted → cancelled
			{Name: "cancel", Src: []string{models.BookingStatusSubmitted}, Dst: models.BookingStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return bfsm
}

// Submit transitions booking order to submitted state
func (b *BookingFSM) Submit(ctx context.Context) error {
	if !b.booking.MaySubmit() {
		return &TransitionError{Entity: "booking order", Event: "submit", From: b.booking.Status}
	}

	if err := b.fsm.Event(ctx, "submit"); err != nil {
		return fmt.Errorf("failed to submit booking order: %w", err)
	}

	b.booking.Status = b.fsm.Current()
	return nil
}

// Cancel transitions booking order to cancelled state
func (b *BookingFSM) Cancel(ctx context.Context) error {
	if !b.booking.MayCancel() {
		return &TransitionError{Entity: "booking order", Event: "cancel", From: b.booking.Status}
	}

	if err := b.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel booking order: %w", err)
	}

	b.booking.Status = b.fsm.Current()
	return nil
}

// Current returns the current state
func (b *BookingFSM) Current() string {
	return b.fsm.Current()
}

// Can checks if a transition is possible
func (b *BookingFSM) Can(event string) bool {
	return b.fsm.Can(event)
}
