package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/realapp/realapp-api/internal/models"
)

// TransitionError reports a rejected state transition with enough context
// for callers to map it to an API error.
type TransitionError struct {
	Entity string
	Event  string
	From   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s cannot %s in current state: %s", e.Entity, e.Event, e.From)
}

// UnitFSM wraps a unit with its state machine
type UnitFSM struct {
	unit *models.Unit
	fsm  *fsm.FSM
}

// NewUnitFSM creates a new unit state machine
func NewUnitFSM(unit *models.Unit) *UnitFSM {
	ufsm := &UnitFSM{
		unit: unit,
	}

	ufsm.fsm = fsm.NewFSM(
		unit.Status,
		fsm.Events{
			// available → booked
			{Name: "book", Src: []string{models.UnitStatusAvailable}, Dst: models.UnitStatusBooked},

			// booked → available (booking cancelled)
			{Name: "release", Src: []string{models.UnitStatusBooked}, Dst: models.UnitStatusAvailable},

			// available → blocked
			{Name: "block", Src: []string{models.UnitStatusAvailable}, Dst: models.UnitStatusBlocked},

			// blocked → available
			{Name: "unblock", Src: []string{models.UnitStatusBlocked}, Dst: models.UnitStatusAvailable},

			// booked → sold
			{Name: "sell", Src: []string{models.UnitStatusBooked}, Dst: models.UnitStatusSold},
		},
		fsm.Callbacks{},
	)

	return ufsm
}

// Book transitions unit to booked state
func (u *UnitFSM) Book(ctx context.Context) error {
	if !u.unit.MayBook() {
		return &TransitionError{Entity: "unit", Event: "book", From: u.unit.Status}
	}

	if err := u.fsm.Event(ctx, "book"); err != nil {
		return fmt.Errorf("failed to book unit: %w", err)
	}

	u.unit.Status = u.fsm.Current()
	return nil
}

// Release transitions unit from booked back to available
func (u *UnitFSM) Release(ctx context.Context) error {
	if !u.unit.MayRelease() {
		return &TransitionError{Entity: "unit", Event: "release", From: u.unit.Status}
	}

	if err := u.fsm.Event(ctx, "release"); err != nil {
		return fmt.Errorf("failed to release unit: %w", err)
	}

	u.unit.Status = u.fsm.Current()
	return nil
}

// Block transitions unit to blocked state
func (u *UnitFSM) Block(ctx context.Context) error {
	if !u.unit.MayBlock() {
		return &TransitionError{Entity: "unit", Event: "block", From: u.unit.Status}
	}

	if err := u.fsm.Event(ctx, "block"); err != nil {
		return fmt.Errorf("failed to block unit: %w", err)
	}

	u.unit.Status = u.fsm.Current()
	return nil
}

// Unblock transitions unit from blocked back to available
func (u *UnitFSM) Unblock(ctx context.Context) error {
	if u.unit.Status != models.UnitStatusBlocked {
		return &TransitionError{Entity: "unit", Event: "unblock", From: u.unit.Status}
	}

	if err := u.fsm.Event(ctx, "unblock"); err != nil {
		return fmt.Errorf("failed to unblock unit: %w", err)
	}

	u.unit.Status = u.fsm.Current()
	return nil
}

// Sell transitions unit to sold state
func (u *UnitFSM) Sell(ctx context.Context) error {
	if !u.unit.MaySell() {
		return &TransitionError{Entity: "unit", Event: "sell", From: u.unit.Status}
	}

	if err := u.fsm.Event(ctx, "sell"); err != nil {
		return fmt.Errorf("failed to sell unit: %w", err)
	}

	u.unit.Status = u.fsm.Current()
	return nil
}

// Current returns the current state
func (u *UnitFSM) Current() string {
	return u.fsm.Current()
}

// Can checks if a transition is possible
func (u *UnitFSM) Can(event string) bool {
	return u.fsm.Can(event)
}
