package tipflow

import (
	"github.com/encorelive/encore/internal/shared"
)

// Chip is one fixed tip-amount choice.
type Chip struct {
	Amount float64
	Label  string
}

// Chips are the fixed tip choices offered in the dialog, in display order.
var Chips = []Chip{
	{Amount: 2, Label: "Grazie"},
	{Amount: 5, Label: "Offri un drink"},
	{Amount: 10, Label: "Serata speciale"},
}

// CustomMinAmount and CustomStep bound the free-amount input.
const (
	CustomMinAmount = 1.0
	CustomStep      = 0.5
)

// Selection tracks which tip amount, if any, is currently chosen. At most
// one of chip and custom is active; picking one clears the other.
type Selection struct {
	chipAmount   float64
	customActive bool
	customAmount float64
}

// SelectChip picks a fixed amount and clears any custom entry.
func (s *Selection) SelectChip(amount float64) {
	s.chipAmount = amount
	s.customActive = false
	s.customAmount = 0
}

// SelectCustom switches to the custom input, clearing the fixed selection.
// No amount is considered chosen until a valid value is entered.
func (s *Selection) SelectCustom() {
	s.chipAmount = 0
	s.customActive = true
	s.customAmount = 0
}

// SetCustomAmount records the typed value. Values below the minimum leave
// the selection amountless rather than failing.
func (s *Selection) SetCustomAmount(amount float64) {
	s.chipAmount = 0
	s.customActive = true
	if amount < CustomMinAmount {
		s.customAmount = 0
		return
	}
	s.customAmount = amount
}

// Clear removes any selection.
func (s *Selection) Clear() {
	*s = Selection{}
}

// ChipSelected reports whether the chip for amount is the active choice.
func (s *Selection) ChipSelected(amount float64) bool {
	return !s.customActive && s.chipAmount == amount
}

// CustomSelected reports whether the custom input is the active choice.
func (s *Selection) CustomSelected() bool {
	return s.customActive
}

// Amount returns the chosen tip amount, 0 when none is selected.
func (s *Selection) Amount() float64 {
	if s.customActive {
		return s.customAmount
	}
	return s.chipAmount
}

// SubmitLabel mirrors the current selection on the submit control.
func (s *Selection) SubmitLabel() string {
	amount := s.Amount()
	if amount <= 0 {
		return "Invia richiesta"
	}
	return "Invia richiesta + mancia " + shared.FormatEuros(amount) + " €"
}
