package models

import "errors"

// ErrInvalidArgument is matched by every out-of-range input error returned by Account
var ErrInvalidArgument = errors.New("invalid argument")

var (
	// ErrInvalidAmount is returned by Deposit and Withdraw for negative or non-finite amounts
	ErrInvalidAmount = &ArgumentError{Msg: "amount must be a finite non-negative number"}

	// ErrInvalidBalance is returned by NewAccount for a negative or non-finite opening balance
	ErrInvalidBalance = &ArgumentError{Msg: "initial balance must be a finite non-negative number"}

	// ErrBalanceOverflow is returned by Deposit when the new balance would not be finite
	ErrBalanceOverflow = &ArgumentError{Msg: "deposit would overflow the balance"}

	// ErrInvalidLoanInput is returned by Payment and Pending whichever bound is violated
	ErrInvalidLoanInput = &ArgumentError{Msg: "Invalid input values"}
)

// ArgumentError carries the caller-facing message of an invalid argument
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string {
	return e.Msg
}

// Is reports ArgumentError as a kind of ErrInvalidArgument
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}
