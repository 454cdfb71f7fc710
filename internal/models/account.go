package models

import "math"

// Account holds the balance of a single bank account
type Account struct {
	balance float64
}

// NewAccount opens an account with a non-negative initial balance
func NewAccount(initialBalance float64) (*Account, error) {
	if !validAmount(initialBalance) {
		return nil, ErrInvalidBalance
	}
	return &Account{balance: initialBalance}, nil
}

// Balance returns the current balance
func (a *Account) Balance() float64 {
	return a.balance
}

// Withdraw takes amount out of the account. It reports false and leaves the
// balance untouched when the amount exceeds the balance.
func (a *Account) Withdraw(amount float64) (bool, error) {
	if !validAmount(amount) {
		return false, ErrInvalidAmount
	}
	if amount > a.balance {
		return false, nil
	}
	a.balance -= amount
	return true, nil
}

// Deposit adds amount to the account and returns the new balance
func (a *Account) Deposit(amount float64) (float64, error) {
	if !validAmount(amount) {
		return 0, ErrInvalidAmount
	}
	next := a.balance + amount
	if math.IsInf(next, 0) {
		return 0, ErrBalanceOverflow
	}
	a.balance = next
	return a.balance, nil
}

// Payment returns the level periodic payment that amortizes totalAmount over
// numPayments periods. interestRate is the per-period rate, not an annual one.
func (a *Account) Payment(totalAmount, interestRate float64, numPayments int) (float64, error) {
	if !validLoan(totalAmount, interestRate, numPayments) {
		return 0, ErrInvalidLoanInput
	}
	return payment(totalAmount, interestRate, numPayments), nil
}

// Pending returns the principal still owed after month payments
func (a *Account) Pending(amount, interestRate float64, numPayments, month int) (float64, error) {
	if !validLoan(amount, interestRate, numPayments) || month < 0 {
		return 0, ErrInvalidLoanInput
	}
	p := payment(amount, interestRate, numPayments)
	if interestRate == 0 {
		return amount - p*float64(month), nil
	}
	growth := math.Pow(1+interestRate, float64(month))
	return amount*growth - p*((growth-1)/interestRate), nil
}

// validAmount rejects negatives, NaN and infinities
func validAmount(x float64) bool {
	return x >= 0 && !math.IsInf(x, 1)
}

func validLoan(amount, rate float64, numPayments int) bool {
	return amount > 0 && !math.IsInf(amount, 1) && rate >= 0 && rate <= 1 && numPayments > 0
}

// payment is the annuity formula; a zero rate falls back to its limit total/n
func payment(total, rate float64, n int) float64 {
	if rate == 0 {
		return total / float64(n)
	}
	return total * rate / (1 - math.Pow(1+rate, -float64(n)))
}
