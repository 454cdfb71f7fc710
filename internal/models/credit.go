package models

// LoanQuote is a payment quote priced off the central bank key rate
type LoanQuote struct {
	Amount       float64 `json:"amount"`
	AnnualRate   float64 `json:"annual_rate"`   // percent, margin included
	PeriodicRate float64 `json:"periodic_rate"` // monthly fraction
	NumPayments  int     `json:"num_payments"`
	Payment      float64 `json:"payment"`
}
