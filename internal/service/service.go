package service

import (
	"errors"
	"math"
	"sync"

	"github.com/Dan9191/bank-account/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrKeyRateUnavailable is returned by Quote until a key rate has been loaded
var ErrKeyRateUnavailable = errors.New("key rate not available yet")

// MaxSchedulePayments caps the number of rows Schedule builds
const MaxSchedulePayments = 1200

var (
	// ErrScheduleTooLong is returned by Schedule above MaxSchedulePayments
	ErrScheduleTooLong = &models.ArgumentError{Msg: "schedule is limited to 1200 payments"}

	// ErrResultOutOfRange is returned when valid inputs overflow float64
	ErrResultOutOfRange = &models.ArgumentError{Msg: "inputs produce a result out of range"}
)

// Notifier is told about every successful balance change
type Notifier interface {
	NotifyTransaction(kind string, amount, balance float64) error
}

// Service handles business logic for a single account
type Service struct {
	mu       sync.Mutex
	account  *models.Account
	log      *logrus.Logger
	notifier Notifier
	keyRate  float64
}

// NewService initializes a new service. notifier may be nil.
func NewService(account *models.Account, log *logrus.Logger, notifier Notifier) *Service {
	return &Service{account: account, log: log, notifier: notifier}
}

// Balance returns the current account balance
func (s *Service) Balance() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account.Balance()
}

// Deposit credits the account and returns the new balance
func (s *Service) Deposit(amount float64) (float64, error) {
	s.mu.Lock()
	balance, err := s.account.Deposit(amount)
	s.mu.Unlock()
	if err != nil {
		s.log.WithField("amount", amount).Warnf("Deposit rejected: %v", err)
		return 0, err
	}

	s.log.WithFields(logrus.Fields{"amount": amount, "balance": balance}).Info("Deposit accepted")
	s.notify("Deposit", amount, balance)
	return balance, nil
}

// Withdraw debits the account. The returned balance is current either way.
func (s *Service) Withdraw(amount float64) (bool, float64, error) {
	s.mu.Lock()
	ok, err := s.account.Withdraw(amount)
	balance := s.account.Balance()
	s.mu.Unlock()
	if err != nil {
		s.log.WithField("amount", amount).Warnf("Withdrawal rejected: %v", err)
		return false, balance, err
	}

	fields := logrus.Fields{"amount": amount, "balance": balance}
	if !ok {
		s.log.WithFields(fields).Info("Withdrawal declined: insufficient balance")
		return false, balance, nil
	}
	s.log.WithFields(fields).Info("Withdrawal accepted")
	s.notify("Withdrawal", amount, balance)
	return true, balance, nil
}

// Payment computes the periodic payment of an amortized loan
func (s *Service) Payment(totalAmount, interestRate float64, numPayments int) (float64, error) {
	p, err := s.account.Payment(totalAmount, interestRate, numPayments)
	if err != nil {
		return 0, err
	}
	if !finite(p) {
		return 0, ErrResultOutOfRange
	}
	s.log.Debugf("Payment for %.2f at %.4f over %d periods: %.2f", totalAmount, interestRate, numPayments, p)
	return p, nil
}

// Pending computes the outstanding principal after month payments
func (s *Service) Pending(amount, interestRate float64, numPayments, month int) (float64, error) {
	rem, err := s.account.Pending(amount, interestRate, numPayments, month)
	if err != nil {
		return 0, err
	}
	if !finite(rem) {
		return 0, ErrResultOutOfRange
	}
	s.log.Debugf("Pending for %.2f at %.4f after %d/%d periods: %.2f", amount, interestRate, month, numPayments, rem)
	return rem, nil
}

// Schedule builds the full amortization table, one entry per payment
func (s *Service) Schedule(totalAmount, interestRate float64, numPayments int) ([]models.ScheduleEntry, error) {
	p, err := s.account.Payment(totalAmount, interestRate, numPayments)
	if err != nil {
		return nil, err
	}
	if numPayments > MaxSchedulePayments {
		return nil, ErrScheduleTooLong
	}
	if !finite(p) {
		return nil, ErrResultOutOfRange
	}

	entries := make([]models.ScheduleEntry, 0, numPayments)
	prev := totalAmount
	for month := 1; month <= numPayments; month++ {
		rem, err := s.account.Pending(totalAmount, interestRate, numPayments, month)
		if err != nil {
			return nil, err
		}
		interest := prev * interestRate
		if !finite(rem) || !finite(interest) {
			return nil, ErrResultOutOfRange
		}
		entries = append(entries, models.ScheduleEntry{
			Month:     month,
			Payment:   p,
			Interest:  interest,
			Principal: p - interest,
			Remaining: rem,
		})
		prev = rem
	}

	s.log.Debugf("Built %d-period schedule for %.2f", numPayments, totalAmount)
	return entries, nil
}

// SetKeyRate stores the latest annual reference rate, in percent
func (s *Service) SetKeyRate(rate float64) {
	s.mu.Lock()
	s.keyRate = rate
	s.mu.Unlock()
	s.log.Infof("Key rate updated: %.2f%%", rate)
}

// KeyRate returns the stored annual reference rate; zero means not loaded
func (s *Service) KeyRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyRate
}

// Quote prices a loan off the current key rate, paid monthly
func (s *Service) Quote(amount float64, numPayments int) (*models.LoanQuote, error) {
	annual := s.KeyRate()
	if annual <= 0 {
		return nil, ErrKeyRateUnavailable
	}

	periodic := annual / 100 / 12
	p, err := s.account.Payment(amount, periodic, numPayments)
	if err != nil {
		return nil, err
	}
	if !finite(p) {
		return nil, ErrResultOutOfRange
	}

	return &models.LoanQuote{
		Amount:       amount,
		AnnualRate:   annual,
		PeriodicRate: periodic,
		NumPayments:  numPayments,
		Payment:      p,
	}, nil
}

func (s *Service) notify(kind string, amount, balance float64) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyTransaction(kind, amount, balance); err != nil {
		s.log.Errorf("Failed to send %s notification: %v", kind, err)
	}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
