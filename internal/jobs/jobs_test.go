package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
)

type stubFetcher struct {
	rate float64
	err  error
}

func (f stubFetcher) GetKeyRate(ctx context.Context) (float64, error) {
	return f.rate, f.err
}

type recordingSink struct {
	rates []float64
}

func (s *recordingSink) SetKeyRate(rate float64) {
	s.rates = append(s.rates, rate)
}

func TestRefreshKeyRate(t *testing.T) {
	logger, _ := test.NewNullLogger()
	sink := &recordingSink{}

	if err := RefreshKeyRate(context.Background(), stubFetcher{rate: 21}, sink, logger); err != nil {
		t.Fatal(err)
	}
	if len(sink.rates) != 1 || sink.rates[0] != 21 {
		t.Fatalf("rates=%v want=[21]", sink.rates)
	}
}

func TestRefreshKeyRateKeepsPreviousOnError(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sink := &recordingSink{}
	fetchErr := errors.New("cbr unavailable")

	if err := RefreshKeyRate(context.Background(), stubFetcher{err: fetchErr}, sink, logger); !errors.Is(err, fetchErr) {
		t.Fatalf("want fetch error, got %v", err)
	}
	if len(sink.rates) != 0 {
		t.Fatalf("sink must not be updated on error: %v", sink.rates)
	}
	if len(hook.Entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(hook.Entries))
	}
}

func TestRegisterKeyRateRefresh(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewScheduler(logger)

	if err := s.RegisterKeyRateRefresh("@every 1h", stubFetcher{rate: 1}, &recordingSink{}); err != nil {
		t.Fatal(err)
	}
	if err := s.RegisterKeyRateRefresh("not a schedule", stubFetcher{}, &recordingSink{}); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
	if n := len(s.cron.Entries()); n != 1 {
		t.Fatalf("entries=%d want=1", n)
	}

	s.Start()
	s.Stop()
}
