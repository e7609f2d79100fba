package usecases

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aeronjl/auricle/internal/domain/transcript"
)

// DefaultRatePerMinute is the transcription price per audio minute.
const DefaultRatePerMinute = 0.50

var sixty = decimal.NewFromInt(60)

// Price returns durationSeconds/60 * ratePerMinute rounded to two decimals.
func Price(durationSeconds, ratePerMinute float64) (float64, error) {
	amount, err := price(durationSeconds, ratePerMinute)
	if err != nil {
		return 0, err
	}
	f, _ := amount.Float64()
	return f, nil
}

func price(durationSeconds, ratePerMinute float64) (decimal.Decimal, error) {
	if math.IsNaN(durationSeconds) || math.IsInf(durationSeconds, 0) || durationSeconds < 0 {
		return decimal.Zero, &transcript.ValidationError{Field: "duration", Reason: "must be a non-negative number of seconds"}
	}
	if math.IsNaN(ratePerMinute) || math.IsInf(ratePerMinute, 0) || ratePerMinute < 0 {
		return decimal.Zero, &transcript.ValidationError{Field: "rate", Reason: "must be a non-negative amount per minute"}
	}
	return decimal.NewFromFloat(durationSeconds).
		Div(sixty).
		Mul(decimal.NewFromFloat(ratePerMinute)).
		Round(2), nil
}

// Quote prices audio durations at a fixed rate.
type Quote struct {
	RatePerMinute float64
	Currency      string
}

func (q *Quote) Execute(d time.Duration) (transcript.PriceQuote, error) {
	amount, err := price(d.Seconds(), q.RatePerMinute)
	if err != nil {
		return transcript.PriceQuote{}, err
	}
	currency := q.Currency
	if currency == "" {
		currency = "usd"
	}
	return transcript.PriceQuote{
		Duration:      d,
		RatePerMinute: decimal.NewFromFloat(q.RatePerMinute),
		Amount:        amount,
		Currency:      currency,
	}, nil
}
