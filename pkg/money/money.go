// Package money holds the exact minor-unit arithmetic used by the ledger.
// Amounts are always int64 minor units; floats never enter the core.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/chris/split-ledger/pkg/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrOverflow is returned when a sum does not fit in int64.
	ErrOverflow = errors.New("amount overflows int64")

	// ErrUnknownCurrency is returned for codes that are not ISO 4217.
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrNoParticipants is returned when an even split has nobody to split between.
	ErrNoParticipants = errors.New("no participants to split between")
)

// Add returns a+b, failing instead of wrapping around.
func Add(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// Sum adds up the shares of the given splits.
func Sum(splits []models.Split) (int64, error) {
	var total int64
	for _, s := range splits {
		next, err := Add(total, s.ShareAmount)
		if err != nil {
			return 0, err
		}
		total = next
	}
	return total, nil
}

// Allocate divides total evenly across participants. The remainder, in minor
// units, goes one unit at a time to the payer first (when the payer takes
// part) and then to the remaining participants in list order.
func Allocate(total int64, participants []string, payer string) ([]models.Split, error) {
	n := int64(len(participants))
	if n == 0 {
		return nil, ErrNoParticipants
	}
	if total < 0 {
		return nil, fmt.Errorf("cannot allocate negative amount %d", total)
	}

	base := total / n
	remainder := total % n

	splits := make([]models.Split, len(participants))
	for i, userID := range participants {
		splits[i] = models.Split{UserID: userID, ShareAmount: base}
	}

	if remainder > 0 {
		for i := range splits {
			if splits[i].UserID == payer {
				splits[i].ShareAmount++
				remainder--
				break
			}
		}
	}
	for i := 0; remainder > 0 && i < len(splits); i++ {
		if splits[i].UserID == payer {
			continue
		}
		splits[i].ShareAmount++
		remainder--
	}

	return splits, nil
}

// NormalizeCurrency upper-cases a code and checks it against ISO 4217.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || gomoney.GetCurrency(code) == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return code, nil
}

// Format renders minor units for display, e.g. Format(1050, "USD") == "$10.50".
func Format(amount int64, currency string) string {
	return gomoney.New(amount, currency).Display()
}

// ParseMajor converts a decimal string in major units ("12.34") into minor
// units for the currency. More fractional digits than the currency carries is
// an error, never a rounding.
func ParseMajor(s, currency string) (int64, error) {
	code, err := NormalizeCurrency(currency)
	if err != nil {
		return 0, err
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	fraction := int32(gomoney.GetCurrency(code).Fraction)
	minor := d.Shift(fraction)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than %d decimal places for %s", s, fraction, code)
	}
	if minor.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || minor.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return 0, ErrOverflow
	}
	return minor.IntPart(), nil
}
