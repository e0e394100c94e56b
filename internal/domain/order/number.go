package order

import (
	"crypto/rand"
	"regexp"
	"time"
)

const (
	numberAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	numberSuffixLen = 6
	// Largest multiple of len(numberAlphabet) that fits in a byte.
	numberRejectAbove = 252
)

var numberPattern = regexp.MustCompile(`^ORD-\d{8}-[A-Z0-9]{6}$`)

// NumberGenerator yields ORD-YYYYMMDD-XXXXXX numbers. Uniqueness is finally
// guaranteed by the orders_order_number_key index; callers retry on collision.
type NumberGenerator interface {
	Next(now time.Time) (string, error)
}

type RandomNumberGenerator struct{}

func NewRandomNumberGenerator() *RandomNumberGenerator {
	return &RandomNumberGenerator{}
}

func (RandomNumberGenerator) Next(now time.Time) (string, error) {
	suffix := make([]byte, 0, numberSuffixLen)
	buf := make([]byte, 16)
	for len(suffix) < numberSuffixLen {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= numberRejectAbove {
				continue
			}
			suffix = append(suffix, numberAlphabet[int(b)%len(numberAlphabet)])
			if len(suffix) == numberSuffixLen {
				break
			}
		}
	}
	return "ORD-" + now.UTC().Format("20060102") + "-" + string(suffix), nil
}

// ValidNumber checks the wire format and that the date is not after today (UTC).
func ValidNumber(number string, now time.Time) bool {
	if !numberPattern.MatchString(number) {
		return false
	}
	day, err := time.Parse("20060102", number[4:12])
	if err != nil {
		return false
	}
	today := now.UTC().Truncate(24 * time.Hour)
	return !day.After(today)
}
