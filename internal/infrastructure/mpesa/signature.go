package mpesa

import (
	"encoding/base64"
	"regexp"
	"strings"
	"time"

	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
)

const (
	// CountryCode is prefixed to subscriber numbers.
	CountryCode = "254"

	timestampLayout = "20060102150405"
)

var nonDigits = regexp.MustCompile(`\D`)

// Signature is the per-request credential block Daraja expects in every
// STK push and query body.
type Signature struct {
	ShortCode string
	Password  string
	Timestamp string
}

// Timestamp formats t as YYYYMMDDHHMMSS in t's location.
func Timestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// Password derives the one-time password base64(shortcode‖passkey‖timestamp).
func Password(shortCode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passkey + timestamp))
}

// NormalizePhone rewrites a Kenyan phone number into the 2547XXXXXXXX form.
func NormalizePhone(raw string) (string, error) {
	digits := nonDigits.ReplaceAllString(raw, "")

	switch {
	case strings.HasPrefix(digits, "0"):
		digits = CountryCode + digits[1:]
	case !strings.HasPrefix(digits, CountryCode):
		digits = CountryCode + digits
	}

	if len(digits) != 12 {
		return "", domain.NewInvalidPhoneNumberError(raw)
	}
	return digits, nil
}

func basicAuth(key, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(key+":"+secret))
}
