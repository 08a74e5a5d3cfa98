package mpesa_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
	"github.com/DanielPopoola/mpesa-checkout/internal/infrastructure/mpesa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "local format", raw: "0712345678", want: "254712345678"},
		{name: "formatted with spaces", raw: "0712 345 678", want: "254712345678"},
		{name: "international with plus", raw: "+254712345678", want: "254712345678"},
		{name: "already normalized", raw: "254712345678", want: "254712345678"},
		{name: "subscriber number only", raw: "712345678", want: "254712345678"},
		{name: "dashes", raw: "0712-345-678", want: "254712345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mpesa.NormalizePhone(tt.raw)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, 12)
			assert.Regexp(t, `^254\d{9}$`, got)
		})
	}
}

func TestNormalizePhone_Invalid(t *testing.T) {
	for _, raw := range []string{"", "12345", "07123456789999", "abc"} {
		t.Run(raw, func(t *testing.T) {
			_, err := mpesa.NormalizePhone(raw)

			require.Error(t, err)
			assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidPhoneNumber))
		})
	}
}

func TestTimestampAndPassword(t *testing.T) {
	ts := mpesa.Timestamp(time.Date(2024, 3, 7, 9, 5, 1, 0, time.Local))
	assert.Equal(t, "20240307090501", ts)

	password := mpesa.Password("174379", "passkey", ts)

	decoded, err := base64.StdEncoding.DecodeString(password)
	require.NoError(t, err)
	assert.Equal(t, "174379passkey20240307090501", string(decoded))
}
