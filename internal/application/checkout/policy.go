package checkout

import (
	"time"

	"github.com/DanielPopoola/mpesa-checkout/internal/application"
	"github.com/DanielPopoola/mpesa-checkout/internal/config"
	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
	"github.com/DanielPopoola/mpesa-checkout/internal/infrastructure/mpesa"
)

const (
	ResultCodeSuccess       = "0"
	ResultCodeUserCancelled = "1032"
	ResultCodeProcessing    = "1037"
)

// Policy bounds the status polling of one attempt.
type Policy struct {
	InitialDelay time.Duration
	Interval     time.Duration
	MaxAttempts  int
	PendingCodes []string

	// MaxConsecutiveErrors fails the attempt early after that many query
	// errors in a row. Zero disables it.
	MaxConsecutiveErrors int

	InitiateTimeout time.Duration
	QueryTimeout    time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		InitialDelay: 5 * time.Second,
		Interval:     10 * time.Second,
		MaxAttempts:  30,
		PendingCodes: []string{ResultCodeProcessing},
	}
}

func PolicyFromConfig(cfg config.PollingConfig, initiateTimeout time.Duration) Policy {
	return Policy{
		InitialDelay:         cfg.InitialDelay,
		Interval:             cfg.Interval,
		MaxAttempts:          cfg.MaxAttempts,
		PendingCodes:         cfg.PendingCodes,
		MaxConsecutiveErrors: cfg.MaxConsecutiveErrors,
		InitiateTimeout:      initiateTimeout,
		QueryTimeout:         cfg.QueryTimeout,
	}
}

// Ceiling is the time from initiation to the last status query.
func (p Policy) Ceiling() time.Duration {
	return p.InitialDelay + time.Duration(p.MaxAttempts-1)*p.Interval
}

// Classifier maps a status query result onto an outcome.
type Classifier struct {
	pending map[string]struct{}
}

func NewClassifier(pendingCodes []string) Classifier {
	pending := make(map[string]struct{}, len(pendingCodes))
	for _, code := range pendingCodes {
		pending[code] = struct{}{}
	}
	return Classifier{pending: pending}
}

// Classify interprets res for the attempt holding handle. A success without a
// receipt number falls back to the handle.
func (c Classifier) Classify(res *mpesa.StatusResult, handle string) domain.Outcome {
	if res == nil {
		return domain.Pending()
	}

	switch res.ResultCode {
	case ResultCodeSuccess:
		if res.ReceiptNumber != "" {
			return domain.Succeeded(res.ReceiptNumber)
		}
		return domain.Succeeded(handle)
	case ResultCodeUserCancelled:
		return domain.Cancelled(application.ReasonUserCancelled)
	case "":
		return domain.Pending()
	}

	if _, ok := c.pending[res.ResultCode]; ok {
		return domain.Pending()
	}

	if res.ResultDesc != "" {
		return domain.Failed(res.ResultDesc)
	}
	return domain.Failed(application.ReasonPaymentFailed)
}
