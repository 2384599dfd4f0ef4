package bfhl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/edgard/bfhl/internal/errors"
	"github.com/edgard/bfhl/internal/mathops"
)

// Answerer produces a one-word answer to a prompt.
type Answerer interface {
	AnswerOneWord(ctx context.Context, prompt string) (string, error)
}

// Dispatcher runs exactly one operation per request.
type Dispatcher struct {
	answerer Answerer
	log      *slog.Logger
}

// NewDispatcher creates a Dispatcher. answerer serves AI requests; it may be
// nil, in which case AI requests fail.
func NewDispatcher(answerer Answerer, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		answerer: answerer,
		log:      log.With("component", "dispatcher"),
	}
}

// Dispatch runs req and returns the value placed in the response's data field.
// Numeric operations run synchronously; AI requests block until the remote
// call completes or ctx is done.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (any, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("no operation selected", nil)
	}
	d.log.DebugContext(ctx, "Dispatching request", "operation", req.Operation())

	switch r := req.(type) {
	case FibonacciRequest:
		series, err := mathops.Fibonacci(r.Count)
		if err != nil {
			return nil, helperError(OpFibonacci, err)
		}
		return series, nil
	case PrimeRequest:
		primes, err := mathops.FilterPrimesContext(ctx, r.Values)
		if err != nil {
			return nil, helperError(OpPrime, err)
		}
		return primes, nil
	case LCMRequest:
		lcm, err := mathops.LCMOf(r.Values)
		if err != nil {
			return nil, helperError(OpLCM, err)
		}
		return lcm, nil
	case HCFRequest:
		hcf, err := mathops.HCF(r.Values)
		if err != nil {
			return nil, helperError(OpHCF, err)
		}
		return hcf, nil
	case AIRequest:
		if d.answerer == nil {
			return nil, apperrors.NewRemoteCallError("no text-generation client configured", nil)
		}
		answer, err := d.answerer.AnswerOneWord(ctx, r.Prompt)
		if err != nil {
			if apperrors.KindOf(err) == apperrors.KindUnknown {
				err = apperrors.NewRemoteCallError("answer request failed", err)
			}
			return nil, err
		}
		return answer, nil
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported request type %T", req), nil)
	}
}

// helperError classifies a numeric helper failure.
func helperError(op Operation, err error) error {
	msg := fmt.Sprintf("%s failed", op)
	switch {
	case errors.Is(err, mathops.ErrEmptySequence):
		return apperrors.NewReductionError(msg, err)
	case errors.Is(err, mathops.ErrNegativeCount):
		return apperrors.NewPayloadError(msg, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewArithmeticError(fmt.Sprintf("%s aborted", op), err)
	default:
		return apperrors.NewArithmeticError(msg, err)
	}
}
