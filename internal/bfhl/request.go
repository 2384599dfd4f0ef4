// Package bfhl parses and dispatches requests to the /bfhl endpoint.
//
// A request body is a JSON object with exactly one recognised key. ParseRequest
// turns it into one of five concrete Request types; anything else is rejected
// before an operation runs.
package bfhl

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/edgard/bfhl/internal/errors"
)

// Operation names the single key of a request body.
type Operation string

// Recognised operations.
const (
	OpFibonacci Operation = "fibonacci"
	OpPrime     Operation = "prime"
	OpLCM       Operation = "lcm"
	OpHCF       Operation = "hcf"
	OpAI        Operation = "AI"
)

// Request is implemented only by the request types in this package.
type Request interface {
	Operation() Operation
	sealed()
}

// FibonacciRequest asks for the first Count Fibonacci numbers.
type FibonacciRequest struct {
	Count int `validate:"gte=0"`
}

// PrimeRequest asks for the prime members of Values.
type PrimeRequest struct {
	Values []int64 `validate:"required"`
}

// LCMRequest asks for the pairwise LCM reduction of Values.
type LCMRequest struct {
	Values []int64 `validate:"required"`
}

// HCFRequest asks for the pairwise GCD reduction of Values.
type HCFRequest struct {
	Values []int64 `validate:"required"`
}

// AIRequest asks the text-generation service for a one-word answer.
type AIRequest struct {
	Prompt string
}

func (FibonacciRequest) Operation() Operation { return OpFibonacci }
func (PrimeRequest) Operation() Operation     { return OpPrime }
func (LCMRequest) Operation() Operation       { return OpLCM }
func (HCFRequest) Operation() Operation       { return OpHCF }
func (AIRequest) Operation() Operation        { return OpAI }

func (FibonacciRequest) sealed() {}
func (PrimeRequest) sealed()     {}
func (LCMRequest) sealed()       {}
func (HCFRequest) sealed()       {}
func (AIRequest) sealed()        {}

var validate = validator.New()

// ParseRequest decodes body into a Request.
//
// A body that is not valid JSON, or a recognised key whose value has the wrong
// shape, yields a payload error. A JSON value that is not an object with exactly
// one recognised key yields a validation error.
func ParseRequest(body []byte) (Request, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, apperrors.NewValidationError("request body is empty", nil)
	}
	if !json.Valid(body) {
		return nil, apperrors.NewPayloadError("request body is not valid JSON", nil)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, apperrors.NewValidationError("request body is not a JSON object", err)
	}
	if len(fields) != 1 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("request must have exactly one key, got %d", len(fields)), nil)
	}

	var (
		key string
		raw json.RawMessage
	)
	for k, v := range fields {
		key, raw = k, v
	}
	return parseOperation(Operation(key), raw)
}

func parseOperation(op Operation, raw json.RawMessage) (Request, error) {
	var req Request
	switch op {
	case OpFibonacci:
		var r FibonacciRequest
		if err := decodeValue(op, raw, &r.Count); err != nil {
			return nil, err
		}
		req = r
	case OpPrime:
		var r PrimeRequest
		if err := decodeValue(op, raw, &r.Values); err != nil {
			return nil, err
		}
		req = r
	case OpLCM:
		var r LCMRequest
		if err := decodeValue(op, raw, &r.Values); err != nil {
			return nil, err
		}
		req = r
	case OpHCF:
		var r HCFRequest
		if err := decodeValue(op, raw, &r.Values); err != nil {
			return nil, err
		}
		req = r
	case OpAI:
		var r AIRequest
		if err := decodeValue(op, raw, &r.Prompt); err != nil {
			return nil, err
		}
		req = r
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unrecognised operation %q", op), nil)
	}

	if err := validate.Struct(req); err != nil {
		return nil, apperrors.NewPayloadError(fmt.Sprintf("invalid %s value", op), err)
	}
	return req, nil
}

func decodeValue(op Operation, raw json.RawMessage, dst any) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return apperrors.NewPayloadError(fmt.Sprintf("%s value is null", op), nil)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperrors.NewPayloadError(fmt.Sprintf("invalid %s value", op), err)
	}
	return nil
}
