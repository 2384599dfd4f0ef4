package bfhl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/edgard/bfhl/internal/errors"
)

func TestParseRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want Request
	}{
		{name: "fibonacci", body: `{"fibonacci": 7}`, want: FibonacciRequest{Count: 7}},
		{name: "fibonacci zero", body: `{"fibonacci": 0}`, want: FibonacciRequest{Count: 0}},
		{name: "prime", body: `{"prime": [2, 4, 7]}`, want: PrimeRequest{Values: []int64{2, 4, 7}}},
		{name: "prime empty", body: `{"prime": []}`, want: PrimeRequest{Values: []int64{}}},
		{name: "lcm", body: `{"lcm": [4, 6, 8]}`, want: LCMRequest{Values: []int64{4, 6, 8}}},
		{name: "hcf", body: `{"hcf": [12, 18, 24]}`, want: HCFRequest{Values: []int64{12, 18, 24}}},
		{name: "hcf empty parses", body: `{"hcf": []}`, want: HCFRequest{Values: []int64{}}},
		{name: "ai", body: `{"AI": "What is the capital city of Maharashtra?"}`, want: AIRequest{Prompt: "What is the capital city of Maharashtra?"}},
		{name: "surrounding whitespace", body: "\n {\"fibonacci\": 3} \n", want: FibonacciRequest{Count: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseRequest([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Operation(), got.Operation())
		})
	}
}

func TestParseRequestRejectsShape(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"empty object":     `{}`,
		"two keys":         `{"fibonacci": 3, "prime": [2]}`,
		"unknown key":      `{"foo": 1}`,
		"key case matters": `{"ai": "hello"}`,
		"upper fibonacci":  `{"Fibonacci": 3}`,
		"empty body":       ``,
		"array body":       `[1, 2]`,
		"scalar body":      `42`,
		"string body":      `"fibonacci"`,
		"null body":        `null`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseRequest([]byte(body))
			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err), "body %q", body)
		})
	}
}

func TestParseRequestRejectsPayload(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"invalid json":      `{"fibonacci": `,
		"negative count":    `{"fibonacci": -1}`,
		"fractional count":  `{"fibonacci": 2.5}`,
		"string count":      `{"fibonacci": "5"}`,
		"null count":        `{"fibonacci": null}`,
		"prime not a list":  `{"prime": 7}`,
		"prime null":        `{"prime": null}`,
		"prime with string": `{"prime": [2, "3"]}`,
		"lcm fractional":    `{"lcm": [1.5, 2]}`,
		"hcf object":        `{"hcf": {"a": 1}}`,
		"ai not a string":   `{"AI": 42}`,
		"ai null":           `{"AI": null}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseRequest([]byte(body))
			require.Error(t, err)
			assert.Equal(t, apperrors.KindPayload, apperrors.KindOf(err), "body %q", body)
		})
	}
}
