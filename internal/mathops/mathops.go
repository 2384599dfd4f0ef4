// Package mathops implements the integer helpers behind the bfhl operations:
// primality, GCD/LCM, Fibonacci generation and seedless left reduction.
package mathops

import (
	"context"
	"errors"
	"math"
)

// MaxFibonacciCount is the longest sequence whose elements all fit in an int64.
const MaxFibonacciCount = 93

// primeCheckInterval is how many trial divisors run between context checks.
const primeCheckInterval = 1 << 16

var (
	// ErrEmptySequence is returned when reducing an empty sequence.
	ErrEmptySequence = errors.New("cannot reduce an empty sequence")
	// ErrUndefined is returned for LCM(0, 0).
	ErrUndefined = errors.New("lcm of 0 and 0 is undefined")
	// ErrOverflow is returned when a result does not fit in an int64.
	ErrOverflow = errors.New("result overflows int64")
	// ErrNegativeCount is returned for a negative Fibonacci length.
	ErrNegativeCount = errors.New("fibonacci count must be non-negative")
)

// BinaryOp combines an accumulator with the next element.
type BinaryOp func(acc, next int64) (int64, error)

// IsPrime reports whether n is prime. Values below 2 are never prime.
func IsPrime(n int64) bool {
	prime, _ := isPrime(context.Background(), n)
	return prime
}

func isPrime(ctx context.Context, n int64) (bool, error) {
	if n < 2 {
		return false, nil
	}
	for i := int64(2); i <= n/i; i++ {
		if n%i == 0 {
			return false, nil
		}
		if i%primeCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}

// FilterPrimes returns the prime values in order. The result is never nil.
func FilterPrimes(values []int64) []int64 {
	primes, _ := FilterPrimesContext(context.Background(), values)
	return primes
}

// FilterPrimesContext is FilterPrimes that gives up with ctx's error once
// ctx is done, including in the middle of testing a large value.
func FilterPrimesContext(ctx context.Context, values []int64) ([]int64, error) {
	primes := make([]int64, 0, len(values))
	for _, v := range values {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		prime, err := isPrime(ctx, v)
		if err != nil {
			return nil, err
		}
		if prime {
			primes = append(primes, v)
		}
	}
	return primes, nil
}

// GCD returns the greatest common divisor of |x| and |y|, which is never
// negative. GCD(x, 0) is |x|, and GCD(0, 0) is 0. An operand of
// math.MinInt64 has no int64 absolute value and yields ErrOverflow.
func GCD(x, y int64) (int64, error) {
	x, err := abs(x)
	if err != nil {
		return 0, err
	}
	y, err = abs(y)
	if err != nil {
		return 0, err
	}
	for y != 0 {
		x, y = y, x%y
	}
	return x, nil
}

// LCM returns the least common multiple of |x| and |y|.
func LCM(x, y int64) (int64, error) {
	g, err := GCD(x, y)
	if err != nil {
		return 0, err
	}
	if g == 0 {
		return 0, ErrUndefined
	}
	// GCD succeeded, so neither abs can fail.
	a, _ := abs(x)
	b, _ := abs(y)
	a /= g
	if a != 0 && b > math.MaxInt64/a {
		return 0, ErrOverflow
	}
	return a * b, nil
}

// Fibonacci returns the first n Fibonacci numbers starting at 0.
func Fibonacci(n int) ([]int64, error) {
	if n < 0 {
		return nil, ErrNegativeCount
	}
	if n > MaxFibonacciCount {
		return nil, ErrOverflow
	}

	series := make([]int64, n)
	for i := range series {
		if i < 2 {
			series[i] = int64(i)
			continue
		}
		series[i] = series[i-1] + series[i-2]
	}
	return series, nil
}

// Reduce folds values left to right using the first element as the seed.
func Reduce(values []int64, op BinaryOp) (int64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySequence
	}

	acc := values[0]
	for _, v := range values[1:] {
		var err error
		if acc, err = op(acc, v); err != nil {
			return 0, err
		}
	}
	return acc, nil
}

// HCF reduces values with GCD.
func HCF(values []int64) (int64, error) {
	return Reduce(values, GCD)
}

// LCMOf reduces values with LCM.
func LCMOf(values []int64) (int64, error) {
	return Reduce(values, LCM)
}

func abs(v int64) (int64, error) {
	switch {
	case v == math.MinInt64:
		return 0, ErrOverflow
	case v < 0:
		return -v, nil
	default:
		return v, nil
	}
}
