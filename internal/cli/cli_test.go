package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/damon-houk/nkap/internal/domain/entity"
	"github.com/damon-houk/nkap/internal/domain/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubConverter converts with a fixed table and records its calls
type stubConverter struct {
	table    entity.RateTable
	err      error
	converts int
	lists    int
}

func (s *stubConverter) Convert(_ context.Context, from, to string, amount float64) (*entity.Conversion, error) {
	s.converts++
	if s.err != nil {
		return nil, s.err
	}
	if err := entity.CheckCurrencyFormat(from); err != nil {
		return nil, err
	}
	if err := entity.CheckCurrencyFormat(to); err != nil {
		return nil, err
	}

	source, err := s.table.Lookup(from)
	if err != nil {
		return nil, err
	}
	target, err := s.table.Lookup(to)
	if err != nil {
		return nil, err
	}

	rate := target / source
	return &entity.Conversion{From: from, To: to, Amount: amount, ConvertedAmount: amount * rate, Rate: rate}, nil
}

func (s *stubConverter) ListRates(_ context.Context) ([]entity.Rate, error) {
	s.lists++
	if s.err != nil {
		return nil, s.err
	}
	return s.table.Sorted(), nil
}

func newTestApp(converter Converter, input string) (*App, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return New(converter, strings.NewReader(input), &stdout, &stderr), &stdout, &stderr
}

func sampleConverter() *stubConverter {
	return &stubConverter{table: entity.RateTable{"USD": 1, "XAF": 500, "EUR": 0.5}}
}

func TestRunConvert(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		expected string
	}{
		{"Short flags", []string{"-s", "USD", "-t", "XAF", "-a", "100"},
			"With a current exchange rate of 500, the target amount is 50000.\n"},
		{"Long flags", []string{"--source", "XAF", "--target", "USD", "--amount", "500"},
			"With a current exchange rate of 0.002, the target amount is 1.\n"},
		{"Large amount has no exponent", []string{"-s=USD", "-t=XAF", "-a=1000000"},
			"With a current exchange rate of 500, the target amount is 500000000.\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app, stdout, stderr := newTestApp(sampleConverter(), "")

			code := app.Run(context.Background(), tc.args)

			assert.Equal(t, ExitOK, code)
			assert.Equal(t, tc.expected, stdout.String())
			assert.Empty(t, stderr.String())
		})
	}
}

func TestRunConvertErrors(t *testing.T) {
	t.Run("Unknown currency", func(t *testing.T) {
		app, stdout, stderr := newTestApp(sampleConverter(), "")

		code := app.Run(context.Background(), []string{"-s", "ABC", "-t", "XYZ", "-a", "1"})

		assert.Equal(t, ExitError, code)
		assert.Empty(t, stdout.String())
		assert.Equal(t, "Problem of conversion: invalid currency `ABC`\n", stderr.String())
	})

	t.Run("Provider failure", func(t *testing.T) {
		converter := &stubConverter{err: service.ErrMissingCredential}
		app, _, stderr := newTestApp(converter, "")

		code := app.Run(context.Background(), []string{"-s", "USD", "-t", "EUR", "-a", "1"})

		assert.Equal(t, ExitError, code)
		assert.Contains(t, stderr.String(), "Problem of conversion: the `API_ID` environment variable is not well configured")
	})
}

func TestRunUsage(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		code int
	}{
		{"No arguments", nil, ExitUsage},
		{"Help", []string{"-h"}, ExitOK},
		{"Missing amount", []string{"-s", "USD", "-t", "EUR"}, ExitUsage},
		{"Amount alone", []string{"--amount", "10"}, ExitUsage},
		{"Bad amount", []string{"-s", "USD", "-t", "EUR", "-a", "ten"}, ExitUsage},
		{"Unknown flag", []string{"--verbose"}, ExitUsage},
		{"Positional argument", []string{"-i", "extra"}, ExitUsage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			converter := sampleConverter()
			app, stdout, stderr := newTestApp(converter, "")

			code := app.Run(context.Background(), tc.args)

			assert.Equal(t, tc.code, code)
			assert.Empty(t, stdout.String())
			assert.Contains(t, stderr.String(), "Usage:")
			assert.Zero(t, converter.converts)
		})
	}
}

func TestRunPrintRequest(t *testing.T) {
	t.Run("Currency list", func(t *testing.T) {
		app, stdout, _ := newTestApp(sampleConverter(), "")

		code := app.Run(context.Background(), []string{"--print", "currency-list"})

		assert.Equal(t, ExitOK, code)
		assert.Equal(t, "EUR -> 0.5\nUSD -> 1\nXAF -> 500\n", stdout.String())
	})

	t.Run("Unknown request", func(t *testing.T) {
		converter := sampleConverter()
		app, stdout, stderr := newTestApp(converter, "")

		code := app.Run(context.Background(), []string{"--print", "history"})

		assert.Equal(t, ExitError, code)
		assert.Empty(t, stdout.String())
		assert.Equal(t, "Problem during print request: unknown print request `history`\n", stderr.String())
		assert.Zero(t, converter.lists)
	})

	t.Run("Provider failure", func(t *testing.T) {
		app, _, stderr := newTestApp(&stubConverter{err: service.ErrRateLimited}, "")

		code := app.Run(context.Background(), []string{"--print", "currency-list"})

		assert.Equal(t, ExitError, code)
		assert.Contains(t, stderr.String(), "Problem during print request: access restricted for repeated over-use")
	})
}

func TestPrintRequestError(t *testing.T) {
	app, _, _ := newTestApp(sampleConverter(), "")

	err := app.PrintRequest(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPrintRequest))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.002", formatFloat(0.002))
	assert.Equal(t, "50000", formatFloat(50000))
	assert.Equal(t, "1234567.5", formatFloat(1234567.5))
	assert.Equal(t, "0", formatFloat(0))
}
