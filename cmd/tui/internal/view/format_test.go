package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNullMoney(t *testing.T) {
	assert.Equal(t, "-", FormatNullMoney(decimal.NullDecimal{}))
	assert.Equal(t, "12.50", FormatNullMoney(decimal.NewNullDecimal(decimal.RequireFromString("12.5"))))
}

func TestParseAmount(t *testing.T) {
	d, err := parseAmount(" 1250.75 ")
	require.NoError(t, err)
	assert.Equal(t, "1250.75", d.String())

	_, err = parseAmount("-3")
	assert.Error(t, err)

	_, err = parseAmount("abc")
	assert.Error(t, err)
}

func TestParseOptionalID(t *testing.T) {
	id, err := parseOptionalID("")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = parseOptionalID("42")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(42), *id)

	_, err = parseOptionalID("0")
	assert.Error(t, err)
}
