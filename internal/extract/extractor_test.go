package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFields(t *testing.T) {
	raw := `{"phoneNumber":"+15555550100","company":"Acme Telecom","amount":89.99,"accountNumber":"ACCT-4411"}`
	fields := parseFields(raw)

	assert.Equal(t, "+15555550100", fields.PhoneNumber)
	assert.Equal(t, "Acme Telecom", fields.Company)
	assert.Equal(t, "ACCT-4411", fields.AccountNumber)
	require.NotNil(t, fields.Amount)
	assert.Equal(t, 89.99, *fields.Amount)
	assert.Nil(t, fields.TotalAmount)
}

func TestParseFieldsToleratesSurroundingText(t *testing.T) {
	raw := "Here is the extracted data:\n```json\n{\"company\":\"Acme\"}\n```\nLet me know if you need more."
	fields := parseFields(raw)
	assert.Equal(t, "Acme", fields.Company)
}

func TestParseFieldsGarbageDegradesToEmpty(t *testing.T) {
	fields := parseFields("I could not read this image at all.")
	require.NotNil(t, fields)
	assert.Empty(t, fields.Company)
	assert.Nil(t, fields.Amount)
}

func TestSupportedMediaType(t *testing.T) {
	got, ok := supportedMediaType("IMAGE/JPG")
	assert.True(t, ok)
	assert.Equal(t, "image/jpeg", got)

	_, ok = supportedMediaType("application/pdf")
	assert.False(t, ok)
}
