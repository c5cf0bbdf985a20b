package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
)

type tierBody struct {
	Quantity int             `json:"quantity" validate:"gt=0"`
	Rate     decimal.Decimal `json:"rate" validate:"gte=0,lte=1"`
}

type productBody struct {
	Name  string     `json:"name" validate:"required"`
	Tiers []tierBody `json:"tiers" validate:"dive"`
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x","tiers":[{"quantity":10,"rate":0.15}]}`))
	var body productBody
	require.NoError(t, DecodeJSONBody(req, &body))
	assert.True(t, body.Tiers[0].Rate.Equal(decimal.RequireFromString("0.15")))
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x","extra":1}`))
	var body productBody
	err := DecodeJSONBody(req, &body)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyReportsFieldPaths(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"tiers":[{"quantity":0,"rate":"1.2"}]}`))
	var body productBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be greater than 0", details["tiers[0].quantity"])
	assert.Equal(t, "must be at most 1", details["tiers[0].rate"])
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abc  ", 10))
	assert.Equal(t, "ab", SanitizeString("abc", 2))
	assert.Equal(t, "abc", SanitizeString("abc", 0))
}
