package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, v.RegisterValidation("safe_id", validateSafeID))
	require.NoError(t, v.RegisterValidation("safe_url", validateSafeURL))
	return v
}

func TestValidateSafeID(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Var("order-42_a.b", "safe_id"))
	assert.NoError(t, v.Var("pay_0123456789ab", "safe_id"))
	assert.Error(t, v.Var("bad id", "safe_id"))
	assert.Error(t, v.Var("semi;colon", "safe_id"))
	assert.Error(t, v.Var("<script>", "safe_id"))
}

func TestValidateSafeURL(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Var("https://merchant.example/hooks", "safe_url"))
	assert.NoError(t, v.Var("http://localhost:8080/cb", "safe_url"))
	assert.NoError(t, v.Var("", "safe_url"))
	assert.Error(t, v.Var("ftp://merchant.example/hooks", "safe_url"))
	assert.Error(t, v.Var("javascript:alert(1)", "safe_url"))
	assert.Error(t, v.Var("not a url", "safe_url"))
}

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	name := "  Alice Doe  "
	req := CreatePaymentRequest{
		Amount:       "  10.00  ",
		Currency:     " USD ",
		CustomerName: &name,
	}
	SanitizeStruct(&req)

	assert.Equal(t, "10.00", req.Amount)
	assert.Equal(t, "USD", req.Currency)
	assert.Equal(t, "Alice Doe", *req.CustomerName)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := RefundPaymentRequest{
		Reason: "customer <script>alert('x')</script> request",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.Reason, "&lt;script&gt;")
	assert.NotContains(t, req.Reason, "<script>")
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := CreatePaymentRequest{
		Amount:       "10.00",
		Currency:     "USD",
		CustomerName: nil,
	}
	SanitizeStruct(&req)
	assert.Nil(t, req.CustomerName)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	// Passing a value (not a pointer) must not panic and must not mutate.
	req := CreatePaymentRequest{Amount: "  10.00  "}
	SanitizeStruct(req)
	assert.Equal(t, "  10.00  ", req.Amount)
}
