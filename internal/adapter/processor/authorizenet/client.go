package authorizenet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"easypay/internal/core/domain"
	"easypay/internal/core/ports"

	"github.com/rs/zerolog"
)

// Client implements ports.ProcessorClient against Authorize.net's Create
// Transaction JSON API. All five operations share one send/parse path;
// only the transactionRequest body differs.
type Client struct {
	apiLoginID     string
	transactionKey string
	apiURL         string

	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a Client posting to apiURL with the given merchant
// credentials. timeout bounds every upstream call; exceeding it surfaces
// as a NetworkError.
func New(apiLoginID, transactionKey, apiURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		apiLoginID:     apiLoginID,
		transactionKey: transactionKey,
		apiURL:         apiURL,
		httpClient:     &http.Client{Timeout: timeout},
		log:            log,
	}
}

func (c *Client) auth() merchantAuthentication {
	return merchantAuthentication{Name: c.apiLoginID, TransactionKey: c.transactionKey}
}

// Authenticate issues a minimal authOnlyTransaction test charge to
// confirm the configured merchant credentials are accepted.
func (c *Client) Authenticate(ctx context.Context) error {
	req := requestEnvelope{
		CreateTransactionRequest: createTransactionRequest{
			MerchantAuthentication: c.auth(),
			RefID:                  "auth_check",
			TransactionRequest: transactionRequest{
				TransactionType: typeAuthOnly,
				Amount:          "0.01",
				Payment: &payment{CreditCard: creditCard{
					CardNumber:     "4111111111111111",
					ExpirationDate: "1225",
					CardCode:       "123",
				}},
				BillTo: &billTo{
					FirstName: "Test", LastName: "User",
					Address: "123 Test St", City: "Test City",
					State: "CA", Zip: "12345", Country: "US",
				},
			},
		},
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	if resp.Messages.ResultCode != resultCodeOK {
		return &ports.AuthError{Message: firstMessageText(resp.Messages, "authentication failed")}
	}
	return nil
}

// ChargeCard performs an authCaptureTransaction.
func (c *Client) ChargeCard(ctx context.Context, req ports.ChargeRequest) (*ports.ProcessorResponse, error) {
	if verr := ValidateCard(req.Card, time.Now()); verr != nil {
		return nil, verr
	}
	return c.runTransaction(ctx, typeAuthCapture, req)
}

// AuthorizeOnly performs an authOnlyTransaction, reserving funds without capture.
func (c *Client) AuthorizeOnly(ctx context.Context, req ports.ChargeRequest) (*ports.ProcessorResponse, error) {
	if verr := ValidateCard(req.Card, time.Now()); verr != nil {
		return nil, verr
	}
	return c.runTransaction(ctx, typeAuthOnly, req)
}

func (c *Client) runTransaction(ctx context.Context, txType transactionType, req ports.ChargeRequest) (*ports.ProcessorResponse, error) {
	tr := transactionRequest{
		TransactionType: txType,
		Amount:          domain.FormatAmount(req.AmountMinor),
		Payment: &payment{CreditCard: creditCard{
			CardNumber:     req.Card.Number,
			ExpirationDate: req.Card.ExpirationMMYY,
			CardCode:       req.Card.CVV,
		}},
		Order: req.OrderInfo,
	}
	if req.Billing != nil {
		if verr := ValidateBillingAddress(*req.Billing); verr != nil {
			return nil, verr
		}
		tr.BillTo = toBillTo(*req.Billing)
	}

	envelope := requestEnvelope{CreateTransactionRequest: createTransactionRequest{
		MerchantAuthentication: c.auth(),
		RefID:                  req.RefID,
		TransactionRequest:     tr,
	}}

	resp, err := c.send(ctx, envelope)
	if err != nil {
		return nil, err
	}
	return parseTransactionResponse(resp)
}

// Capture performs a priorAuthCaptureTransaction against a prior
// authorization; a nil AmountMinor captures the full authorized amount.
func (c *Client) Capture(ctx context.Context, req ports.CaptureRequest) (*ports.ProcessorResponse, error) {
	tr := transactionRequest{
		TransactionType: typePriorAuthCapture,
		RefTransID:      req.TransactionID,
	}
	if req.AmountMinor != nil {
		tr.Amount = domain.FormatAmount(*req.AmountMinor)
	}

	envelope := requestEnvelope{CreateTransactionRequest: createTransactionRequest{
		MerchantAuthentication: c.auth(),
		RefID:                  req.RefID,
		TransactionRequest:     tr,
	}}

	resp, err := c.send(ctx, envelope)
	if err != nil {
		return nil, err
	}
	return parseTransactionResponse(resp)
}

// Refund performs a refundTransaction, requiring the last four digits /
// full card number on file per Authorize.net's linked-credit requirement.
func (c *Client) Refund(ctx context.Context, req ports.RefundRequest) (*ports.ProcessorResponse, error) {
	tr := transactionRequest{
		TransactionType: typeRefund,
		Amount:          domain.FormatAmount(req.AmountMinor),
		Payment: &payment{CreditCard: creditCard{
			CardNumber:     req.Card.Number,
			ExpirationDate: req.Card.ExpirationMMYY,
		}},
		RefTransID: req.TransactionID,
	}

	envelope := requestEnvelope{CreateTransactionRequest: createTransactionRequest{
		MerchantAuthentication: c.auth(),
		RefID:                  req.RefID,
		TransactionRequest:     tr,
	}}

	resp, err := c.send(ctx, envelope)
	if err != nil {
		return nil, err
	}
	return parseTransactionResponse(resp)
}

// Void performs a voidTransaction against an un-settled prior transaction.
func (c *Client) Void(ctx context.Context, req ports.VoidRequest) (*ports.ProcessorResponse, error) {
	envelope := requestEnvelope{CreateTransactionRequest: createTransactionRequest{
		MerchantAuthentication: c.auth(),
		RefID:                  req.RefID,
		TransactionRequest: transactionRequest{
			TransactionType: typeVoid,
			RefTransID:      req.TransactionID,
		},
	}}

	resp, err := c.send(ctx, envelope)
	if err != nil {
		return nil, err
	}
	return parseTransactionResponse(resp)
}

func (c *Client) send(ctx context.Context, envelope requestEnvelope) (*responseEnvelope, error) {
	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, &ports.NetworkError{Err: fmt.Errorf("marshaling request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, &ports.NetworkError{Err: fmt.Errorf("building request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", "EasyPay-Payment-Gateway/1.0")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ports.NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ports.NetworkError{Err: fmt.Errorf("reading response body: %w", err)}
	}

	var parsed responseEnvelope
	if err := json.Unmarshal(raw, &parsed); err != nil {
		c.log.Error().Err(err).Str("body", string(raw)).Msg("invalid JSON response from processor")
		return nil, &ports.NetworkError{Err: fmt.Errorf("invalid response format: %w", err)}
	}

	return &parsed, nil
}

// authFailureCodes are the Authorize.net messages.message[].code values
// that indicate the merchant credentials themselves were rejected, as
// opposed to the transaction being declined or malformed.
var authFailureCodes = map[string]bool{
	"E00007": true, // User authentication failed
	"E00008": true, // unable to get a certificate
	"E00017": true, // merchant account is not active
}

func parseTransactionResponse(resp *responseEnvelope) (*ports.ProcessorResponse, error) {
	if resp.Messages.ResultCode != resultCodeOK {
		msg := firstMessageText(resp.Messages, "transaction failed")
		code := firstMessageCode(resp.Messages, "0")
		if authFailureCodes[code] {
			return nil, &ports.AuthError{Message: msg}
		}
		return nil, &ports.TransactionError{ResponseCode: code, Message: msg}
	}

	tr := resp.TransactionResponse
	if tr == nil {
		return nil, &ports.TransactionError{Message: "processor returned no transaction response"}
	}

	// Inner responseCode: 1 approved, 2 declined; 3 (error) and 4 (held for
	// review) are transaction errors, not declines.
	var outcome ports.ProcessorOutcome
	switch tr.ResponseCode {
	case approvedResponseCode:
		outcome = ports.ProcessorOutcomeCaptured
	case declinedResponseCode:
		outcome = ports.ProcessorOutcomeDeclined
	default:
		return nil, &ports.TransactionError{
			TransactionID: tr.TransID,
			ResponseCode:  tr.ResponseCode,
			Message:       tr.ResponseText,
		}
	}

	out := &ports.ProcessorResponse{
		TransactionID: tr.TransID,
		Outcome:       outcome,
		ResponseCode:  tr.ResponseCode,
		ResponseText:  tr.ResponseText,
		Raw:           resp.raw(),
	}
	if tr.AuthCode != "" {
		out.AuthCode = &tr.AuthCode
	}
	if tr.AVSResultCode != "" {
		out.AVSResponse = &tr.AVSResultCode
	}
	if tr.CVVResultCode != "" {
		out.CVVResponse = &tr.CVVResultCode
	}
	if tr.Amount != "" {
		out.Amount = &tr.Amount
	}
	if resp.RefID != "" {
		out.RefID = &resp.RefID
	}

	return out, nil
}

func firstMessageText(m messages, fallback string) string {
	if len(m.Message) == 0 {
		return fallback
	}
	return m.Message[0].Text
}

func firstMessageCode(m messages, fallback string) string {
	if len(m.Message) == 0 {
		return fallback
	}
	return m.Message[0].Code
}

func toBillTo(b ports.BillingAddress) *billTo {
	return &billTo{
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Address:   b.Address,
		City:      b.City,
		State:     b.State,
		Zip:       b.Zip,
		Country:   b.Country,
	}
}
