// Package authorizenet implements ports.ProcessorClient against the
// Authorize.net Create Transaction JSON API.
package authorizenet

import "encoding/json"

// transactionType enumerates the createTransactionRequest.transactionRequest
// variants this client exercises.
type transactionType string

const (
	typeAuthCapture     transactionType = "authCaptureTransaction"
	typeAuthOnly        transactionType = "authOnlyTransaction"
	typePriorAuthCapture transactionType = "priorAuthCaptureTransaction"
	typeRefund          transactionType = "refundTransaction"
	typeVoid            transactionType = "voidTransaction"
)

type merchantAuthentication struct {
	Name           string `json:"name"`
	TransactionKey string `json:"transactionKey"`
}

type creditCard struct {
	CardNumber     string `json:"cardNumber"`
	ExpirationDate string `json:"expirationDate"`
	CardCode       string `json:"cardCode,omitempty"`
}

type payment struct {
	CreditCard creditCard `json:"creditCard"`
}

type billTo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
}

type transactionRequest struct {
	TransactionType transactionType   `json:"transactionType"`
	Amount          string            `json:"amount,omitempty"`
	Payment         *payment          `json:"payment,omitempty"`
	BillTo          *billTo           `json:"billTo,omitempty"`
	Order           map[string]string `json:"order,omitempty"`
	RefTransID      string            `json:"refTransId,omitempty"`
}

type createTransactionRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
	RefID                  string                 `json:"refId,omitempty"`
	TransactionRequest     transactionRequest     `json:"transactionRequest"`
}

// requestEnvelope is the top-level body posted to request.api.
type requestEnvelope struct {
	CreateTransactionRequest createTransactionRequest `json:"createTransactionRequest"`
}

type message struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

type messages struct {
	ResultCode string    `json:"resultCode"`
	Message    []message `json:"message"`
}

type transactionResponse struct {
	TransID       string `json:"transId"`
	ResponseCode  string `json:"responseCode"`
	ResponseText  string `json:"responseText"`
	AuthCode      string `json:"authCode"`
	AVSResultCode string `json:"avsResultCode"`
	CVVResultCode string `json:"cvvResultCode"`
	Amount        string `json:"amount"`
}

// responseEnvelope is the top-level body Authorize.net returns.
type responseEnvelope struct {
	Messages            messages             `json:"messages"`
	TransactionResponse *transactionResponse `json:"transactionResponse"`
	RefID               string               `json:"refId"`
}

func (r responseEnvelope) raw() json.RawMessage {
	b, _ := json.Marshal(r)
	return b
}

// resultCodeOK is the success discriminant in messages.resultCode.
const resultCodeOK = "Ok"

// approvedResponseCode and declinedResponseCode are the
// transactionResponse.responseCode values Authorize.net uses for approved
// and declined transactions; "3" is error and "4" is held for review.
const (
	approvedResponseCode = "1"
	declinedResponseCode = "2"
)
