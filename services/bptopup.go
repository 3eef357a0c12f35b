package services

import (
	"github.com/Gobd/reststeps"
	"github.com/Gobd/reststeps/transform"
)

// AppServerBPTopupRequestName is the step-text name of the bill-payment top-up
// endpoint.
const AppServerBPTopupRequestName = "AppServerBPTopupRequest"

const topupTemplate = `{
  "topupType": "MOBILE",
  "operator": "MPT",
  "beneficiaryNumber": "09123456789",
  "transactionAmount": "1000",
  "okTransactionId": "OK-0001",
  "transactionTime": "2024-01-01T10:00:00",
  "backendNumber": "BK-0001",
  "sourceNumber": "09987654321",
  "comments": "sample-string",
  "referenceNo": "REF-0001",
  "isELOAD": true,
  "kickBack": 0,
  "productId": "P-01"
}`

// AppServerBPTopupRequest tops up a mobile number. Success and failure share
// one response envelope.
func AppServerBPTopupRequest() Definition {
	return Definition{
		Name:     AppServerBPTopupRequestName,
		Summary:  "Bill-payment mobile top-up",
		Path:     "/appserver/bp/topup/request",
		Template: topupTemplate,
		Request:  TopupRequest{},
		Success:  TopupResponse{},

		CodeField:    "code",
		MessageField: "msg",
		SuccessCode:  "0",
	}
}

// TransactionTimeLayout is the local timestamp format of transactionTime.
const TransactionTimeLayout = "2006-01-02T15:04:05"

// Top-up kinds accepted by the backend.
const (
	TopupMobile = "MOBILE"
	TopupData   = "DATA"
)

type TopupRequest struct {
	TopupType         string `json:"topupType"`
	Operator          string `json:"operator"`
	BeneficiaryNumber string `json:"beneficiaryNumber"`
	TransactionAmount string `json:"transactionAmount"`
	OkTransactionID   string `json:"okTransactionId"`
	TransactionTime   string `json:"transactionTime"`
	BackendNumber     string `json:"backendNumber"`
	SourceNumber      string `json:"sourceNumber"`
	Comments          string `json:"comments"`
	ReferenceNo       string `json:"referenceNo"`
	IsELOAD           *bool  `json:"isELOAD"`
	KickBack          *int   `json:"kickBack"`
	ProductID         string `json:"productId"`
}

func (r *TopupRequest) Rules() []*reststeps.FieldRules {
	return []*reststeps.FieldRules{
		reststeps.Field(&r.TopupType, reststeps.Required, reststeps.In(TopupMobile, TopupData)),
		reststeps.Field(&r.Operator, reststeps.Required, reststeps.Length(1, 20)),
		reststeps.Field(&r.BeneficiaryNumber, reststeps.Required, reststeps.Numeric, reststeps.Length(9, 15)),
		reststeps.Field(&r.TransactionAmount, reststeps.Required, reststeps.Min(0.01), reststeps.Max(500000.0)),
		reststeps.Field(&r.OkTransactionID, reststeps.Required),
		reststeps.Field(&r.TransactionTime, reststeps.Required, reststeps.Date(TransactionTimeLayout)),
		reststeps.Field(&r.BackendNumber, reststeps.Describe("backend account")),
		reststeps.Field(&r.SourceNumber, reststeps.Numeric),
		reststeps.Field(&r.Comments, reststeps.Describe("free text")),
		reststeps.Field(&r.ReferenceNo, reststeps.Required),
		reststeps.Field(&r.IsELOAD, reststeps.Present),
		reststeps.Field(&r.KickBack, reststeps.Min(0)),
		reststeps.Field(&r.ProductID, reststeps.Required),
	}
}

func (r *TopupRequest) Normalize() {
	transform.StructTrimSpace(r)
}

// TopupResponse is the envelope of every top-up reply. Code 0 and error false
// are legitimate, so the fields are pointers checked with Present.
type TopupResponse struct {
	Code  *int    `json:"code"`
	Error *bool   `json:"error"`
	Msg   *string `json:"msg"`
	Data  *string `json:"data"`
}

func (r *TopupResponse) Rules() []*reststeps.FieldRules {
	return []*reststeps.FieldRules{
		reststeps.Field(&r.Code, reststeps.Present),
		reststeps.Field(&r.Error, reststeps.Present),
		reststeps.Field(&r.Msg, reststeps.Present),
		reststeps.Field(&r.Data, reststeps.Present),
	}
}
