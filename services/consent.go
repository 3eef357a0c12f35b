package services

import (
	"github.com/Gobd/reststeps"
	"github.com/Gobd/reststeps/transform"
)

// ConsentProvisionProcessResultName is the step-text name of the consent
// status endpoint.
const ConsentProvisionProcessResultName = "consentProvisionProcessResult"

const consentTemplate = `{"consentId":"sample-string","peopleId":"sample-string"}`

// ConsentProvisionProcessResult reports the outcome of a consent provisioning
// request.
func ConsentProvisionProcessResult() Definition {
	return Definition{
		Name:     ConsentProvisionProcessResultName,
		Summary:  "Consent provisioning status",
		Path:     "/v1/ospl/consent/provide/status",
		Template: consentTemplate,
		Request:  ConsentRequest{},
		Success:  ConsentSuccessResponse{},
		Error:    ConsentErrorResponse{},

		CodeField:    "statusCode",
		MessageField: "description",
		SuccessCode:  "0000",
		Echo: map[string]string{
			"consentId": "sample.data.consentId",
			"peopleId":  "sample.data.peopleld",
		},
	}
}

// ConsentRequest is the body posted to the consent status endpoint.
type ConsentRequest struct {
	ConsentID string `json:"consentId"`
	PeopleID  string `json:"peopleId"`
}

func (r *ConsentRequest) Rules() []*reststeps.FieldRules {
	return []*reststeps.FieldRules{
		reststeps.Field(&r.ConsentID, reststeps.Required, reststeps.Describe("consent identifier"), reststeps.Example("C-100")),
		reststeps.Field(&r.PeopleID, reststeps.Required, reststeps.Describe("customer identifier"), reststeps.Example("P-200")),
	}
}

func (r *ConsentRequest) Normalize() {
	transform.StructTrimSpace(r)
}

// ConsentSuccessResponse is returned when the consent is known.
type ConsentSuccessResponse struct {
	StatusCode  string        `json:"statusCode"`
	Description string        `json:"description"`
	Sample      ConsentSample `json:"sample"`
}

func (r *ConsentSuccessResponse) Rules() []*reststeps.FieldRules {
	return []*reststeps.FieldRules{
		reststeps.Field(&r.StatusCode, reststeps.Required, reststeps.Numeric),
		reststeps.Field(&r.Description, reststeps.Required),
		reststeps.Field(&r.Sample, reststeps.Required),
	}
}

// Normalize trims the padding some backends put around status codes.
func (r *ConsentSuccessResponse) Normalize() {
	transform.StructTrimSpace(r)
}

type ConsentSample struct {
	Status string      `json:"status"`
	Data   ConsentData `json:"data"`
}

func (s *ConsentSample) Rules() []*reststeps.FieldRules {
	return []*reststeps.FieldRules{
		reststeps.Field(&s.Status, reststeps.Required),
		reststeps.Field(&s.Data, reststeps.Required),
	}
}

type ConsentData struct {
	ConsentID string `json:"consentId"`
	// The backend spells this key with a lowercase L.
	PeopleID       string           `json:"peopleld"`
	CifNo          string           `json:"cifNo"`
	ReferenceNo    string           `json:"referenceNo"`
	Accounts       []ConsentAccount `json:"accounts"`
	TagAllAccounts string           `json:"tagAllAccounts"`
}

func (d *ConsentData) Rules() []*reststeps.FieldRules {
	return []*reststeps.FieldRules{
		reststeps.Field(&d.ConsentID, reststeps.Required),
		reststeps.Field(&d.PeopleID, reststeps.Required),
		reststeps.Field(&d.CifNo, reststeps.Describe("core banking customer number")),
		reststeps.Field(&d.ReferenceNo, reststeps.Describe("backend reference")),
		reststeps.Field(&d.Accounts, reststeps.Describe("accounts covered by the consent")),
		reststeps.Field(&d.TagAllAccounts, reststeps.Describe("whether every account is tagged")),
	}
}

type ConsentAccount struct {
	ProductName     string `json:"productName"`
	MaskedAccountNo string `json:"maskedAccountNo"`
}

func (a *ConsentAccount) Rules() []*reststeps.FieldRules {
	return []*reststeps.FieldRules{
		reststeps.Field(&a.ProductName, reststeps.Required),
		reststeps.Field(&a.MaskedAccountNo, reststeps.Required, reststeps.Length(4, 32)),
	}
}

// ConsentErrorResponse is returned for unknown or malformed consent lookups.
type ConsentErrorResponse struct {
	StatusCode  string `json:"statusCode"`
	Description string `json:"description"`
	Sample      any    `json:"sample"`
}

func (r *ConsentErrorResponse) Rules() []*reststeps.FieldRules {
	return []*reststeps.FieldRules{
		reststeps.Field(&r.StatusCode, reststeps.Required),
		reststeps.Field(&r.Description, reststeps.Required),
		reststeps.Field(&r.Sample, reststeps.Describe("error details, shape varies")),
	}
}

func (r *ConsentErrorResponse) Normalize() {
	transform.StructTrimSpace(r)
}
