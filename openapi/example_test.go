package openapi_test

import (
	"fmt"
	"maps"
	"slices"

	"github.com/Gobd/reststeps"
	"github.com/Gobd/reststeps/openapi"
	"github.com/Gobd/reststeps/services"
)

type Balance struct {
	AccountNo string  `json:"accountNo"`
	Amount    float64 `json:"amount"`
}

func (b *Balance) Rules() []*reststeps.FieldRules {
	return []*reststeps.FieldRules{
		reststeps.Field(&b.AccountNo, reststeps.Required, reststeps.Numeric),
		reststeps.Field(&b.Amount, reststeps.Min(0.0)),
	}
}

func ExampleFromRegistry() {
	doc, err := openapi.FromRegistry(services.Default(), "reststeps", "1.0.0")
	if err != nil {
		panic(err)
	}
	for _, path := range slices.Sorted(maps.Keys(doc.Paths.Map())) {
		fmt.Println(path, doc.Paths.Value(path).Post.OperationID)
	}
	// Output:
	// /appserver/bp/topup/request AppServerBPTopupRequest
	// /v1/ospl/consent/provide/status consentProvisionProcessResult
}

func ExampleAdd() {
	doc := openapi.DocBase("Accounts", "Balance lookups", "0.1.0")
	err := openapi.Add(doc, "post", "/balance", "getBalance", openapi.Endpoint{
		Summary: "Look up a balance",
		Request: Balance{},
		Responses: map[string]openapi.Response{
			"200": {Desc: "Balance", Bodies: []any{Balance{}}},
		},
	})
	if err != nil {
		panic(err)
	}
	op := doc.Paths.Value("/balance").Post
	schema := op.RequestBody.Value.Content.Get("application/json").Schema.Value
	fmt.Println(op.OperationID)
	fmt.Println(schema.Required)
	// Output:
	// getBalance
	// [accountNo]
}

func ExampleDocBase() {
	doc := openapi.DocBase("Banking API", "Consent and top-up", "0.1.0")
	fmt.Println(doc.Info.Title)
	fmt.Println(doc.OpenAPI)
	// Output:
	// Banking API
	// 3.0.3
}
