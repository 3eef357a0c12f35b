package reststeps_test

import (
	"fmt"

	v "github.com/Gobd/reststeps"
)

func ExampleApplyInput() {
	body := v.MustParseBody(`{"consentId":"sample-string","peopleId":"sample-string"}`)
	if _, err := v.ApplyInput(body, "peopleId", "remove"); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(body)
	// Output: {"consentId":"sample-string"}
}

func ExampleApplyInput_nested() {
	body := v.MustParseBody(`{"id":"1","customer":{"name":"Aye","phone":"0912"}}`)
	if _, err := v.ApplyInput(body, "customer.phone", "NULL"); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(body)
	// Output: {"id":"1","customer":{"name":"Aye","phone":""}}
}

func ExampleMutator() {
	m := v.Mutator{Missing: v.FailOnMissing}
	_, err := m.ApplyInput(v.MustParseBody(`{"a":1}`), "b", "remove")
	fmt.Println(err != nil)
	// Output: true
}

func ExampleValidate() {
	err := v.Validate(&account{ProductName: "Savings"})
	fmt.Println(err)
	// Output: maskedAccountNo: cannot be blank.
}
