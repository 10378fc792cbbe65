package connstr_test

import (
	"fmt"

	"github.com/aretw0/ooor/pkg/connstr"
)

func ExampleParse() {
	r := connstr.Parse("ooor://bob.sales@erp.example.com:443")
	fmt.Println(r.URL(), r.Username, r.Database)

	// Output:
	// https://erp.example.com:443 bob sales
}
