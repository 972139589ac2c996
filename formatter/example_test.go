package formatter_test

import (
	"fmt"

	"github.com/byte4ever/recordfmt/formatter"
)

type greeting struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type shellGreeting struct {
	Name string `json:"name"`
}

func (shellGreeting) Delimiters() formatter.Delimiters {
	return formatter.Delimiters{Left: "${", Right: "}"}
}

func ExampleFormat() {
	out, err := formatter.Format(
		greeting{Name: "Bar", Age: 7},
		"Hey, {{name}}! You are {{age}}.",
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(out)
	// Output: Hey, Bar! You are 7.
}

func ExampleFormat_delimited() {
	out, err := formatter.Format(
		shellGreeting{Name: "Bar"}, "Hey, ${name}!",
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(out)
	// Output: Hey, Bar!
}

func ExampleMissingFields() {
	_, err := formatter.Format(
		greeting{Name: "Bar", Age: 7}, "Hey, {{name}}!",
	)

	fmt.Println(formatter.MissingFields(err))
	// Output: [age]
}
