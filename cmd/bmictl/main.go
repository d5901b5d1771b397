// Command bmictl queries the athlete BMI dataset from the terminal.
package main

import "github.com/okian/athletebmi/internal/cli"

func main() {
	cli.Execute()
}
