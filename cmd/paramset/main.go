// Command paramset inspects parameter schemas and converts parameter
// values between the compact key=value form and JSON.
package main

func main() {
	Execute()
}
