package main

import "github.com/vibast-solutions/ms-go-payment-webhooks/cmd"

func main() {
	cmd.Execute()
}
