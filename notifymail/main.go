// Smoke-test utility for the order confirmation mail path. Points at a local
// Mailpit instance by default.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/smtp"
)

func main() {
	addr := flag.String("addr", "localhost:2025", "SMTP server address")
	to := flag.String("to", "hello@yopmail.com", "recipient address")
	orderNumber := flag.String("order", "ORD0TEST", "order number to reference")
	flag.Parse()

	from := "orders@bookstore.example.com"
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: Your order %s is confirmed\r\n"+
		"\r\n"+
		"Thanks for your purchase! Order %s has been confirmed and will ship soon.\r\n",
		*to, *orderNumber, *orderNumber))

	if err := smtp.SendMail(*addr, nil, from, []string{*to}, msg); err != nil {
		log.Fatal(err)
	}
	log.Println("Mail sent successfully!")
}
