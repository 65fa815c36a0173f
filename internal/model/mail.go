package model

import "context"

// Mailer delivers a message to an address.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}
