// Package queue defines message payloads exchanged over the message broker
// and the consumer that delivers them.
package queue

// EmailRequestedEvent is published when the API needs an email sent out of
// band, currently only the signup confirmation code.  The payload is
// self-contained so the consumer never has to touch the database.
type EmailRequestedEvent struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	From     string `json:"from"`
	To       string `json:"to"`
	QueuedAt string `json:"queued_at"`
}
