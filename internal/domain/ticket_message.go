package domain

import "time"

// MessageAuthor indicates who authored a transcript message.
type MessageAuthor string

const (
	AuthorStaff  MessageAuthor = "STAFF"
	AuthorSystem MessageAuthor = "SYSTEM"
)

// TicketMessage is one line of the conversation a ticket was filed from,
// plus any follow-up notes added after creation.
type TicketMessage struct {
	ID        string
	TicketID  string
	Author    MessageAuthor
	Body      string
	CreatedAt time.Time
}
