// Package types holds the records shared by the message board packages: the
// recipient directory entries, form submissions and the page-data objects
// handed to templates or JSON clients.
package types

import (
	"time"
)

// Recipient is a predefined addressee of DID messages.
type Recipient struct {
	DID     string `json:"did"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Submission is the record carried in the OP_RETURN payload of a message
// addressed to a recipient.
type Submission struct {
	Message      string    `json:"message"`
	RecipientDID string    `json:"recipient,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// MessageView is a listed wallet action shaped for rendering.
type MessageView struct {
	Txid        string   `json:"txid"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Satoshis    int64    `json:"satoshis"`
	IsOutgoing  bool     `json:"isOutgoing"`
	Labels      []string `json:"labels,omitempty"`
}

// RecipientView is a recipient together with the messages addressed to it.
type RecipientView struct {
	Recipient
	Messages     []MessageView `json:"messages"`
	MessageCount int           `json:"messageCount"`
}

// HomePage is the page data of the message board.
type HomePage struct {
	Connected bool          `json:"connected"`
	Error     *string       `json:"error"`
	Messages  []MessageView `json:"messages"`
}

// RecipientsPage is the page data of the recipients view.
type RecipientsPage struct {
	Connected  bool            `json:"connected"`
	Error      *string         `json:"error"`
	Recipients []RecipientView `json:"recipients"`
}

// FormResult is the outcome of a form action. Err holds the classified cause
// of a failure and is never serialized.
type FormResult struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Txid      string `json:"txid,omitempty"`
	Err       error  `json:"-"`
}

// JournalEntry is a submission this server posted successfully.
type JournalEntry struct {
	ID           string    `json:"id" bson:"_id"`
	Txid         string    `json:"txid" bson:"txid"`
	Message      string    `json:"message" bson:"message"`
	RecipientDID string    `json:"recipient,omitempty" bson:"recipientDid,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}
