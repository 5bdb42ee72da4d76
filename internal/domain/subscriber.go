package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriberStatus enumerates the states a subscriber can be in.
type SubscriberStatus string

const (
	// SubscriberPending means the subscriber has signed up but not yet
	// clicked the confirmation link.
	SubscriberPending SubscriberStatus = "pending_confirmation"
	// SubscriberConfirmed means the subscriber proved control of the email
	// address and is eligible for broadcasts.
	SubscriberConfirmed SubscriberStatus = "confirmed"
)

// Subscriber represents a single mailing-list member. Status only ever moves
// forward (pending_confirmation -> confirmed), never backward.
type Subscriber struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	Email        SubscriberEmail  `json:"email" db:"email"`
	Name         SubscriberName   `json:"name" db:"name"`
	Status       SubscriberStatus `json:"status" db:"status"`
	SubscribedAt time.Time        `json:"subscribed_at" db:"subscribed_at"`
}

// NewSubscriber builds a pending subscriber with a fresh id.
func NewSubscriber(name SubscriberName, email SubscriberEmail) Subscriber {
	return Subscriber{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		Status:       SubscriberPending,
		SubscribedAt: time.Now().UTC(),
	}
}
