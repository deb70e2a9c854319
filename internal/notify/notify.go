package notify

import "time"

type Entity string

const (
	EntityBankAccount Entity = "BANK_ACCOUNT"
	EntityMovements   Entity = "MOVEMENTS"
)

type Type string

const (
	TypeCreate Type = "CREATE"
	TypeUpdate Type = "UPDATE"
	TypeDelete Type = "DELETE"
)

type Notification struct {
	Entity    Entity    `json:"entity"`
	Type      Type      `json:"type"`
	Data      any       `json:"data"`
	CreatedAt time.Time `json:"createdAt"`

	// Recipient is the user GUUID the event belongs to. Empty means admins only.
	Recipient string `json:"-"`
}

// Notifier delivers events after the originating transaction commits.
// Publish must not block on slow consumers and never reports failure.
type Notifier interface {
	Publish(n Notification)
}

type Nop struct{}

func (Nop) Publish(Notification) {}
