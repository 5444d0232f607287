package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"expendinator/internal/core"
)

const (
	EventExpenseCreated = "expense.created"
	EventExpenseDeleted = "expense.deleted"
)

// ExpenseEvent is the message published for the notification/widget
// collaborator when an expense changes. MessageID lets consumers
// deduplicate redeliveries.
type ExpenseEvent struct {
	MessageID   string    `json:"message_id"`
	Type        string    `json:"type"`
	UserID      int64     `json:"user_id"`
	ExpenseID   int64     `json:"expense_id"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	Date        string    `json:"date,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExpenseCreatedEvent builds the event for a freshly persisted expense.
// Titles stay out of the payload: the consumer fetches details itself and
// the broker never sees user text.
func NewExpenseCreatedEvent(e core.Expense) *ExpenseEvent {
	return &ExpenseEvent{
		MessageID:   uuid.NewString(),
		Type:        EventExpenseCreated,
		UserID:      e.UserID,
		ExpenseID:   e.ID,
		AmountCents: e.Amount.Cents,
		CategoryID:  e.CategoryID,
		Date:        e.Date.String(),
		Timestamp:   time.Now(),
	}
}

// NewExpenseDeletedEvent builds the event for a removed expense.
func NewExpenseDeletedEvent(userID, expenseID int64) *ExpenseEvent {
	return &ExpenseEvent{
		MessageID: uuid.NewString(),
		Type:      EventExpenseDeleted,
		UserID:    userID,
		ExpenseID: expenseID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
