package amqp

import (
	"encoding/json"
	"time"

	"gagyebu/internal/core"
)

// EntryKind discriminates archived ledger entries.
type EntryKind string

const (
	EntryKindExpense EntryKind = "expense"
	EntryKindIncome  EntryKind = "income"
)

// EntryAppendedMessage carries one freshly appended ledger entry to the
// archive worker. The spreadsheet stays the source of truth; the message
// holds the full entry so the worker never reads the sheet back.
type EntryAppendedMessage struct {
	Kind        EntryKind `json:"kind"`
	Date        string    `json:"date"`
	Month       string    `json:"month"`
	Payer       string    `json:"payer,omitempty"`
	Category    string    `json:"category,omitempty"`
	Source      string    `json:"source,omitempty"`
	Description string    `json:"description"`
	Method      string    `json:"method,omitempty"`
	Amount      int64     `json:"amount"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewExpenseAppended(e core.ExpenseEntry) *EntryAppendedMessage {
	return &EntryAppendedMessage{
		Kind:        EntryKindExpense,
		Date:        e.Date.String(),
		Month:       e.Month.String(),
		Payer:       e.Payer,
		Category:    e.Category,
		Description: e.Description,
		Method:      e.Method,
		Amount:      e.Amount,
		Timestamp:   time.Now(),
	}
}

func NewIncomeAppended(e core.IncomeEntry) *EntryAppendedMessage {
	return &EntryAppendedMessage{
		Kind:        EntryKindIncome,
		Date:        e.Date.String(),
		Month:       e.Month.String(),
		Source:      e.Source,
		Description: e.Description,
		Amount:      e.Amount,
		Timestamp:   time.Now(),
	}
}

func (m *EntryAppendedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntryAppendedFromJSON(data []byte) (*EntryAppendedMessage, error) {
	var msg EntryAppendedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
