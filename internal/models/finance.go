package models

import "time"

type TransactionType string

const (
	TransactionIncome  TransactionType = "Income"
	TransactionExpense TransactionType = "Expense"
)

type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	ProjectID   string          `json:"project_id,omitempty"`
	Category    string          `json:"category"`
	Method      string          `json:"method"`
	CardID      string          `json:"card_id,omitempty"`
}

// Card is a bank account or pocket that receives payments.
type Card struct {
	ID             string  `json:"id"`
	BankName       string  `json:"bank_name"`
	CardHolderName string  `json:"card_holder_name"`
	LastFourDigits string  `json:"last_four_digits"`
	Balance        float64 `json:"balance"`
}
