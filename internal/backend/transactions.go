package backend

import (
	"context"
	"net/http"

	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/types"
)

const transactionsPath = "/ledger_transactions/"

// ListLedgerTransactions returns the transactions of all programs.
func (c *Client) ListLedgerTransactions(ctx context.Context) ([]models.LedgerTransaction, error) {
	transactions := make([]models.LedgerTransaction, 0)
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  transactionsPath,
		path:   transactionsPath,
	}, &transactions)

	return transactions, err
}

// GetLedgerTransaction returns a single transaction.
//
// The backend has no by-ID read for transactions, so the list is searched.
func (c *Client) GetLedgerTransaction(ctx context.Context, id types.ID) (models.LedgerTransaction, error) {
	transactions, err := c.ListLedgerTransactions(ctx)
	if err != nil {
		return models.LedgerTransaction{}, err
	}

	for _, t := range transactions {
		if t.ID == id {
			return t, nil
		}
	}

	return models.LedgerTransaction{}, &APIError{
		Status: http.StatusNotFound,
		Method: http.MethodGet,
		Path:   transactionsPath,
		Detail: "Transaction not found",
	}
}

func (c *Client) CreateLedgerTransaction(ctx context.Context, editable models.LedgerTransactionEditable) (models.LedgerTransaction, error) {
	var transaction models.LedgerTransaction
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  transactionsPath,
		path:   transactionsPath,
		body:   editable,
	}, &transaction)

	return transaction, err
}

// UpdateLedgerTransaction sends the complete editable state of the transaction.
func (c *Client) UpdateLedgerTransaction(ctx context.Context, id types.ID, editable models.LedgerTransactionEditable) (models.LedgerTransaction, error) {
	var transaction models.LedgerTransaction
	err := c.do(ctx, request{
		method: http.MethodPut,
		route:  itemRoute(transactionsPath),
		path:   itemPath(transactionsPath, id),
		body:   editable,
	}, &transaction)

	return transaction, err
}

func (c *Client) DeleteLedgerTransaction(ctx context.Context, id types.ID) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		route:  itemRoute(transactionsPath),
		path:   itemPath(transactionsPath, id),
	}, nil)
}
