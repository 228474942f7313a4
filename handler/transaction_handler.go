package handler

import (
	"errors"
	"granite-core/common"
	"granite-core/service"
	"net/http"
)

// TransactionHandler holds dependencies for transaction-related handlers.
type TransactionHandler struct {
	service *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with its dependencies.
func NewTransactionHandler(s *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// ListRecent godoc
// @Summary      Recent transactions
// @Tags         transactions
// @Produce      json
// @Success      200  {array}   model.Transaction
// @Failure      401  {object}  common.AppError "No stored token"
// @Failure      502  {object}  common.AppError "Backend fetch failed"
// @Router       /transactions/recent [get]
func (h *TransactionHandler) ListRecent(w http.ResponseWriter, r *http.Request) *common.AppError {
	transactions, err := h.service.GetRecentTransactions(r.Context())
	if err != nil {
		return mapBackendError(err, "Could not retrieve transactions")
	}
	common.WriteJSON(w, http.StatusOK, transactions)
	return nil
}

// ListMonthly godoc
// @Summary      Transactions of a calendar month
// @Description  Returns the transactions between the first and last day of the month containing the given date.
// @Tags         transactions
// @Produce      json
// @Param        month query string true "A date inside the month (YYYY-MM-DD or YYYY-MM)"
// @Success      200  {array}   model.Transaction
// @Failure      400  {object}  common.AppError "Invalid month"
// @Failure      401  {object}  common.AppError "No stored token"
// @Failure      502  {object}  common.AppError "Backend fetch failed"
// @Router       /transactions/monthly [get]
func (h *TransactionHandler) ListMonthly(w http.ResponseWriter, r *http.Request) *common.AppError {
	month := r.URL.Query().Get("month")
	transactions, err := h.service.GetMonthlyTransactions(r.Context(), month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		}
		return mapBackendError(err, "Could not retrieve transactions")
	}
	common.WriteJSON(w, http.StatusOK, transactions)
	return nil
}
