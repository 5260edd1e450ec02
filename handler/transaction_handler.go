package handler

import (
	"net/http"
	"time"

	"go-bankist/common"
	"go-bankist/logger"
	"go-bankist/model"
	"go-bankist/service"

	"github.com/sirupsen/logrus"
)

// TransactionHandler moves money out of and into the session account.
type TransactionHandler struct {
	sessions  *service.SessionManager
	accounts  *AccountHandler
	loanDelay time.Duration
}

func NewTransactionHandler(sessions *service.SessionManager, accounts *AccountHandler, loanDelay time.Duration) *TransactionHandler {
	return &TransactionHandler{sessions: sessions, accounts: accounts, loanDelay: loanDelay}
}

// CreateTransfer godoc
// @Summary      Transfer money to another account
// @Description  Debits the session account and credits the recipient. Resets the session countdown.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transfer body model.TransferRequest true "Recipient username and amount"
// @Success      200  {object}  model.Statement "Statement after the transfer"
// @Failure      400  {object}  common.AppError "Invalid amount, self transfer or insufficient funds"
// @Failure      401  {object}  common.AppError
// @Failure      404  {object}  common.AppError "Recipient not found"
// @Router       /api/transfers [post]
func (h *TransactionHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.TransferRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}
	id, appErr := sessionID(r)
	if appErr != nil {
		return appErr
	}

	username, _ := r.Context().Value(UsernameKey).(string)
	logger.Log.WithFields(logrus.Fields{
		"from":   username,
		"to":     req.To,
		"amount": req.Amount,
	}).Info("Transfer request received")

	if err := h.sessions.Transfer(r.Context(), id, req.To, req.Amount); err != nil {
		return DomainError(err, "Could not process transfer")
	}
	return h.accounts.writeStatement(w, r, id)
}

// RequestLoan godoc
// @Summary      Request a loan
// @Description  Approved when some deposit is at least 10% of the floored amount. The credit lands after the approval delay.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        loan body model.LoanRequest true "Requested amount"
// @Success      202  {object}  model.LoanResponse
// @Failure      400  {object}  common.AppError "Invalid amount or not eligible"
// @Failure      401  {object}  common.AppError
// @Router       /api/loans [post]
func (h *TransactionHandler) RequestLoan(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoanRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}
	id, appErr := sessionID(r)
	if appErr != nil {
		return appErr
	}

	if err := h.sessions.RequestLoan(r.Context(), id, req.Amount); err != nil {
		return DomainError(err, "Could not process loan")
	}
	common.WriteJSON(w, http.StatusAccepted, model.LoanResponse{
		Message:    "Loan approved",
		CreditedIn: h.loanDelay.String(),
	})
	return nil
}
