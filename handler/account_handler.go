package handler

import (
	"net/http"

	"go-bankist/common"
	"go-bankist/logger"
	"go-bankist/model"
	"go-bankist/service"

	"github.com/sirupsen/logrus"
)

// AccountHandler serves the statement of the session account and closes it.
type AccountHandler struct {
	sessions   *service.SessionManager
	statements *service.StatementService
}

func NewAccountHandler(sessions *service.SessionManager, statements *service.StatementService) *AccountHandler {
	return &AccountHandler{sessions: sessions, statements: statements}
}

func (h *AccountHandler) writeStatement(w http.ResponseWriter, r *http.Request, id string) *common.AppError {
	s, ok := h.sessions.Lookup(id)
	if !ok {
		return DomainError(service.ErrNoSession, "")
	}
	acc, err := h.sessions.Account(id)
	if err != nil {
		return DomainError(err, "Could not load account")
	}
	st, err := h.statements.Statement(r.Context(), acc, s.SortByValue)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not build statement", err)
	}
	common.WriteJSON(w, http.StatusOK, st)
	return nil
}

// GetStatement godoc
// @Summary      Show the account statement
// @Description  Balance, in/out/interest summary and the movement list in the session's current order.
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.Statement
// @Failure      401  {object}  common.AppError
// @Failure      500  {object}  common.AppError
// @Router       /api/statement [get]
func (h *AccountHandler) GetStatement(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := sessionID(r)
	if appErr != nil {
		return appErr
	}
	return h.writeStatement(w, r, id)
}

// ToggleSort godoc
// @Summary      Toggle sorting movements by value
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.Statement
// @Failure      401  {object}  common.AppError
// @Router       /api/statement/sort [post]
func (h *AccountHandler) ToggleSort(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := sessionID(r)
	if appErr != nil {
		return appErr
	}
	if _, err := h.sessions.ToggleSort(id); err != nil {
		return DomainError(err, "Could not sort movements")
	}
	return h.writeStatement(w, r, id)
}

// CloseAccount godoc
// @Summary      Close the session account
// @Description  Requires the account's own username and PIN. Ends the session on success.
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        confirmation body model.CloseAccountRequest true "Username and PIN of the session account"
// @Success      200  {object}  model.ViewResponse
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError "Credentials do not match the session account"
// @Router       /api/account [delete]
func (h *AccountHandler) CloseAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CloseAccountRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}
	id, appErr := sessionID(r)
	if appErr != nil {
		return appErr
	}

	username, _ := r.Context().Value(UsernameKey).(string)
	logger.Log.WithFields(logrus.Fields{
		"username":     username,
		"confirmation": req.Username,
	}).Info("Close account request received")

	if err := h.sessions.CloseAccount(r.Context(), id, req.Username, req.Pin); err != nil {
		return DomainError(err, "Could not close account")
	}
	common.WriteJSON(w, http.StatusOK, model.ViewResponse{View: model.ViewHidden, Message: "Account closed"})
	return nil
}
