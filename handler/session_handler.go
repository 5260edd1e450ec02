package handler

import (
	"net/http"
	"time"

	"go-bankist/common"
	"go-bankist/logger"
	"go-bankist/model"
	"go-bankist/service"
)

// SessionHandler handles login, logout and the session countdown.
type SessionHandler struct {
	sessions   *service.SessionManager
	auth       *service.AuthService
	statements *service.StatementService
	tokenTTL   time.Duration
}

func NewSessionHandler(sessions *service.SessionManager, auth *service.AuthService, statements *service.StatementService, tokenTTL time.Duration) *SessionHandler {
	return &SessionHandler{
		sessions:   sessions,
		auth:       auth,
		statements: statements,
		tokenTTL:   tokenTTL,
	}
}

// Login godoc
// @Summary      Log in with username and PIN
// @Description  Starts a session, replacing any active one, and returns a token bound to it together with the first statement.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Username and PIN"
// @Success      200  {object}  model.LoginResponse
// @Failure      400  {object}  common.AppError "Malformed request"
// @Failure      401  {object}  common.AppError "Wrong username or PIN"
// @Failure      500  {object}  common.AppError
// @Router       /login [post]
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	log := logger.Log.WithField("username", req.Username)
	log.Info("Login request received")

	session, acc, err := h.sessions.Login(req.Username, req.Pin)
	if err != nil {
		return DomainError(err, "Could not log in")
	}

	expiresAt := time.Now().Add(h.tokenTTL)
	token, err := h.auth.GenerateToken(session.Username, session.ID, expiresAt)
	if err != nil {
		h.sessions.Logout(session.ID)
		return common.NewAppError(http.StatusInternalServerError, "Could not create session token", err)
	}

	st, err := h.statements.Statement(r.Context(), acc, session.SortByValue)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not build statement", err)
	}

	log.Info("Login successful")
	common.WriteJSON(w, http.StatusOK, model.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		View:      model.ViewVisible,
		Welcome:   st.Welcome,
		Timer:     session.TimerDisplay(),
		Statement: st,
	})
	return nil
}

// Logout godoc
// @Summary      Log out
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.ViewResponse
// @Failure      401  {object}  common.AppError
// @Router       /api/logout [post]
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := sessionID(r)
	if appErr != nil {
		return appErr
	}
	h.sessions.Logout(id)
	common.WriteJSON(w, http.StatusOK, model.ViewResponse{View: model.ViewHidden, Message: "Logged out"})
	return nil
}

// Session godoc
// @Summary      Show the session countdown
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.SessionResponse
// @Failure      401  {object}  common.AppError
// @Router       /api/session [get]
func (h *SessionHandler) Session(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := sessionID(r)
	if appErr != nil {
		return appErr
	}
	s, ok := h.sessions.Lookup(id)
	if !ok {
		return DomainError(service.ErrNoSession, "")
	}
	common.WriteJSON(w, http.StatusOK, model.SessionResponse{
		Username: s.Username,
		Timer:    s.TimerDisplay(),
		State:    string(s.TimerState()),
		Sorted:   s.SortByValue,
	})
	return nil
}
