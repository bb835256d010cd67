package handlers

import (
	"context"
	"net/http"

	"github.com/vyhuholl/order-management-rest-api/pkg/models"
)

type Users interface {
	Register(ctx context.Context, email, password string) (models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RegisterHandler struct {
	Users Users
}

// ServeHTTP godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body registerRequest true "Credentials"
// @Success 201 {object} userResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /register/ [post]
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.Users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, userResponse{ID: u.ID, Email: u.Email})
}

// TokenHandler implements the OAuth2 password flow: a form with username
// (the email) and password.
type TokenHandler struct {
	Users Users
}

// ServeHTTP godoc
// @Summary OAuth2 password flow login
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} ErrorResponse
// @Router /token/ [post]
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, r, http.StatusUnprocessableEntity, "invalid form body")
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")
	if username == "" || password == "" {
		WriteError(w, r, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	token, err := h.Users.Login(r.Context(), username, password)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func Me(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	WriteJSON(w, http.StatusOK, userResponse{ID: u.ID, Email: u.Email})
}
