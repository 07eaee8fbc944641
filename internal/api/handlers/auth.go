package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/mduret/dvdtheque-api/internal/api/middleware"
	"github.com/mduret/dvdtheque-api/internal/domain"
	"github.com/mduret/dvdtheque-api/internal/service"
)

const serverErrorMessage = "Erreur du serveur"

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	Name     string `json:"nom"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"nom"`
	Email string `json:"email"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Body manquant. Envoie du JSON avec Content-Type: application/json")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "email et password requis")
		return
	}

	_, err := h.authService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEmail):
			writeMessage(w, http.StatusBadRequest, "format email invalide")
		case errors.Is(err, domain.ErrPasswordTooShort):
			writeMessage(w, http.StatusBadRequest, "le mot de passe doit faire au moins 8 caracteres")
		case errors.Is(err, service.ErrEmailTaken):
			writeMessage(w, http.StatusBadRequest, "Cet email est deja utilise")
		default:
			log.Printf("ERROR [AuthHandler.Register] %v", err)
			writeMessage(w, http.StatusInternalServerError, serverErrorMessage)
		}
		return
	}

	writeMessage(w, http.StatusCreated, "Utilisateur enregistre avec succes")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Body manquant. Envoie du JSON avec Content-Type: application/json")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "email et password requis")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, "Email ou mot de passe incorrect")
			return
		}
		log.Printf("ERROR [AuthHandler.Login] %v", err)
		writeMessage(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token: result.Token,
		User: UserResponse{
			ID:    result.User.ID.String(),
			Name:  result.User.Name,
			Email: result.User.Email,
		},
	})
}

// Me returns the public projection of the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "token manquant")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [AuthHandler.Me] %v", err)
		writeMessage(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
	})
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := readJSON(w, r, &req); err != nil || req.Email == "" {
		writeMessage(w, http.StatusBadRequest, "Email requis")
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		log.Printf("ERROR [AuthHandler.ForgotPassword] %v", err)
		writeMessage(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	// Same body whether or not the email has an account.
	writeMessage(w, http.StatusOK, "Si cet email existe, un lien de reinitialisation a ete envoye.")
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := readJSON(w, r, &req); err != nil || req.Token == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Token et mot de passe requis")
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, domain.ErrPasswordTooShort):
			writeMessage(w, http.StatusBadRequest, "Le mot de passe doit faire au moins 8 caracteres")
		case errors.Is(err, service.ErrInvalidResetToken):
			writeMessage(w, http.StatusBadRequest, "Lien invalide ou expire")
		default:
			log.Printf("ERROR [AuthHandler.ResetPassword] %v", err)
			writeMessage(w, http.StatusInternalServerError, serverErrorMessage)
		}
		return
	}

	writeMessage(w, http.StatusOK, "Mot de passe mis a jour avec succes")
}
