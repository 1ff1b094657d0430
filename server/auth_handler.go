package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"ClipFM/core/auth"
	"ClipFM/logger"
	"ClipFM/model"
)

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username"` // username or email
	Password string `json:"password"`
}

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// AuthResponse carries the issued token and the user it belongs to.
type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// LoginHandler handles user login requests.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username/email and password are required")
		return
	}

	var user *model.User
	var err error
	if strings.Contains(req.Username, "@") {
		user, err = h.userRepo.GetUserByEmail(req.Username)
	} else {
		user, err = h.userRepo.GetUserByUsername(req.Username)
	}
	if err != nil {
		logger.Error("Failed to look up user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if user == nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		logger.Warn("Login rejected", logger.String("username", req.Username))
		respondError(w, http.StatusUnauthorized, "Invalid username/email or password")
		return
	}

	token, err := h.verifier.GenerateToken(user.ID, user.Username)
	if err != nil {
		logger.Error("Failed to generate token", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Info("User logged in", logger.String("username", user.Username))
	respondJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// RegisterHandler handles user registration requests.
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Username, password and email are required")
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}

	userID, err := h.userRepo.CreateUser(user)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate entry") {
			respondError(w, http.StatusConflict, "Username or email already exists")
		} else {
			logger.Error("Failed to create user", logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}
	user.ID = userID

	token, err := h.verifier.GenerateToken(userID, user.Username)
	if err != nil {
		logger.Error("Failed to generate token", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	logger.Info("User registered",
		logger.Int64("userId", userID),
		logger.String("username", user.Username),
	)
	respondJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}
