package rest

import (
	"encoding/json"
	"net/http"

	authuc "github.com/patrimonio/tracker-backend/internal/usecase/auth"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

func toAuthResponse(result *authuc.Result) authResponse {
	return authResponse{
		ID:    result.User.ID.String(),
		Name:  result.User.Name,
		Email: result.User.Email,
		Role:  string(result.User.Role),
		Token: result.Token,
	}
}

// handleRegister serves POST /api/auth/register.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, messageResponse{Message: "malformed JSON body"})
		return
	}

	result, err := s.AuthService.Register(r.Context(), authuc.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toAuthResponse(result))
}

// handleLogin serves POST /api/auth/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, messageResponse{Message: "malformed JSON body"})
		return
	}

	result, err := s.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toAuthResponse(result))
}

// handleLogout serves POST /api/auth/logout. JWTs are stateless; logout
// is the client discarding its token, the server just acknowledges.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, messageResponse{Message: "logged out, token must be discarded by the client"})
}
