package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ferreirogomes/lastro/models"
	"github.com/ferreirogomes/lastro/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// UserHandler lida com requisições HTTP relacionadas a usuários.
type UserHandler struct {
	Store services.Store
}

// NewUserHandler cria uma nova instância do handler de usuários.
func NewUserHandler(store services.Store) *UserHandler {
	return &UserHandler{Store: store}
}

// CreateUser cria um novo usuário.
// POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		SolanaPubKey string `json:"solana_pub_key"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if requestBody.Name == "" || requestBody.Email == "" {
		http.Error(w, "Nome e email são obrigatórios", http.StatusBadRequest)
		return
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         requestBody.Name,
		Email:        requestBody.Email,
		SolanaPubKey: requestBody.SolanaPubKey,
		CreatedAt:    time.Now(),
	}

	if err := h.Store.SaveUser(user); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// GetUserByID obtém um usuário pelo ID.
// GET /users/{id}
func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		http.Error(w, "ID do usuário é obrigatório", http.StatusBadRequest)
		return
	}

	user, found, err := h.Store.GetUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Usuário não encontrado", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
