package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"example.com/app/models"
	"example.com/app/router"
)

var users []models.User

func Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

// @ignore
func Debug(w http.ResponseWriter, r *http.Request) {}

// ListUsers returns every user.
// @response 200 [models.User]+ list of users
// @param limit [Int] page size
func ListUsers(w http.ResponseWriter, r *http.Request) {
	_ = r.URL.Query().Get("limit")
	json.NewEncoder(w).Encode(users)
}

// CreateUser creates a user.
func CreateUser(w http.ResponseWriter, r *http.Request) {
	var in models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.User{Name: in.Name, Email: in.Email})
}

// GetUser returns one user.
// @param id The user ID
func GetUser(w http.ResponseWriter, r *http.Request) {
	id := router.URLParam(r, "id")
	w.Header().Set("X-Request-Id", id)
	n, _ := strconv.Atoi(id)
	json.NewEncoder(w).Encode(users[n])
}

func DeleteUser(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func Stats(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(models.Stats{Users: len(users)})
}
