package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

type registerUser struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// loginTaken reports whether err is the users.login UNIQUE constraint.
// A concurrent register can get past the lookup and only fail here.
func loginTaken(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func decodeUser(w http.ResponseWriter, r *http.Request) (registerUser, bool) {
	if t := r.Header.Get("Content-Type"); t != "application/json" {
		w.WriteHeader(http.StatusBadRequest)
		return registerUser{}, false
	}
	register := registerUser{}
	if err := json.NewDecoder(r.Body).Decode(&register); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return registerUser{}, false
	}
	if register.Login == "" || register.Password == "" {
		http.Error(w, "login and password are required", http.StatusBadRequest)
		return registerUser{}, false
	}
	return register, true
}

func (s *storage) handleRegister(w http.ResponseWriter, r *http.Request) {
	register, ok := decodeUser(w, r)
	if !ok {
		return
	}
	if _, _, err := getUser(s.db, register.Login); err == nil {
		http.Error(w, errorLoginTaken.Error(), http.StatusConflict)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(register.Password), s.cost)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err := storeUser(s.db, register.Login, hashedPassword); err != nil {
		if loginTaken(err) {
			http.Error(w, errorLoginTaken.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *storage) handleLogin(w http.ResponseWriter, r *http.Request) {
	register, ok := decodeUser(w, r)
	if !ok {
		return
	}

	id, hashedPassword, err := getUser(s.db, register.Login)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "incorrect login", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(register.Password)); err != nil {
		http.Error(w, "incorrect password", http.StatusBadRequest)
		return
	}

	tokenString, err := s.newToken(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(tokenString)
}
