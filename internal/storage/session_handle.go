package storage

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/XJIeI5/keypad/internal/parser"
	"github.com/XJIeI5/keypad/internal/session"
)

func (us *userSession) state() sessionState {
	return sessionState{
		ID:         us.id,
		Operand:    us.s.Operand(),
		Expression: us.s.Expression(),
		Finished:   us.s.Finished(),
		Depth:      us.s.Depth(),
	}
}

func writeState(w http.ResponseWriter, status int, st sessionState) {
	data, err := json.Marshal(st)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

// lookup finds a session owned by userId.
func (s *storage) lookup(r *http.Request, userId int) (*userSession, error) {
	id := mux.Vars(r)["id"]
	s.mu.RLock()
	defer s.mu.RUnlock()

	us, ok := s.sessions[id]
	if !ok || us.owner != userId {
		return nil, errorNoSession
	}
	return us, nil
}

func (s *storage) handleNewSession(w http.ResponseWriter, r *http.Request, userId int) {
	us := &userSession{
		id:    uuid.New().String(),
		owner: userId,
		s:     session.New(s.reg),
	}

	s.mu.Lock()
	s.sessions[us.id] = us
	s.mu.Unlock()

	writeState(w, http.StatusCreated, us.state())
}

func (s *storage) handleGetSession(w http.ResponseWriter, r *http.Request, userId int) {
	us, err := s.lookup(r, userId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	us.mu.Lock()
	defer us.mu.Unlock()
	writeState(w, http.StatusOK, us.state())
}

func (s *storage) handleDeleteSession(w http.ResponseWriter, r *http.Request, userId int) {
	us, err := s.lookup(r, userId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.mu.Lock()
	delete(s.sessions, us.id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *storage) handleReset(w http.ResponseWriter, r *http.Request, userId int) {
	us, err := s.lookup(r, userId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	us.mu.Lock()
	defer us.mu.Unlock()
	us.s.ClearAll()
	writeState(w, http.StatusOK, us.state())
}

// handlePress applies {"keys": "..."} in order. An unknown key rejects the
// whole request before any key is applied.
func (s *storage) handlePress(w http.ResponseWriter, r *http.Request, userId int) {
	if t := r.Header.Get("Content-Type"); t != "application/json" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	us, err := s.lookup(r, userId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	_press := struct {
		Keys string `json:"keys"`
	}{}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&_press); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	keys, err := parser.ParseKeys(_press.Keys, s.reg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	us.mu.Lock()
	defer us.mu.Unlock()
	for _, key := range keys {
		wasFinished := us.s.Finished()
		if err := us.s.Press(key); err != nil {
			// the tokenizer only yields bound keys
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !wasFinished && us.s.Finished() {
			s.history.Enqueue(evaluation{
				UserId:     userId,
				SessionId:  us.id,
				Expression: us.s.Expression(),
				Result:     us.s.Operand(),
				CreatedAt:  time.Now(),
			})
		}
	}
	writeState(w, http.StatusOK, us.state())
}

func (s *storage) handleHistory(w http.ResponseWriter, r *http.Request, userId int) {
	history, err := getHistory(s.db, userId, historyLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data, err := json.Marshal(history)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
