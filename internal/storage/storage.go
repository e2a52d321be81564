package storage

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/XJIeI5/keypad/internal/config"
	datastructs "github.com/XJIeI5/keypad/internal/datastructs"
	op "github.com/XJIeI5/keypad/internal/operation"
	"github.com/XJIeI5/keypad/internal/session"
)

var (
	errorInvalidToken    = fmt.Errorf("invalid token")
	errorNoAuthorization = fmt.Errorf(`no header "Authorization"`)
	errorNoSession       = fmt.Errorf("no such session")
	errorLoginTaken      = fmt.Errorf("login is taken")
)

const historyLimit = 100

type storage struct {
	router *mux.Router
	db     *sql.DB
	reg    *op.Registry
	secret []byte
	cost   int

	sessions map[string]*userSession
	mu       sync.RWMutex

	history *datastructs.CQueue[evaluation]
	done    chan struct{}
	closing sync.Once
}

// userSession serialises presses on one calculator.
type userSession struct {
	id    string
	owner int

	mu sync.Mutex
	s  *session.Session
}

type evaluation struct {
	UserId     int       `json:"-"`
	SessionId  string    `json:"session"`
	Expression string    `json:"expression"`
	Result     string    `json:"result"`
	CreatedAt  time.Time `json:"created_at"`
}

type sessionState struct {
	ID         string `json:"id"`
	Operand    string `json:"operand"`
	Expression string `json:"expression"`
	Finished   bool   `json:"finished"`
	Depth      int    `json:"depth"`
}

func newStorage(db *sql.DB, reg *op.Registry, secret []byte) *storage {
	s := &storage{
		db:       db,
		reg:      reg,
		secret:   secret,
		cost:     bcrypt.DefaultCost,
		sessions: make(map[string]*userSession),
		history:  datastructs.NewCQueue[evaluation](),
		done:     make(chan struct{}),
	}

	// background processes
	go s.writeHistory()

	r := mux.NewRouter()
	// user handle
	r.HandleFunc("/register", s.handleRegister).Methods("POST")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	// session handle
	r.HandleFunc("/session", s.authorized(s.handleNewSession)).Methods("POST")
	r.HandleFunc("/session/{id}", s.authorized(s.handleGetSession)).Methods("GET")
	r.HandleFunc("/session/{id}", s.authorized(s.handleDeleteSession)).Methods("DELETE")
	r.HandleFunc("/session/{id}/press", s.authorized(s.handlePress)).Methods("POST")
	r.HandleFunc("/session/{id}/reset", s.authorized(s.handleReset)).Methods("POST")
	// history handle
	r.HandleFunc("/history", s.authorized(s.handleHistory)).Methods("GET")

	s.router = r

	return s
}

func (s *storage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops accepting history and waits until the queued part is written.
func (s *storage) Close() {
	s.closing.Do(func() {
		if n := s.history.Len(); n > 0 {
			log.Printf("write %d queued evaluations", n)
		}
		s.history.Close()
		<-s.done
	})
}

// GetServer returns the session server and a func that flushes the
// evaluation history; call it once the server is shut down.
func GetServer(cfg config.Config, db *sql.DB, reg *op.Registry) (*http.Server, func()) {
	s := newStorage(db, reg, []byte(cfg.Secret))
	return &http.Server{
		Addr:    cfg.Addr(),
		Handler: s,
	}, s.Close
}

func (s *storage) writeHistory() {
	defer close(s.done)
	for {
		ev, ok := s.history.Dequeue()
		if !ok {
			return
		}
		if err := storeEvaluation(s.db, ev); err != nil {
			log.Printf("store evaluation of session %s: %v", ev.SessionId, err)
		}
	}
}

type authorizedHandler func(w http.ResponseWriter, r *http.Request, userId int)

func (s *storage) authorized(next authorizedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bearerToken := r.Header.Get("Authorization")
		if bearerToken == "" {
			http.Error(w, errorNoAuthorization.Error(), http.StatusUnauthorized)
			return
		}
		userId, err := s.getUserId(bearerToken)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next(w, r, userId)
	}
}
