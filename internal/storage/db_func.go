package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// CreateTables creates the schema if it is missing.
func CreateTables(ctx context.Context, db *sql.DB) error {
	const (
		usersTable = `
		CREATE TABLE IF NOT EXISTS users(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			login TEXT NOT NULL UNIQUE,
			hashedPassword TEXT NOT NULL
		);`

		evaluationsTable = `
		CREATE TABLE IF NOT EXISTS evaluations(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			userId INTEGER NOT NULL,
			sessionId TEXT NOT NULL,
			expression TEXT NOT NULL,
			result TEXT NOT NULL,
			createdAt INTEGER NOT NULL,

			FOREIGN KEY (userId) REFERENCES users (id)
		);`
	)

	if _, err := db.ExecContext(ctx, usersTable); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, evaluationsTable); err != nil {
		return err
	}
	return nil
}

func (s *storage) validateToken(bearerToken string) (*jwt.Token, error) {
	tokenString := strings.TrimPrefix(bearerToken, "Bearer ")
	return jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
}

func (s *storage) getUserId(bearerToken string) (int, error) {
	token, err := s.validateToken(bearerToken)
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errorInvalidToken
	}

	user, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errorInvalidToken
	}
	idClaim, ok := user["id"].(string)
	if !ok {
		return 0, errorInvalidToken
	}
	return strconv.Atoi(idClaim)
}

func (s *storage) newToken(id int) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  strconv.Itoa(id),
		"nbf": now.Unix(),
		"exp": now.Add(30 * 24 * time.Hour).Unix(),
		"iat": now.Unix(),
	})
	return token.SignedString(s.secret)
}

func storeUser(db *sql.DB, login string, hashedPassword []byte) (int64, error) {
	var q string = `
	INSERT INTO users (login, hashedPassword) VALUES ($1, $2)
	`

	res, err := db.Exec(q, login, string(hashedPassword))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func getUser(db *sql.DB, login string) (id int, hashedPassword string, err error) {
	var q string = `
	SELECT id, hashedPassword FROM users WHERE login = $1
	`

	err = db.QueryRow(q, login).Scan(&id, &hashedPassword)
	return id, hashedPassword, err
}

func storeEvaluation(db *sql.DB, ev evaluation) error {
	var q string = `
	INSERT INTO evaluations (userId, sessionId, expression, result, createdAt) VALUES ($1, $2, $3, $4, $5)
	`

	_, err := db.Exec(q, ev.UserId, ev.SessionId, ev.Expression, ev.Result, ev.CreatedAt.UnixMilli())
	return err
}

func getHistory(db *sql.DB, userId int, limit int) ([]evaluation, error) {
	var q string = `
	SELECT sessionId, expression, result, createdAt FROM evaluations
	WHERE userId = $1 ORDER BY id DESC LIMIT $2
	`

	rows, err := db.Query(q, userId, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]evaluation, 0)
	for rows.Next() {
		var (
			ev      evaluation
			created int64
		)
		if err := rows.Scan(&ev.SessionId, &ev.Expression, &ev.Result, &created); err != nil {
			return nil, err
		}
		ev.UserId = userId
		ev.CreatedAt = time.UnixMilli(created)
		res = append(res, ev)
	}
	return res, rows.Err()
}
