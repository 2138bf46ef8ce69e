package models

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"consolebridge/internal/db"
	"consolebridge/internal/env"
	"consolebridge/internal/errmsg"
	"consolebridge/internal/utils"

	sj "github.com/brianvoe/sjwt"
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
)

// Operator is a console administrator. The token generated at login is
// the long-lived admin session token every console route is guarded by.
type Operator struct {
	Username string `json:"username" bson:"username"`
	Password string `json:"password" bson:"password"`
}

func (op *Operator) GenToken() string {
	claims, _ := sj.ToClaims(op)
	claims.SetExpiresAt(time.Now().Add(365 * 24 * time.Hour))

	token := claims.Generate(env.JWT_SECRET)
	return token
}

func (op *Operator) ParseToken(token string) error {
	hasVerified := sj.Verify(token, env.JWT_SECRET)

	if !hasVerified {
		return errors.New("unauthorized")
	}

	claims, _ := sj.Parse(token)
	err := claims.Validate()
	claims.ToStruct(&op)

	return err
}

func AccountMiddleware(c fiber.Ctx) error {
	var token string

	authHeader := c.Get("Authorization")

	if authHeader != "" &&
		strings.HasPrefix(authHeader, "Bearer") {

		tokens := strings.Fields(authHeader)
		if len(tokens) == 2 {
			token = tokens[1]
		}

		if token == "" {
			return utils.Error(
				c,
				http.StatusUnauthorized,
				errors.New("unauthorized"),
			)
		}

		var operator Operator
		err := operator.ParseToken(token)
		if err != nil {
			return utils.Error(
				c,
				http.StatusUnauthorized,
				errors.New("unauthorized"),
			)
		}

		if operator.Username == "" {
			return utils.Error(
				c,
				http.StatusUnauthorized,
				errors.New("unauthorized"),
			)
		}

		utils.SetLocals(c, "operator", operator)
	}

	if token == "" {
		return utils.Error(
			c,
			http.StatusUnauthorized,
			errors.New("unauthorized"),
		)
	}

	return c.Next()
}

// OperatorWebSocketMiddleware extracts the Authorization token from query
// parameters for WebSocket connections, since browsers don't allow custom
// headers in WebSocket upgrades.
// Expected query parameter: ?authorization=<token>
func OperatorWebSocketMiddleware(c fiber.Ctx) error {
	authHeader := strings.TrimSpace(c.Get("Authorization"))

	var token string
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		tokens := strings.Fields(authHeader)
		if len(tokens) == 2 {
			token = strings.TrimSpace(tokens[1])
		}
	} else {
		token = strings.TrimSpace(c.Query("authorization"))
	}

	if token == "" {
		return utils.StatusError(c, errmsg.OperatorNoToken)
	}

	var operator Operator
	if err := operator.ParseToken(token); err != nil {
		return utils.StatusError(c, errmsg.OperatorNoToken)
	}

	utils.SetLocals(c, "operator", operator)

	return c.Next()
}

func (op *Operator) Get(username string) errmsg.StatusError {
	err := db.Operators.FindOne(db.Ctx, bson.M{
		"username": username,
	}).Decode(&op)
	if err != nil {
		return errmsg.OperatorNotExists
	}

	if op.Password == "" {
		return errmsg.OperatorNotExists
	}

	return errmsg.EmptyStatusError
}
