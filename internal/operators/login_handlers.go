package operators

import (
	"encoding/json"
	"strings"

	"consolebridge/internal/errmsg"
	"consolebridge/internal/events"
	"consolebridge/internal/models"
	"consolebridge/internal/utils"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

func loginHandler(c fiber.Ctx) error {
	var body models.Operator
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return utils.StatusError(c, errmsg.OperatorInvalidPayload)
	}

	body.Username = strings.TrimSpace(body.Username)
	body.Password = strings.TrimSpace(body.Password)
	if body.Username == "" || body.Password == "" {
		return utils.StatusError(c, errmsg.OperatorInvalidPayload)
	}

	op := models.Operator{}
	serr := op.Get(body.Username)
	if serr != errmsg.EmptyStatusError {
		return utils.StatusError(c, serr)
	}

	if bcrypt.CompareHashAndPassword(
		[]byte(op.Password),
		[]byte(body.Password),
	) != nil {
		return utils.StatusError(c, errmsg.OperatorWrongPassword)
	}

	token := op.GenToken()

	if events.Em != nil {
		events.Em.OperatorLogin(op.Username)
	}

	op.Password = ""

	return c.JSON(bson.M{
		"token":    token,
		"operator": op,
	})
}
