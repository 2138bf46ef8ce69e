package credentials

import (
	"encoding/json"
	"strings"

	"consolebridge/internal/errmsg"
	"consolebridge/internal/events"
	"consolebridge/internal/models"
	"consolebridge/internal/utils"

	"github.com/gofiber/fiber/v3"
)

// submitHandler stores the secondary identity collected by the console's
// credential challenge dialog. The secret arrives pre-hashed; a value
// that does not look hashed is refused so a raw password can never land
// in the store.
func submitHandler(c fiber.Ctx) error {
	tenantID := strings.TrimSpace(c.Params("tenantID"))
	if tenantID == "" {
		return utils.StatusError(c, errmsg.CredentialInvalidPayload)
	}

	var body struct {
		Username   string `json:"username"`
		SecretHash string `json:"secretHash"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return utils.StatusError(c, errmsg.CredentialInvalidPayload)
	}

	body.Username = strings.TrimSpace(body.Username)
	body.SecretHash = strings.TrimSpace(body.SecretHash)
	if body.Username == "" || body.SecretHash == "" {
		return utils.StatusError(c, errmsg.CredentialInvalidPayload)
	}

	if !looksHashed(body.SecretHash) {
		return utils.StatusError(c, errmsg.CredentialRawSecret)
	}

	cred := models.TenantCredential{
		TenantID:   tenantID,
		Username:   body.Username,
		SecretHash: body.SecretHash,
	}

	if err := cred.Save(); err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	var operator models.Operator
	utils.GetLocals(c, "operator", &operator)

	if events.Em != nil {
		events.Em.CredentialSaved(operator.Username, tenantID)
	}

	return c.JSON(map[string]string{
		"tenantID": tenantID,
		"username": cred.Username,
	})
}

// probeHandler reports whether a tenant has a stored identity. The hash
// itself never leaves the store.
func probeHandler(c fiber.Ctx) error {
	tenantID := strings.TrimSpace(c.Params("tenantID"))

	var cred models.TenantCredential
	if serr := cred.Get(tenantID); serr != errmsg.EmptyStatusError {
		return utils.StatusError(c, serr)
	}

	return c.JSON(map[string]any{
		"tenantID":  cred.TenantID,
		"username":  cred.Username,
		"updatedAt": cred.UpdatedAt,
	})
}

// looksHashed accepts fixed-length hex digests (sha1/sha256/sha512).
func looksHashed(secret string) bool {
	switch len(secret) {
	case 40, 64, 128:
	default:
		return false
	}

	for _, r := range secret {
		isHex := (r >= '0' && r <= '9') ||
			(r >= 'a' && r <= 'f') ||
			(r >= 'A' && r <= 'F')
		if !isHex {
			return false
		}
	}

	return true
}
