// README: Client identity middleware; reads the optional X-Client-ID header used for plan allowances.
package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	ClientIDHeader = "X-Client-ID"
	clientIDKey    = "client_id"
)

var (
	clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	validate        = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("clientid", func(fl validator.FieldLevel) bool {
		return clientIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// isValidID accepts up to 64 ASCII letters, digits, '-' and '_'.
func isValidID(v string) bool {
	return validate.Var(v, "required,max=64,clientid") == nil
}

// ClientIdentity stores the caller's client ID in the gin context. Requests without
// the header stay anonymous; malformed IDs are rejected with 400.
func ClientIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(ClientIDHeader))
		if id == "" {
			c.Next()
			return
		}
		if !isValidID(id) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + ClientIDHeader})
			return
		}
		c.Set(clientIDKey, id)
		c.Next()
	}
}

// CallerID returns the client ID set by ClientIdentity, or "".
func CallerID(c *gin.Context) string {
	return c.GetString(clientIDKey)
}
