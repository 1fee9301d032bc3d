package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"skateswap/internal/feature/auth/domain"
	"skateswap/internal/feature/auth/transport/http/dto"
)

// statusOf maps a domain error kind to an HTTP status.
func statusOf(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation, domain.KindConflict, domain.KindAuth:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError は err をJSONエラーレスポンスに変換します。
// Infrastructure failures are logged and answered with fallback so that no
// internal detail reaches the client.
func writeError(c *gin.Context, op string, err error, fallback string) {
	kind := domain.KindOf(err)
	if kind == domain.KindInfrastructure {
		slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
	} else {
		slog.Warn(op+" rejected", "error", err, "kind", kind.String(), "remote_addr", c.ClientIP())
	}
	c.JSON(statusOf(kind), dto.ErrorRes{Error: domain.MessageOf(err, fallback)})
}

// writeBindError answers a request whose body could not be bound.
func writeBindError(c *gin.Context, op string, err error) {
	slog.Warn(op+" validation failed", "error", err, "remote_addr", c.ClientIP())
	c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: bindErrorMessage(err)})
}

// bindErrorMessage turns the first validator field error into "<field> is required"
// or "<field> is invalid". Malformed JSON yields "invalid request".
func bindErrorMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "invalid request"
	}
	fe := ve[0]
	name := jsonName(fe.Field())
	if fe.Tag() == "required" {
		return name + " is required"
	}
	return name + " is invalid"
}

// jsonName lower-cases the first rune of a Go field name ("NewPassword" -> "newPassword").
func jsonName(field string) string {
	r, size := utf8.DecodeRuneInString(field)
	if r == utf8.RuneError {
		return field
	}
	return string(unicode.ToLower(r)) + field[size:]
}

func isValidation(err error) bool {
	return domain.KindOf(err) == domain.KindValidation
}
