package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/lcwang/idgate/core"
)

type oauthSignInRequest struct {
	IDToken string `json:"idToken"`
}

func (a *Adapter) oauthSignIn(c fiber.Ctx) error {
	var req oauthSignInRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.IDToken == "" {
		return badRequest(c, "idToken is required")
	}

	result, err := a.handler.OAuthSignIn(req.IDToken)
	if err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

func (a *Adapter) registerPhone(c fiber.Ctx) error {
	var input core.RegisterPhoneInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := a.handler.RegisterPhone(input)
	if err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(result)
}

type loginPhoneRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

func (a *Adapter) loginPhone(c fiber.Ctx) error {
	var req loginPhoneRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := a.handler.LoginPhone(req.PhoneNumber, req.Password)
	if err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

type loginEmailRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *Adapter) loginEmail(c fiber.Ctx) error {
	var req loginEmailRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := a.handler.LoginEmail(req.Email, req.Password)
	if err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

func (a *Adapter) verify(c fiber.Ctx) error {
	token := extractBearer(c)
	if token == "" {
		return handleAuthError(c, core.ErrMissingAuthHeader)
	}

	claims, err := a.handler.VerifySession(token)
	if err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(claims)
}

func (a *Adapter) me(c fiber.Ctx) error {
	token := extractBearer(c)
	if token == "" {
		return handleAuthError(c, core.ErrMissingAuthHeader)
	}

	view, err := a.handler.Me(token)
	if err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"user": view})
}

type providerRequest struct {
	Provider string `json:"provider"`
}

func (a *Adapter) linkProvider(c fiber.Ctx) error {
	assertion := extractBearer(c)
	if assertion == "" {
		return handleAuthError(c, core.ErrMissingAuthHeader)
	}

	var req providerRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	provider, err := core.ParseProvider(req.Provider)
	if err != nil {
		return handleAuthError(c, err)
	}

	view, err := a.handler.LinkProvider(assertion, provider)
	if err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"user": view})
}

func (a *Adapter) unlinkProvider(c fiber.Ctx) error {
	assertion := extractBearer(c)
	if assertion == "" {
		return handleAuthError(c, core.ErrMissingAuthHeader)
	}

	var req providerRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	provider, err := core.ParseProvider(req.Provider)
	if err != nil {
		return handleAuthError(c, err)
	}

	view, err := a.handler.UnlinkProvider(assertion, provider)
	if err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"user": view})
}

func (a *Adapter) updatePhone(c fiber.Ctx) error {
	assertion := extractBearer(c)
	if assertion == "" {
		return handleAuthError(c, core.ErrMissingAuthHeader)
	}

	var input core.UpdatePhoneInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	view, err := a.handler.UpdatePhone(assertion, input)
	if err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"user": view})
}

type phoneRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

func (a *Adapter) checkPhone(c fiber.Ctx) error {
	var req phoneRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	exists, err := a.handler.CheckPhone(req.PhoneNumber)
	if err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"exists": exists})
}

func (a *Adapter) checkPhoneForReset(c fiber.Ctx) error {
	var req phoneRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	status, err := a.handler.CheckPhoneForReset(req.PhoneNumber)
	if err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(status)
}

type resetPasswordRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	NewPassword string `json:"newPassword"`
}

func (a *Adapter) resetPassword(c fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := a.handler.ResetPassword(req.PhoneNumber, req.NewPassword); err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

// extractBearer extracts the bearer token from the Authorization header.
func extractBearer(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ""
}

func badRequest(c fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// handleAuthError maps core errors to HTTP responses. Unknown errors are
// never echoed to the caller.
func handleAuthError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// mapErrorToStatus maps core error kinds to HTTP status codes.
func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrProviderConflict),
		errors.Is(err, core.ErrFieldConflict),
		errors.Is(err, core.ErrEmailTaken),
		errors.Is(err, core.ErrPhoneTaken):
		return http.StatusConflict

	case errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrInvalidToken),
		errors.Is(err, core.ErrInvalidAssertion),
		errors.Is(err, core.ErrMissingAuthHeader):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrPhoneNotVerified):
		return http.StatusForbidden

	case errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrNotRegistered):
		return http.StatusNotFound

	case errors.Is(err, core.ErrLastLoginMethod),
		errors.Is(err, core.ErrNoPasswordSet),
		errors.Is(err, core.ErrWeakPassword),
		errors.Is(err, core.ErrInvalidProvider),
		errors.Is(err, core.ErrProviderNotLinked),
		errors.Is(err, core.ErrSubjectRequired),
		errors.Is(err, core.ErrEmailRequired),
		errors.Is(err, core.ErrInvalidEmail),
		errors.Is(err, core.ErrPhoneRequired),
		errors.Is(err, core.ErrPasswordRequired),
		errors.Is(err, core.ErrAccountIDRequired):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
