package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/lcwang/idgate/core"
)

type Adapter struct {
	app     *fiber.App
	handler core.AuthHandler
}

var _ core.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

func (a *Adapter) RegisterRoutes(handler core.AuthHandler, basePath string) error {
	a.handler = handler
	api := a.app.Group(basePath)

	// Credential entry points
	api.Post("/oauth/verify-token", a.oauthSignIn)
	api.Post("/register-phone", a.registerPhone)
	api.Post("/login-phone", a.loginPhone)
	api.Post("/login-email", a.loginEmail)

	// Session
	api.Get("/verify", a.verify)
	api.Get("/me", a.me)

	// Credential bindings (Bearer carries the oracle assertion)
	api.Post("/link-provider", a.linkProvider)
	api.Post("/unlink-provider", a.unlinkProvider)
	api.Post("/update-phone", a.updatePhone)

	// Phone checks & reset
	api.Post("/check-phone", a.checkPhone)
	api.Post("/check-phone-for-reset", a.checkPhoneForReset)
	api.Post("/reset-password", a.resetPassword)

	return nil
}
