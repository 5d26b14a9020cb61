package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/korepetycje-admin/internal/middleware"
	"github.com/noah-isme/korepetycje-admin/internal/models"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
	"github.com/noah-isme/korepetycje-admin/pkg/response"
)

const genericFailure = "Coś poszło nie tak. Spróbuj ponownie."

// BaseVM carries what the layout needs on every page.
type BaseVM struct {
	Title string
	Nav   string
	User  *models.UserInfo
	Flash *middleware.Flash
}

func newBaseVM(c *gin.Context, title, nav string) BaseVM {
	vm := BaseVM{Title: title, Nav: nav, Flash: middleware.FlashFrom(c)}
	if claims, ok := middleware.CurrentUser(c); ok {
		info := claims.Info()
		vm.User = &info
	}
	return vm
}

type errorVM struct {
	BaseVM
	Message string
}

func renderError(c *gin.Context, status int, message string) {
	response.Page(c, status, "error.html", errorVM{BaseVM: newBaseVM(c, "Błąd", ""), Message: message})
}

// userMessage is the toast text for err. Internal failures are not shown
// verbatim.
func userMessage(err error) string {
	appErr := appErrors.FromError(err)
	if appErr == nil || appErr.Status >= http.StatusInternalServerError {
		return genericFailure
	}
	return appErr.Message
}

// redirectWithFlash finishes a form POST by redirecting to path with a
// one-shot toast.
func redirectWithFlash(c *gin.Context, path, kind, message string) {
	middleware.SetFlash(c, kind, message)
	c.Redirect(http.StatusSeeOther, path)
}

func redirectWithError(c *gin.Context, path string, err error) {
	redirectWithFlash(c, path, middleware.FlashError, userMessage(err))
}

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return nil
	}
	return claims
}
