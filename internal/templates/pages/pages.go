// Package pages holds the HTML pages Atelier serves. Pages are exposed as
// templ components so every HTML endpoint renders through the same
// middleware.Render pipeline; the markup itself lives in embedded
// html/template files next to this package.
package pages

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed *.html
var files embed.FS

var tmpl = template.Must(template.ParseFS(files, "*.html"))

// component wraps one named template + data pair as a templ.Component.
func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return tmpl.ExecuteTemplate(w, name, data)
	})
}

// Home renders the landing page. username is empty for anonymous visitors.
func Home(username string) templ.Component {
	return component("home.html", map[string]any{
		"Title":    "Home",
		"Username": username,
	})
}

// Login renders the login form, optionally pre-filling the username and
// showing a form error.
func Login(username, errorMsg string) templ.Component {
	return component("login.html", map[string]any{
		"Title":    "Sign in",
		"Username": username,
		"Error":    errorMsg,
	})
}

// Register renders the registration form.
func Register(username, errorMsg string) templ.Component {
	return component("register.html", map[string]any{
		"Title":    "Create account",
		"Username": username,
		"Error":    errorMsg,
	})
}

// ErrorPage renders the generic error page used by the central error handler
// and the 404 fallback.
func ErrorPage(code int, message string) templ.Component {
	return component("error.html", map[string]any{
		"Title":   "Error",
		"Code":    code,
		"Message": message,
	})
}
