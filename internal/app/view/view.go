// Package view renders the server-side pages for the web application.
package view

import (
	"embed"
	"encoding/base64"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/suffragio/suffragio/internal/storage/db"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Renderer satisfies [echo.Renderer] with the embedded page templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates. It panics on malformed
// templates, which is a build defect rather than a runtime condition.
func NewRenderer() *Renderer {
	return &Renderer{
		templates: template.Must(template.ParseFS(templateFiles, "templates/*.html")),
	}
}

// Render satisfies [echo.Renderer].
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// Login is the data for the login page.
type Login struct {
	Flash string
	Error string
}

// Registration is the data for the voter registration page.
type Registration struct {
	Error string
}

// Dashboard is the data for the dashboard page.
type Dashboard struct {
	Voters []Voter
}

// Voter is the dashboard projection of a voter row. It carries no credential
// material.
type Voter struct {
	FullName    string
	UserName    string
	DateOfBirth string
	Photo       template.URL
}

// NewVoter projects a stored voter row for rendering. The photo is inlined
// as a data URI, typed for the sniffed image format.
func NewVoter(v db.Voter) Voter {
	names := []string{v.FirstName}
	if v.MiddleName.Valid && v.MiddleName.String != "" {
		names = append(names, v.MiddleName.String)
	}
	names = append(names, v.LastName)

	uri := "data:" + http.DetectContentType(v.Photo) +
		";base64," + base64.StdEncoding.EncodeToString(v.Photo)

	return Voter{
		FullName:    strings.Join(names, " "),
		UserName:    v.UserName,
		DateOfBirth: v.DateOfBirth.Format("2 January 2006"),
		Photo:       template.URL(uri), //nolint:gosec // built from sniffed type + base64, not user markup
	}
}
