package app

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/bytes"

	"github.com/suffragio/suffragio/internal/app/view"
	"github.com/suffragio/suffragio/internal/config"
	"github.com/suffragio/suffragio/internal/sec"
	"github.com/suffragio/suffragio/internal/storage"
	"github.com/suffragio/suffragio/internal/storage/db"
	"github.com/suffragio/suffragio/internal/upload"
)

// photoField is the multipart form field carrying the voter photo.
const photoField = "user_image"

type handler struct {
	cfg    *config.Config
	logger *slog.Logger
	voters storage.Voters
}

func (h handler) register(e *echo.Echo) {
	e.GET("/", h.loginPage)
	e.GET("/login", h.loginPage)
	e.POST("/login", h.login)

	// The request-level cap leaves headroom over the photo cap for the text
	// fields and the multipart framing.
	bodyLimit := middleware.BodyLimit(bytes.Format(h.cfg.MaxUploadBytes + (1 << 20)))
	e.GET("/voters-registration", h.registrationPage)
	e.POST("/voters-registration", h.registerVoter, bodyLimit)

	e.GET("/dashboard", h.dashboard)
	e.GET("/parties-registration", h.partiesPage)
	e.GET("/vote", h.votePage)
}

func (h handler) loginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login", view.Login{})
}

func (h handler) registrationPage(c echo.Context) error {
	return c.Render(http.StatusOK, "voters-registration", view.Registration{})
}

func (h handler) dashboard(c echo.Context) error {
	return c.Render(http.StatusOK, "dashboard", view.Dashboard{})
}

func (h handler) partiesPage(c echo.Context) error {
	return c.Render(http.StatusOK, "parties-registration", nil)
}

func (h handler) votePage(c echo.Context) error {
	return c.Render(http.StatusOK, "vote", nil)
}

// registerVoter handles the registration form. All validation happens before
// the password is hashed or the store is touched, so a rejected request
// leaves no rows behind.
func (h handler) registerVoter(c echo.Context) error {
	firstName := strings.TrimSpace(c.FormValue("first_name"))
	middleName := strings.TrimSpace(c.FormValue("middle_name"))
	lastName := strings.TrimSpace(c.FormValue("last_name"))
	dobRaw := strings.TrimSpace(c.FormValue("dob"))
	userName := strings.TrimSpace(c.FormValue("user_name"))
	password := c.FormValue("password")

	if firstName == "" || lastName == "" || dobRaw == "" || userName == "" || password == "" {
		return h.rejectRegistration(c, http.StatusBadRequest,
			"All fields except middle name are required.")
	}
	dob, err := time.Parse(time.DateOnly, dobRaw)
	if err != nil {
		return h.rejectRegistration(c, http.StatusBadRequest,
			"Date of birth must be a valid date.")
	}

	fh, err := c.FormFile(photoField)
	if err != nil {
		return h.rejectRegistration(c, http.StatusBadRequest, upload.ErrMissingFile.Error())
	}
	photo, err := upload.Receive(fh, h.cfg.MaxUploadBytes)
	switch {
	case errors.Is(err, upload.ErrMissingFile):
		return h.rejectRegistration(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, upload.ErrTooLarge):
		return h.rejectRegistration(c, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, upload.ErrUnsupportedMedia):
		return h.rejectRegistration(c, http.StatusUnsupportedMediaType, err.Error())
	case err != nil:
		h.logger.ErrorContext(c.Request().Context(), "failed to receive photo upload",
			slog.Any("error", err),
		)
		return h.rejectRegistration(c, http.StatusInternalServerError,
			"Registration failed. Please try again later.")
	}

	hash, err := sec.HashPassword(password)
	if err != nil {
		h.logger.ErrorContext(c.Request().Context(), "failed to hash password",
			slog.Any("error", err),
		)
		return h.rejectRegistration(c, http.StatusInternalServerError,
			"Registration failed. Please try again later.")
	}

	_, err = h.voters.CreateVoter(c.Request().Context(), db.Voter{
		FirstName:   firstName,
		MiddleName:  sql.NullString{String: middleName, Valid: middleName != ""},
		LastName:    lastName,
		DateOfBirth: dob,
		Photo:       photo,
		UserName:    userName,
	}, hash)
	switch {
	case errors.Is(err, storage.ErrAlreadyExists):
		return h.rejectRegistration(c, http.StatusConflict,
			"That username is already taken.")
	case errors.Is(err, storage.ErrInvalidUsername),
		errors.Is(err, storage.ErrMissingPhoto):
		return h.rejectRegistration(c, http.StatusBadRequest, err.Error())
	case err != nil:
		h.logger.ErrorContext(c.Request().Context(), "failed to create voter",
			slog.String("user_name", userName),
			slog.Any("error", err),
		)
		return h.rejectRegistration(c, http.StatusInternalServerError,
			"Registration failed. Please try again later.")
	}

	return c.Render(http.StatusOK, "login", view.Login{
		Flash: "Registration complete. You can log in now.",
	})
}

// login handles the login form. Unknown usernames and wrong passwords share
// one rejection path: the unknown-username branch burns an equivalent hash
// verification so neither the response nor its timing reveals which check
// failed.
func (h handler) login(c echo.Context) error {
	userName := strings.TrimSpace(c.FormValue("user_name"))
	password := c.FormValue("password")

	auth, err := h.voters.GetAuthByName(c.Request().Context(), userName)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		_ = sec.ComparePassword(password, sec.DummyHash())
		return h.rejectLogin(c)
	case err != nil:
		h.logger.ErrorContext(c.Request().Context(), "failed to look up credentials",
			slog.Any("error", err),
		)
		return c.Render(http.StatusInternalServerError, "login", view.Login{
			Error: "Login failed. Please try again later.",
		})
	}

	if err := sec.ComparePassword(password, auth.PasswordHash); err != nil {
		if errors.Is(err, sec.ErrPasswordMismatch) {
			return h.rejectLogin(c)
		}
		h.logger.ErrorContext(c.Request().Context(), "stored password hash is unreadable",
			slog.String("user_name", auth.UserName),
			slog.Any("error", err),
		)
		return c.Render(http.StatusInternalServerError, "login", view.Login{
			Error: "Login failed. Please try again later.",
		})
	}

	voters, err := h.voters.ListVotersByName(c.Request().Context(), auth.UserName)
	if err != nil {
		h.logger.ErrorContext(c.Request().Context(), "failed to load voter profile",
			slog.String("user_name", auth.UserName),
			slog.Any("error", err),
		)
		return c.Render(http.StatusInternalServerError, "login", view.Login{
			Error: "Login failed. Please try again later.",
		})
	}

	data := view.Dashboard{Voters: make([]view.Voter, 0, len(voters))}
	for _, v := range voters {
		data.Voters = append(data.Voters, view.NewVoter(v))
	}
	return c.Render(http.StatusOK, "dashboard", data)
}

func (h handler) rejectLogin(c echo.Context) error {
	return c.Render(http.StatusUnauthorized, "login", view.Login{
		Error: "Invalid credentials.",
	})
}

func (h handler) rejectRegistration(c echo.Context, status int, msg string) error {
	return c.Render(status, "voters-registration", view.Registration{Error: msg})
}
