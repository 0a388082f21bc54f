package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/ArtemSyntax/BibermobilSauna/pkg/authflow"
	apperrors "github.com/ArtemSyntax/BibermobilSauna/pkg/errors"
	"github.com/ArtemSyntax/BibermobilSauna/pkg/profile"
	"github.com/jinzhu/copier"
)

// ProfileResponse is the signed-in user's profile
type ProfileResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Fullname     string    `json:"fullname"`
	City         string    `json:"city"`
	PostalCode   string    `json:"postalcode"`
	Street       string    `json:"street"`
	HouseNumber  int       `json:"housenumber"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// FormResponse mirrors the input fields. Passwords are never echoed back.
type FormResponse struct {
	Email              string `json:"email"`
	Fullname           string `json:"fullname"`
	City               string `json:"city"`
	PostalCode         string `json:"postalCode"`
	Street             string `json:"street"`
	HouseNumber        string `json:"houseNumber"`
	PasswordSet        bool   `json:"password_set"`
	ConfirmPasswordSet bool   `json:"confirm_password_set"`
}

// ErrorBody describes the last recorded error
type ErrorBody struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	Classification string `json:"classification,omitempty"`
}

// SessionResponse is one session snapshot
type SessionResponse struct {
	Mode           string           `json:"mode"`
	LoggedIn       bool             `json:"logged_in"`
	DisplayName    string           `json:"display_name"`
	User           *ProfileResponse `json:"user,omitempty"`
	Form           FormResponse     `json:"form"`
	Error          *ErrorBody       `json:"error,omitempty"`
	Notice         string           `json:"notice,omitempty"`
	Submitting     bool             `json:"submitting"`
	SubmitDisabled bool             `json:"submit_disabled"`
}

// ModeRequest selects a mode. An empty mode toggles.
type ModeRequest struct {
	Mode string `json:"mode"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewSessionResponse converts a snapshot for the wire
func NewSessionResponse(s authflow.State) SessionResponse {
	resp := SessionResponse{
		Mode:           s.Mode.String(),
		LoggedIn:       s.LoggedIn(),
		DisplayName:    s.DisplayName(),
		Notice:         s.Notice,
		Submitting:     s.Submitting,
		SubmitDisabled: s.SubmitDisabled(),
		Form: FormResponse{
			Email:              s.Email,
			Fullname:           s.Fullname,
			City:               s.City,
			PostalCode:         s.PostalCode,
			Street:             s.Street,
			HouseNumber:        s.HouseNumber,
			PasswordSet:        s.Password != "",
			ConfirmPasswordSet: s.ConfirmPassword != "",
		},
	}
	if s.User != nil {
		resp.User = newProfileResponse(*s.User)
	}
	if s.Err != nil || s.ErrorMessage != "" {
		resp.Error = &ErrorBody{
			Code:           string(apperrors.GetCode(s.Err)),
			Message:        s.ErrorMessage,
			Classification: s.Classification.String(),
		}
	}
	return resp
}

func newProfileResponse(p profile.UserProfile) *ProfileResponse {
	var resp ProfileResponse
	// copier only fails on nil or non-struct arguments; both are fixed struct pointers here.
	_ = copier.Copy(&resp, &p)
	return &resp
}

// statusFor picks the HTTP status reporting a snapshot
func statusFor(s authflow.State) int {
	var e *apperrors.Error
	if errors.As(s.Err, &e) {
		return e.HTTPStatusCode()
	}
	if s.Err != nil {
		return http.StatusInternalServerError
	}
	return http.StatusOK
}
