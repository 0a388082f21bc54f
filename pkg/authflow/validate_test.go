package authflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func registerForm(email, city, password, confirm string) State {
	return State{Mode: ModeRegister, Email: email, City: city, Password: password, ConfirmPassword: confirm}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		want    Rule
		message string
	}{
		{"Valid", registerForm("new@x.com", "X", "secret123", "secret123"), RuleNone, ""},
		{"EmailMissing", registerForm("", "X", "secret123", "secret123"), RuleEmailMissing, "Please enter an email address."},
		{"CityMissing", registerForm("new@x.com", "", "secret123", "secret123"), RuleCityMissing, "Please enter a city."},
		{"PasswordMissing", registerForm("new@x.com", "X", "", "secret123"), RulePasswordMissing, "Please enter a password."},
		{"ConfirmMissing", registerForm("new@x.com", "X", "secret123", ""), RuleConfirmMissing, "Please repeat the password."},
		{"Mismatch", registerForm("new@x.com", "X", "p1", "p2"), RulePasswordMismatch, "The passwords do not match."},
		{"EmailBeatsEverything", registerForm("", "", "", ""), RuleEmailMissing, "Please enter an email address."},
		{"CityBeatsPassword", registerForm("new@x.com", "", "", "x"), RuleCityMissing, "Please enter a city."},
		{"PasswordBeatsMismatch", registerForm("new@x.com", "X", "", "x"), RulePasswordMissing, "Please enter a password."},
		{"LoginIgnoresCity", State{Mode: ModeLogin, Email: "a@b.com", Password: "secret123"}, RuleNone, ""},
		{"LoginIgnoresConfirm", State{Mode: ModeLogin, Email: "a@b.com", Password: "p1", ConfirmPassword: "p2"}, RuleNone, ""},
		{"LoginPasswordMissing", State{Mode: ModeLogin, Email: "a@b.com"}, RulePasswordMissing, "Please enter a password."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate(tt.state)
			assert.Equal(t, tt.want, v.Rule)
			assert.Equal(t, tt.message, v.Message)
			assert.Equal(t, tt.want == RuleNone, v.OK())
		})
	}
}

func TestValidate_MismatchNeverMasked(t *testing.T) {
	pairs := [][2]string{{"p1", "p2"}, {"a", "b"}, {"secret123", "secret124"}, {"x", " x"}}
	for _, pair := range pairs {
		s := registerForm("e@x.com", "C", pair[0], pair[1])
		assert.Equal(t, RulePasswordMismatch, Validate(s).Rule, "%q vs %q", pair[0], pair[1])
	}
}
