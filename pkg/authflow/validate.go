package authflow

// Rule identifies a form check
type Rule string

const (
	RuleNone             Rule = ""
	RuleEmailMissing     Rule = "email_missing"
	RuleCityMissing      Rule = "city_missing"
	RulePasswordMissing  Rule = "password_missing"
	RuleConfirmMissing   Rule = "confirm_missing"
	RulePasswordMismatch Rule = "password_mismatch"
)

// Violation is the first rule a form breaks
type Violation struct {
	Rule    Rule
	Message string
}

// OK reports whether no rule was broken
func (v Violation) OK() bool {
	return v.Rule == RuleNone
}

// Validate checks the form in a fixed order and returns the first broken rule
func Validate(s State) Violation {
	register := s.Mode == ModeRegister
	switch {
	case s.Email == "":
		return Violation{RuleEmailMissing, "Please enter an email address."}
	case register && s.City == "":
		return Violation{RuleCityMissing, "Please enter a city."}
	case s.Password == "":
		return Violation{RulePasswordMissing, "Please enter a password."}
	case register && s.ConfirmPassword == "":
		return Violation{RuleConfirmMissing, "Please repeat the password."}
	case register && s.Password != s.ConfirmPassword:
		return Violation{RulePasswordMismatch, "The passwords do not match."}
	}
	return Violation{}
}
