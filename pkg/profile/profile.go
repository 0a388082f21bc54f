package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Collection is the document store collection holding profiles
const Collection = "users"

// UserProfile is the registration record of one account
type UserProfile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Fullname     string    `json:"fullname"`
	City         string    `json:"city"`
	PostalCode   string    `json:"postalcode"`
	Street       string    `json:"street"`
	HouseNumber  int       `json:"housenumber"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Registration holds the form values a new profile is built from
type Registration struct {
	Email       string
	Fullname    string
	City        string
	PostalCode  string
	Street      string
	HouseNumber int
}

// Encode serializes a profile into its document form
func Encode(p UserProfile) ([]byte, error) {
	return json.Marshal(p)
}

// Decode parses a document into a profile. Unknown fields, missing or null
// fields and type mismatches are rejected.
func Decode(data []byte) (UserProfile, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return UserProfile{}, fmt.Errorf("document is not an object: %w", err)
	}
	for _, field := range requiredFields {
		value, ok := raw[field]
		if !ok {
			return UserProfile{}, fmt.Errorf("document is missing field %q", field)
		}
		if string(bytes.TrimSpace(value)) == "null" {
			return UserProfile{}, fmt.Errorf("document field %q is null", field)
		}
	}

	var p UserProfile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return UserProfile{}, err
	}
	return p, nil
}

var requiredFields = []string{"id", "email", "fullname", "city", "postalcode", "street", "housenumber", "registeredAt"}
