package config

import (
	"fmt"
	"net/url"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	msg := "configuration validation failed:"
	for _, err := range e {
		msg += fmt.Sprintf("\n  - %s", err.Error())
	}
	return msg
}

// Validate checks the settings of the selected provider and store
func (c Config) Validate() error {
	errs := CollectErrors(
		RequireOneOf("AUTH_PROVIDER", c.Provider.Kind, []string{ProviderLocal, ProviderREST}),
		RequireOneOf("DOCSTORE", c.Store.Kind, []string{StoreMemory, StoreFile, StorePostgres, StoreRedis, StoreSQLite}),
		requireDuration("AUTH_TOKEN_TTL", c.Provider.TokenTTL),
		requireDuration("AUTH_REQUEST_TIMEOUT", c.Provider.RequestTimeout),
	)

	switch c.Provider.Kind {
	case ProviderREST:
		errs = append(errs, CollectErrors(
			RequireValidURL("AUTH_REST_BASE_URL", c.Provider.RESTBaseURL),
			RequireNonEmpty("AUTH_REST_API_KEY", c.Provider.RESTAPIKey),
		)...)
	}

	switch c.Store.Kind {
	case StoreFile:
		errs = append(errs, CollectErrors(RequireNonEmpty("DOCSTORE_DATA_DIR", c.Store.DataDir))...)
	case StoreSQLite:
		errs = append(errs, CollectErrors(RequireNonEmpty("DOCSTORE_SQLITE_PATH", c.Store.SQLitePath))...)
	case StoreRedis:
		errs = append(errs, CollectErrors(RequireNonEmpty("REDIS_ADDR", c.Redis.Addr))...)
	case StorePostgres:
		errs = append(errs, CollectErrors(
			RequireNonEmpty("PG_HOST", c.Database.Host),
			RequireNonEmpty("PG_DATABASE", c.Database.Database),
		)...)
	}

	if c.RateLimit.Enabled {
		errs = append(errs, CollectErrors(
			RequirePositive("RATELIMIT_BURST", c.RateLimit.Burst),
			RequirePositive("RATELIMIT_SIGNIN_BURST", c.RateLimit.SignInBurst),
			requireDuration("RATELIMIT_BUCKET_TTL", c.RateLimit.BucketTTL),
		)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RequireNonEmpty validates that a string field is not empty
func RequireNonEmpty(field, value string) *ValidationError {
	if value == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// RequirePositive validates that an integer field is positive
func RequirePositive(field string, value int) *ValidationError {
	if value <= 0 {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be positive, got %d", value),
		}
	}
	return nil
}

// RequireValidURL validates that a string is a URL with a scheme
func RequireValidURL(field, value string) *ValidationError {
	if value == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}

	parsedURL, err := url.Parse(value)
	if err != nil {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("invalid URL: %v", err),
		}
	}
	if parsedURL.Scheme == "" {
		return &ValidationError{
			Field:   field,
			Message: "URL must have a scheme (http:// or https://)",
		}
	}
	return nil
}

// RequireOneOf validates that a value is one of the allowed values
func RequireOneOf(field, value string, allowed []string) *ValidationError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be one of %v, got %q", allowed, value),
	}
}

func requireDuration(field, value string) *ValidationError {
	d, err := ParseDuration(value)
	if err != nil {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("invalid duration %q", value),
		}
	}
	if d <= 0 {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be positive, got %v", d),
		}
	}
	return nil
}

// CollectErrors gathers the non-nil errors
func CollectErrors(errors ...*ValidationError) ValidationErrors {
	var result ValidationErrors
	for _, err := range errors {
		if err != nil {
			result = append(result, *err)
		}
	}
	return result
}
