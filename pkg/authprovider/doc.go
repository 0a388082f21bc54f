// Package authprovider is the boundary to the external authentication
// provider: credential verification, account creation and deletion, and the
// locally held session.
//
// Failures are reported as *Error values carrying a numeric Code from the
// provider's taxonomy (17004 invalid credential, 17007 email already in use,
// 17009 wrong password, ...). The codes are opaque to this package's callers;
// the auth flow classifies them into user-facing categories.
//
// Two implementations are provided:
//
//	// In-process accounts, bcrypt hashes, HS256 ID tokens
//	p := authprovider.NewLocalProvider(authprovider.NewInMemoryAccountRepository(),
//		authprovider.WithTokenSecret(secret),
//		authprovider.WithTokenTTL(time.Hour),
//	)
//
//	// Hosted identity service speaking the identity-toolkit REST dialect
//	p := authprovider.NewRESTProvider("https://identitytoolkit.googleapis.com", apiKey)
package authprovider
