// Package profile owns the user profile document and its lifecycle in the
// document store.
//
// One UserProfile document exists per account, in collection "users", keyed
// by the auth provider's account id. It is created once right after account
// creation, read on every sign-in and deleted before the account itself.
//
//	svc := profile.NewService(docstore.NewMemoryStore())
//
//	err := svc.Create(ctx, profile.UserProfile{
//		ID:           uid,
//		Email:        "a@b.com",
//		Fullname:     "A B",
//		RegisteredAt: time.Now(),
//	})
//
//	p, err := svc.Fetch(ctx, uid)
//	if errors.IsCode(err, errors.ErrCodeNotFound) {
//		// no document for this account
//	}
//
// Service methods return *errors.Error values with one of the store codes
// NOT_FOUND, DECODE_ERROR, READ_FAILURE, WRITE_FAILURE or DELETE_FAILURE.
package profile
