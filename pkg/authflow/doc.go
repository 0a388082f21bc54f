// Package authflow drives the sign-in and sign-up flow of a client session.
//
// A Controller owns a Store holding immutable State snapshots. Input edits,
// submits, sign-out and account deletion all go through the Controller, which
// validates the form, calls the injected authprovider.Provider and keeps the
// user's profile document in sync through a profile.Service. Errors never
// escape the Controller: they are recorded in the State for the presentation
// layer to display.
//
// Typical use:
//
//	ctrl := authflow.NewController(provider, profile.NewService(store))
//	ctrl.SetField(authflow.FieldEmail, "a@b.com")
//	ctrl.SetField(authflow.FieldPassword, "secret123")
//	state := ctrl.Submit(ctx)
//	if state.LoggedIn() {
//		fmt.Println("Welcome", state.DisplayName())
//	}
package authflow
