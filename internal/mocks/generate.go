// Package mocks provides mock implementations of the ports for testing the controllers.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the backend and relay interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockAuthAPI(ctrl)
//	api.EXPECT().SignIn(gomock.Any(), gomock.Any()).Return(user, nil)
package mocks

// Generate mocks for the backend and relay ports from internal/ports.
// This creates MockAuthAPI (SignIn, SignUp, SignInWithIdentity, SignOut), MockContactRelay (Submit),
// MockMediaAPI (UploadImage) and MockPostAPI (CreatePost).
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ports_mock.go github.com/abctechblog/blogfront/internal/ports AuthAPI,ContactRelay,MediaAPI,PostAPI
