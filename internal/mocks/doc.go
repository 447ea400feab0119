// Package mocks provides shared fakes for the interfaces that HTTP handler
// and middleware tests replace: the JWT service, the password verifier and
// the question suggester.
//
// Each mock has function fields for custom behavior and plain fields for the
// common case:
//
//	jwtService := &mocks.MockJWTService{
//	    ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return nil, auth.ErrExpiredToken
//	    },
//	}
package mocks
