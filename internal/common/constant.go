package common

// AuthorizationHeaderName is the HTTP header carrying the access token.
const AuthorizationHeaderName = "Authorization"

// TokenType is reported to clients alongside issued access tokens.
const TokenType = "Bearer"

// Prediction labels.
const (
	LabelFake = "Fake"
	LabelReal = "Real"
)

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Text length limits applied to job postings before classification.
const (
	MinTextLength = 20
	MaxTextLength = 20000
)
