package auth

import "context"

// Service defines the credential operations exposed to transports.
type Service interface {
	Signup(ctx context.Context, in SignupRequest) (*SignupResponse, error)
	Login(ctx context.Context, in LoginRequest) (*LoginResponse, error)
}

var _ Service = (*Usecase)(nil)
