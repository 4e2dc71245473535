package service

import "errors"

var (
	ErrPackageNotFound     = errors.New("package not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidSignature    = errors.New("invalid notification signature")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
)
