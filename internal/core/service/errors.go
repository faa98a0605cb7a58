package service

import "errors"

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords so callers cannot tell which one failed.
var ErrInvalidCredentials = errors.New("invalid username or password")
