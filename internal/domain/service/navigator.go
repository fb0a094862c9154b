package service

import "context"

// Navigator performs forced, unguarded location changes. The transport uses it to send
// the user to the login entry point once the session cannot be recovered.
type Navigator interface {
	HardNavigate(ctx context.Context, path string)
}
