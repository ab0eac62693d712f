package identity

import "errors"

// ErrNotFound means neither the local index nor the remote search knew the name.
var ErrNotFound = errors.New("player not found")
