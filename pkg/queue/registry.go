package queue

import (
	"fmt"
)

// Name identifies a durable queue shared by every service of the system.
type Name string

// The closed set of queues known to all services. Adding a queue here is a
// cross-service contract change.
const (
	UserRegistered Name = "user.registered"
	PostCreated    Name = "post.created"
	PostDeleted    Name = "post.deleted"
	CommentCreated Name = "comment.created"
	CommentDeleted Name = "comment.deleted"
)

var registry = [...]Name{
	UserRegistered,
	PostCreated,
	PostDeleted,
	CommentCreated,
	CommentDeleted,
}

// Names returns every queue of the registry in declaration order.
func Names() []Name {
	names := make([]Name, len(registry))
	copy(names, registry[:])

	return names
}

// ParseName converts a raw queue name into a registry Name.
func ParseName(raw string) (Name, error) {
	name := Name(raw)
	if err := name.Validate(); err != nil {
		return "", err
	}

	return name, nil
}

// Validate reports ErrUnknownQueue when the receiver is not part of the registry.
func (n Name) Validate() error {
	for _, known := range registry {
		if n == known {
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownQueue, string(n))
}

func (n Name) String() string {
	return string(n)
}
