package app

import "context"

// StaticAuthorizer grants the admin capability to a fixed allowlist. It backs
// the in-process store; production uses the roles collection.
type StaticAuthorizer map[string]struct{}

func NewStaticAuthorizer(uids []string) StaticAuthorizer {
	a := make(StaticAuthorizer, len(uids))
	for _, uid := range uids {
		if uid != "" {
			a[uid] = struct{}{}
		}
	}
	return a
}

func (a StaticAuthorizer) IsAdmin(ctx context.Context, uid string) (bool, error) {
	_, ok := a[uid]
	return ok, nil
}
