// Package firestore answers admin-capability checks from a roles collection,
// one document per uid. This replaces the old single hardcoded operator
// identifier, which could not scale past one admin.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const rolesCollection = "roles"

type RoleAuthorizer struct {
	col *firestore.CollectionRef
}

func NewRoleAuthorizer(client *firestore.Client) *RoleAuthorizer {
	return &RoleAuthorizer{col: client.Collection(rolesCollection)}
}

type roleDoc struct {
	Admin bool `firestore:"admin"`
}

func (a *RoleAuthorizer) IsAdmin(ctx context.Context, uid string) (bool, error) {
	doc, err := a.col.Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("role lookup %s: %w", uid, err)
	}

	var d roleDoc
	if err := doc.DataTo(&d); err != nil {
		return false, fmt.Errorf("decode role %s: %w", uid, err)
	}
	return d.Admin, nil
}
