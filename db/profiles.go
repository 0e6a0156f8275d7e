package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go-relieflink/types"
)

func (s *FirestoreStore) ProfileExists(ctx context.Context, role types.Role, uid string) (bool, error) {
	snap, err := s.client.Collection(role.Collection()).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, remoteErr("check "+role.Collection(), err)
	}
	return snap.Exists(), nil
}

func (s *FirestoreStore) GetProfile(ctx context.Context, role types.Role, uid string) (types.User, error) {
	snap, err := s.client.Collection(role.Collection()).Doc(uid).Get(ctx)
	if err != nil {
		return types.User{}, remoteErr("get "+role.Collection()+" profile", err)
	}
	return profileFromSnapshot(snap, role)
}

// SaveProfile merges so that re-registering never wipes fields written elsewhere.
func (s *FirestoreStore) SaveProfile(ctx context.Context, user types.User) error {
	docRef := s.client.Collection(user.Role.Collection()).Doc(user.ID)
	if _, err := docRef.Set(ctx, profileFields(user), firestore.MergeAll); err != nil {
		return remoteErr("save "+user.Role.Collection()+" profile", err)
	}
	return nil
}

func (s *FirestoreStore) ListProfiles(ctx context.Context, role types.Role) ([]types.User, error) {
	iter := s.client.Collection(role.Collection()).OrderBy("name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	users := []types.User{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, remoteErr("list "+role.Collection(), err)
		}
		user, err := profileFromSnapshot(doc, role)
		if err != nil {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// profileFields builds the merge payload; MergeAll only accepts map data.
func profileFields(user types.User) map[string]interface{} {
	fields := map[string]interface{}{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	}
	if user.PhoneNumber != "" {
		fields["phoneNumber"] = user.PhoneNumber
	}
	if user.Location != "" {
		fields["location"] = user.Location
	}
	if user.Availability != nil {
		fields["availability"] = *user.Availability
	}
	return fields
}

func profileFromSnapshot(snap *firestore.DocumentSnapshot, role types.Role) (types.User, error) {
	var user types.User
	if err := snap.DataTo(&user); err != nil {
		return user, fmt.Errorf("convert profile %s: %w", snap.Ref.ID, err)
	}
	user.ID = snap.Ref.ID
	user.Role = role
	return user, nil
}
