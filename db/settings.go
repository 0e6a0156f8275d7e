package db

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go-relieflink/types"
)

func (s *FirestoreStore) GetSettings(ctx context.Context) (types.PlatformSettings, error) {
	settings := types.PlatformSettings{ActiveDisaster: types.DefaultDisaster}

	snap, err := s.client.Collection(settingsCollection).Doc(settingsDocID).Get(ctx)
	if err != nil {
		err = remoteErr("get settings", err)
		if errors.Is(err, types.ErrNotFound) {
			return settings, nil
		}
		return settings, err
	}
	if err := snap.DataTo(&settings); err != nil {
		return settings, &types.RemoteOperationError{Op: "convert settings", Err: err}
	}
	if !settings.ActiveDisaster.Valid() {
		settings.ActiveDisaster = types.DefaultDisaster
	}
	return settings, nil
}

func (s *FirestoreStore) SaveSettings(ctx context.Context, settings types.PlatformSettings) error {
	if _, err := s.client.Collection(settingsCollection).Doc(settingsDocID).Set(ctx, settings); err != nil {
		return remoteErr("save settings", err)
	}
	return nil
}

func (s *FirestoreStore) InitSettings(ctx context.Context, settings types.PlatformSettings) (bool, error) {
	_, err := s.client.Collection(settingsCollection).Doc(settingsDocID).Create(ctx, settings)
	if status.Code(err) == codes.AlreadyExists {
		return false, nil
	}
	if err != nil {
		return false, remoteErr("init settings", err)
	}
	return true, nil
}
