package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"go-relieflink/types"
)

func (s *FirestoreStore) AddShelter(ctx context.Context, shelter types.Shelter) (types.Shelter, error) {
	docRef := s.client.Collection(sheltersCollection).NewDoc()
	if _, err := docRef.Create(ctx, shelter); err != nil {
		return types.Shelter{}, remoteErr("add shelter", err)
	}
	shelter.ID = docRef.ID
	return shelter, nil
}

func (s *FirestoreStore) GetShelter(ctx context.Context, id string) (types.Shelter, error) {
	snap, err := s.client.Collection(sheltersCollection).Doc(id).Get(ctx)
	if err != nil {
		return types.Shelter{}, remoteErr("get shelter "+id, err)
	}
	return shelterFromSnapshot(snap)
}

func (s *FirestoreStore) ListShelters(ctx context.Context) ([]types.Shelter, error) {
	iter := s.client.Collection(sheltersCollection).OrderBy("name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	shelters := []types.Shelter{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, remoteErr("list shelters", err)
		}
		shelter, err := shelterFromSnapshot(doc)
		if err != nil {
			s.log.Warn("skipping malformed shelter", zap.String("shelterId", doc.Ref.ID), zap.Error(err))
			continue
		}
		shelters = append(shelters, shelter)
	}
	return shelters, nil
}

func (s *FirestoreStore) UpdateShelter(ctx context.Context, id string, mutate func(*types.Shelter) error) (types.Shelter, error) {
	docRef := s.client.Collection(sheltersCollection).Doc(id)

	var updated types.Shelter
	var mutateErr error
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			return err
		}
		shelter, err := shelterFromSnapshot(snap)
		if err != nil {
			return err
		}
		if mutateErr = mutate(&shelter); mutateErr != nil {
			return mutateErr
		}
		updated = shelter
		return tx.Set(docRef, shelter)
	})
	if mutateErr != nil {
		return types.Shelter{}, mutateErr
	}
	if err != nil {
		return types.Shelter{}, remoteErr("update shelter "+id, err)
	}
	return updated, nil
}

func shelterFromSnapshot(snap *firestore.DocumentSnapshot) (types.Shelter, error) {
	var shelter types.Shelter
	if err := snap.DataTo(&shelter); err != nil {
		return shelter, fmt.Errorf("convert shelter %s: %w", snap.Ref.ID, err)
	}
	shelter.ID = snap.Ref.ID
	return shelter, nil
}
