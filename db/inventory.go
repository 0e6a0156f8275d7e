package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go-relieflink/types"
)

// ListInventory returns items in document ID order, which is the item kind.
func (s *FirestoreStore) ListInventory(ctx context.Context) ([]types.InventoryItem, error) {
	iter := s.client.Collection(inventoryCollection).Documents(ctx)
	defer iter.Stop()

	items := []types.InventoryItem{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, remoteErr("list inventory", err)
		}
		item, err := inventoryFromSnapshot(doc)
		if err != nil {
			s.log.Warn("skipping malformed inventory item", zap.String("itemId", doc.Ref.ID), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *FirestoreStore) SetInventoryItem(ctx context.Context, item types.InventoryItem) error {
	_, err := s.client.Collection(inventoryCollection).Doc(string(item.ID)).Set(ctx, item)
	if err != nil {
		return remoteErr("set inventory item "+string(item.ID), err)
	}
	return nil
}

func (s *FirestoreStore) CreateInventoryItem(ctx context.Context, item types.InventoryItem) (bool, error) {
	_, err := s.client.Collection(inventoryCollection).Doc(string(item.ID)).Create(ctx, item)
	if status.Code(err) == codes.AlreadyExists {
		return false, nil
	}
	if err != nil {
		return false, remoteErr("create inventory item "+string(item.ID), err)
	}
	return true, nil
}

func (s *FirestoreStore) UpdateInventoryItem(ctx context.Context, kind types.ItemKind, mutate func(*types.InventoryItem) error) (types.InventoryItem, error) {
	docRef := s.client.Collection(inventoryCollection).Doc(string(kind))

	var updated types.InventoryItem
	var mutateErr error
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			return err
		}
		item, err := inventoryFromSnapshot(snap)
		if err != nil {
			return err
		}
		if mutateErr = mutate(&item); mutateErr != nil {
			return mutateErr
		}
		updated = item
		return tx.Set(docRef, item)
	})
	if mutateErr != nil {
		return types.InventoryItem{}, mutateErr
	}
	if err != nil {
		return types.InventoryItem{}, remoteErr("update inventory item "+string(kind), err)
	}
	return updated, nil
}

func inventoryFromSnapshot(snap *firestore.DocumentSnapshot) (types.InventoryItem, error) {
	var item types.InventoryItem
	if err := snap.DataTo(&item); err != nil {
		return item, fmt.Errorf("convert inventory item %s: %w", snap.Ref.ID, err)
	}
	item.ID = types.ItemKind(snap.Ref.ID)
	return item, nil
}
