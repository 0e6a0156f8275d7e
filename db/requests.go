package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"go-relieflink/types"
)

// AddRequest stores a new request under an auto-generated document ID.
func (s *FirestoreStore) AddRequest(ctx context.Context, req types.AidRequest) (types.AidRequest, error) {
	docRef := s.client.Collection(requestsCollection).NewDoc()
	if _, err := docRef.Create(ctx, req); err != nil {
		return types.AidRequest{}, remoteErr("add request", err)
	}
	req.ID = docRef.ID
	s.log.Debug("request stored", zap.String("requestId", req.ID))
	return req, nil
}

func (s *FirestoreStore) GetRequest(ctx context.Context, id string) (types.AidRequest, error) {
	snap, err := s.client.Collection(requestsCollection).Doc(id).Get(ctx)
	if err != nil {
		return types.AidRequest{}, remoteErr("get request "+id, err)
	}
	return requestFromSnapshot(snap)
}

func (s *FirestoreStore) ListRequests(ctx context.Context) ([]types.AidRequest, error) {
	return s.queryRequests(ctx, "list requests", s.client.Collection(requestsCollection).OrderBy("createdAt", firestore.Asc))
}

// Needs the composite index requests(victimId ASC, createdAt DESC).
func (s *FirestoreStore) ListRequestsByVictim(ctx context.Context, victimID string) ([]types.AidRequest, error) {
	q := s.client.Collection(requestsCollection).
		Where("victimId", "==", victimID).
		OrderBy("createdAt", firestore.Desc)
	return s.queryRequests(ctx, "list victim requests", q)
}

func (s *FirestoreStore) ListVolunteerTasks(ctx context.Context, volunteerID string) ([]types.AidRequest, error) {
	q := s.client.Collection(requestsCollection).
		Where("assignedVolunteerId", "==", volunteerID).
		Where("status", "in", []string{string(types.StatusAssigned), string(types.StatusDelivered)})
	return s.queryRequests(ctx, "list volunteer tasks", q)
}

// UpdateRequest reads, mutates and writes the request inside one transaction so
// that the state check in mutate and the write cannot interleave with another writer.
func (s *FirestoreStore) UpdateRequest(ctx context.Context, id string, mutate func(*types.AidRequest) error) (types.AidRequest, error) {
	docRef := s.client.Collection(requestsCollection).Doc(id)

	var updated types.AidRequest
	var mutateErr error
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			return err
		}
		req, err := requestFromSnapshot(snap)
		if err != nil {
			return err
		}
		if mutateErr = mutate(&req); mutateErr != nil {
			return mutateErr
		}
		updated = req
		return tx.Set(docRef, req)
	})
	if mutateErr != nil {
		return types.AidRequest{}, mutateErr
	}
	if err != nil {
		return types.AidRequest{}, remoteErr("update request "+id, err)
	}
	return updated, nil
}

func (s *FirestoreStore) queryRequests(ctx context.Context, op string, q firestore.Query) ([]types.AidRequest, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	requests := []types.AidRequest{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, remoteErr(op, err)
		}
		req, err := requestFromSnapshot(doc)
		if err != nil {
			s.log.Warn("skipping malformed request", zap.String("requestId", doc.Ref.ID), zap.Error(err))
			continue
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func requestFromSnapshot(snap *firestore.DocumentSnapshot) (types.AidRequest, error) {
	var req types.AidRequest
	if err := snap.DataTo(&req); err != nil {
		return req, fmt.Errorf("convert request %s: %w", snap.Ref.ID, err)
	}
	req.ID = snap.Ref.ID
	return req, nil
}
