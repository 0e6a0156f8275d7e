package db

import (
	"context"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"go-relieflink/types"
)

func (s *FirestoreStore) AddAlert(ctx context.Context, alert types.DisasterAlert) (types.DisasterAlert, error) {
	docRef := s.client.Collection(alertsCollection).NewDoc()
	if _, err := docRef.Create(ctx, alert); err != nil {
		return types.DisasterAlert{}, remoteErr("add alert", err)
	}
	alert.ID = docRef.ID
	return alert, nil
}

// ListAlerts orders by createdAt descending, which requires createdAt to be a timestamp field.
func (s *FirestoreStore) ListAlerts(ctx context.Context, limit int) ([]types.DisasterAlert, error) {
	q := s.client.Collection(alertsCollection).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	alerts := []types.DisasterAlert{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, remoteErr("list alerts", err)
		}

		var alert types.DisasterAlert
		if err := doc.DataTo(&alert); err != nil {
			s.log.Warn("skipping malformed alert", zap.String("alertId", doc.Ref.ID), zap.Error(err))
			continue
		}
		alert.ID = doc.Ref.ID
		alerts = append(alerts, alert)
	}
	return alerts, nil
}
