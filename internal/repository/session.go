package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	skSession   = "SESSION#CHAT"
	ttlDuration = 90 * 24 * time.Hour
)

// SessionStore persists the raw conversation log of a device as one item.
type SessionStore struct {
	api       dynamodbAPI
	tableName string
}

// NewSessionStore creates a SessionStore on tableName.
func NewSessionStore(api dynamodbAPI, tableName string) (*SessionStore, error) {
	if err := validateTable(api, tableName); err != nil {
		return nil, err
	}
	return &SessionStore{api: api, tableName: tableName}, nil
}

// devicePK returns the partition key for a device's chat state.
func devicePK(deviceID string) string {
	return "DEVICE#" + deviceID
}

// ttlValue returns a Unix timestamp 90 days in the future.
func ttlValue() int64 {
	return time.Now().Add(ttlDuration).Unix()
}

// Load returns the stored payload, or nil when the device has none.
func (s *SessionStore) Load(ctx context.Context, deviceID string) ([]byte, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, errors.New("repository: Load: device id is required")
	}
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            sessionKey(deviceID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("repository: Load get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return nil, nil
	}
	raw, ok := out.Item["messages"].(*types.AttributeValueMemberS)
	if !ok {
		slog.Warn("discarding session item without string messages", "deviceId", deviceID)
		return nil, nil
	}
	return []byte(raw.Value), nil
}

// Save replaces the stored payload for the device.
func (s *SessionStore) Save(ctx context.Context, deviceID string, payload []byte) error {
	if strings.TrimSpace(deviceID) == "" {
		return errors.New("repository: Save: device id is required")
	}
	item := sessionKey(deviceID)
	item["deviceId"] = str(deviceID)
	item["messages"] = str(string(payload))
	item["lastActivity"] = str(time.Now().UTC().Format(time.RFC3339))
	item["ttl"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ttlValue())}

	_, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("repository: Save: %w", err)
	}
	return nil
}

// Delete removes the stored payload for the device.
func (s *SessionStore) Delete(ctx context.Context, deviceID string) error {
	if strings.TrimSpace(deviceID) == "" {
		return errors.New("repository: Delete: device id is required")
	}
	_, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       sessionKey(deviceID),
	})
	if err != nil {
		return fmt.Errorf("repository: Delete: %w", err)
	}
	return nil
}

func sessionKey(deviceID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": str(devicePK(deviceID)),
		"SK": str(skSession),
	}
}
