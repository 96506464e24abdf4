package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"lifeos/internal/auth"
	"lifeos/internal/store"
)

// codec maps one entity type onto the single-table layout. kind prefixes the
// sort key and fields lists the attributes a patch may touch.
type codec[T any] struct {
	kind   string
	fields map[string]bool
	encode func(T) map[string]types.AttributeValue
	decode func(map[string]types.AttributeValue) (T, error)
}

// Table stores one entity kind under the user's partition.
type Table[T any] struct {
	api       dynamodbAPI
	tableName string
	codec     codec[T]
}

var _ store.Store[struct{}] = (*Table[struct{}])(nil)

func newTable[T any](api dynamodbAPI, tableName string, c codec[T]) (*Table[T], error) {
	if err := validateTable(api, tableName); err != nil {
		return nil, err
	}
	return &Table[T]{api: api, tableName: tableName, codec: c}, nil
}

// List queries every item of this kind for the user, following pagination.
func (t *Table[T]) List(ctx context.Context) ([]T, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, err
	}

	in := &dynamodb.QueryInput{
		TableName:              aws.String(t.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     str(userPK(userID)),
			":prefix": str(t.codec.kind + "#"),
		},
	}

	var out []T
	for {
		page, err := t.api.Query(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("repository: list %s: %w", strings.ToLower(t.codec.kind), err)
		}
		for _, item := range page.Items {
			v, err := t.codec.decode(item)
			if err != nil {
				return nil, fmt.Errorf("repository: list %s unmarshal: %w", strings.ToLower(t.codec.kind), err)
			}
			out = append(out, v)
		}
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		in.ExclusiveStartKey = page.LastEvaluatedKey
	}
	return out, nil
}

// Create writes a new item and returns its generated id.
func (t *Table[T]) Create(ctx context.Context, v T) (string, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return "", err
	}

	id := newUUID()
	item := t.codec.encode(v)
	item["PK"] = str(userPK(userID))
	item["SK"] = str(entitySK(t.codec.kind, id))
	item["id"] = str(id)
	item["user_id"] = str(userID)

	_, err = t.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(t.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		return "", fmt.Errorf("repository: create %s: %w", strings.ToLower(t.codec.kind), err)
	}
	return id, nil
}

// Update applies patch to an existing item. Nil values are removed.
func (t *Table[T]) Update(ctx context.Context, id string, patch store.Patch) error {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return errors.New("repository: update: id is required")
	}
	if len(patch) == 0 {
		return nil
	}

	expr, names, values, err := t.updateExpression(patch)
	if err != nil {
		return fmt.Errorf("repository: update %s: %w", strings.ToLower(t.codec.kind), err)
	}

	in := &dynamodb.UpdateItemInput{
		TableName: aws.String(t.tableName),
		Key: map[string]types.AttributeValue{
			"PK": str(userPK(userID)),
			"SK": str(entitySK(t.codec.kind, id)),
		},
		UpdateExpression:         aws.String(expr),
		ConditionExpression:      aws.String("attribute_exists(PK) AND attribute_exists(SK)"),
		ExpressionAttributeNames: names,
	}
	if len(values) > 0 {
		in.ExpressionAttributeValues = values
	}

	if _, err := t.api.UpdateItem(ctx, in); err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("repository: update %s %s: %w", strings.ToLower(t.codec.kind), id, ErrNotFound)
		}
		return fmt.Errorf("repository: update %s: %w", strings.ToLower(t.codec.kind), err)
	}
	return nil
}

// Delete removes an item. Deleting a missing item is not an error.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return errors.New("repository: delete: id is required")
	}

	_, err = t.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(t.tableName),
		Key: map[string]types.AttributeValue{
			"PK": str(userPK(userID)),
			"SK": str(entitySK(t.codec.kind, id)),
		},
	})
	if err != nil {
		return fmt.Errorf("repository: delete %s: %w", strings.ToLower(t.codec.kind), err)
	}
	return nil
}

// updateExpression renders patch as SET/REMOVE clauses with placeholders in
// key order so the output is stable.
func (t *Table[T]) updateExpression(patch store.Patch) (string, map[string]string, map[string]types.AttributeValue, error) {
	keys := make([]string, 0, len(patch))
	for k := range patch {
		if !t.codec.fields[k] {
			return "", nil, nil, fmt.Errorf("field %q is not updatable", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := make(map[string]string, len(keys))
	values := make(map[string]types.AttributeValue)
	var sets, removes []string
	for i, k := range keys {
		name := fmt.Sprintf("#f%d", i)
		names[name] = k
		v := patch[k]
		if isNil(v) {
			removes = append(removes, name)
			continue
		}
		av, err := toAttr(v)
		if err != nil {
			return "", nil, nil, fmt.Errorf("field %q: %w", k, err)
		}
		placeholder := fmt.Sprintf(":v%d", i)
		values[placeholder] = av
		sets = append(sets, name+" = "+placeholder)
	}

	var parts []string
	if len(sets) > 0 {
		parts = append(parts, "SET "+strings.Join(sets, ", "))
	}
	if len(removes) > 0 {
		parts = append(parts, "REMOVE "+strings.Join(removes, ", "))
	}
	return strings.Join(parts, " "), names, values, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	t, ok := v.(*time.Time)
	return ok && t == nil
}
