package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// dynamodbAPI is the minimal DynamoDB interface required by the tables and
// the session store. *dynamodb.Client satisfies it.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ErrNotFound is returned by Update when the target item does not exist.
var ErrNotFound = errors.New("repository: item not found")

// userPK returns the partition key holding every entity of a user.
func userPK(userID string) string {
	return "USER#" + userID
}

func entitySK(kind, id string) string {
	return kind + "#" + id
}

var newUUID = func() string {
	return uuid.NewString()
}

func validateTable(api dynamodbAPI, tableName string) error {
	if api == nil {
		return errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return errors.New("repository: table name must not be empty")
	}
	return nil
}

func str(v string) *types.AttributeValueMemberS {
	return &types.AttributeValueMemberS{Value: v}
}

func num(v float64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(v, 'f', -1, 64)}
}

func boolean(v bool) *types.AttributeValueMemberBOOL {
	return &types.AttributeValueMemberBOOL{Value: v}
}

func timestamp(t time.Time) *types.AttributeValueMemberS {
	return str(t.UTC().Format(time.RFC3339Nano))
}

// toAttr converts a patch value into an attribute value.
func toAttr(v any) (types.AttributeValue, error) {
	switch x := v.(type) {
	case string:
		return str(x), nil
	case float64:
		return num(x), nil
	case int:
		return num(float64(x)), nil
	case bool:
		return boolean(x), nil
	case time.Time:
		return timestamp(x), nil
	case *time.Time:
		if x == nil {
			return nil, errors.New("nil time")
		}
		return timestamp(*x), nil
	case []string:
		items := make([]types.AttributeValue, 0, len(x))
		for _, s := range x {
			items = append(items, str(s))
		}
		return &types.AttributeValueMemberL{Value: items}, nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return str(rv.String()), nil
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}

// optStr returns "" for a missing attribute.
func optStr(item map[string]types.AttributeValue, key string) string {
	s, _ := item[key].(*types.AttributeValueMemberS)
	if s == nil {
		return ""
	}
	return s.Value
}

func optNum(item map[string]types.AttributeValue, key string) (float64, error) {
	v, ok := item[key]
	if !ok {
		return 0, nil
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("repository: attribute %q is not a number", key)
	}
	parsed, err := strconv.ParseFloat(n.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return parsed, nil
}

func optInt(item map[string]types.AttributeValue, key string) (int, error) {
	f, err := optNum(item, key)
	return int(f), err
}

func optBool(item map[string]types.AttributeValue, key string) bool {
	b, _ := item[key].(*types.AttributeValueMemberBOOL)
	return b != nil && b.Value
}

func optTime(item map[string]types.AttributeValue, key string) (*time.Time, error) {
	raw := optStr(item, key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return &t, nil
}

func optStrings(item map[string]types.AttributeValue, key string) []string {
	l, _ := item[key].(*types.AttributeValueMemberL)
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.Value))
	for _, v := range l.Value {
		if s, ok := v.(*types.AttributeValueMemberS); ok {
			out = append(out, s.Value)
		}
	}
	return out
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// putOpt sets key only when v is non-empty.
func putOpt(item map[string]types.AttributeValue, key, v string) {
	if v != "" {
		item[key] = str(v)
	}
}

func putOptTime(item map[string]types.AttributeValue, key string, t *time.Time) {
	if t != nil && !t.IsZero() {
		item[key] = timestamp(*t)
	}
}
