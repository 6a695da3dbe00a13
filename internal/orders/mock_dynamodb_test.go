package orders

import (
	"context"
	"errors"
	"strconv"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a multi-table in-memory DynamoDB covering the calls the
// orders store makes, including the conditional expressions.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

func newMockDynamo(tables ...string) *mockDynamo {
	m := &mockDynamo{tables: map[string]map[string]map[string]types.AttributeValue{}}
	for _, t := range tables {
		m.tables[t] = map[string]map[string]types.AttributeValue{}
	}
	return m
}

func itemKey(item map[string]types.AttributeValue) string {
	for _, attr := range []string{"order_id", "idempotency_key"} {
		if v, ok := item[attr]; ok {
			return v.(*types.AttributeValueMemberS).Value
		}
	}
	return ""
}

func (m *mockDynamo) PutItem(ctx context.Context, in *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[*in.TableName][itemKey(in.Item)] = in.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, in *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.tables[*in.TableName][itemKey(in.Key)]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, in *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.tables[*in.TableName][itemKey(in.Key)]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}

	if in.ConditionExpression != nil && *in.ConditionExpression == "#s = :expected" {
		current := item["status"].(*types.AttributeValueMemberS).Value
		expected := in.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberS).Value
		if current != expected {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}

	if v, ok := in.ExpressionAttributeValues[":new"]; ok {
		item["status"] = v
	}
	if _, ok := in.ExpressionAttributeValues[":inc"]; ok {
		n := 0
		if cur, ok := item["attempts"]; ok {
			n, _ = strconv.Atoi(cur.(*types.AttributeValueMemberN).Value)
		}
		item["attempts"] = &types.AttributeValueMemberN{Value: strconv.Itoa(n + 1)}
	}
	if v, ok := in.ExpressionAttributeValues[":ua"]; ok {
		item["updated_at"] = v
	}
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) TransactWriteItems(ctx context.Context, in *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, it := range in.TransactItems {
		p := it.Put
		if p == nil {
			continue
		}
		if p.ConditionExpression != nil && *p.ConditionExpression == "attribute_not_exists(idempotency_key)" {
			if _, exists := m.tables[*p.TableName][itemKey(p.Item)]; exists {
				return nil, &types.TransactionCanceledException{}
			}
		}
		if p.ConditionExpression != nil && *p.ConditionExpression == "attribute_not_exists(order_id)" {
			if _, exists := m.tables[*p.TableName][itemKey(p.Item)]; exists {
				return nil, &types.TransactionCanceledException{}
			}
		}
	}
	for _, it := range in.TransactItems {
		if p := it.Put; p != nil {
			tbl, ok := m.tables[*p.TableName]
			if !ok {
				return nil, errors.New("unknown table " + *p.TableName)
			}
			tbl[itemKey(p.Item)] = p.Item
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, in *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]map[string]types.AttributeValue, 0)
	for _, item := range m.tables[*in.TableName] {
		items = append(items, item)
	}
	if in.Limit != nil && int(*in.Limit) < len(items) {
		items = items[:*in.Limit]
	}
	return &dyn.ScanOutput{Items: items}, nil
}
