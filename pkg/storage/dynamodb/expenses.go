package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/split-ledger/pkg/models"
	"github.com/chris/split-ledger/pkg/storage"
)

func expenseKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}}
}

func numberAV(v int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", v)}
}

func (s *Store) CreateExpense(ctx context.Context, exp *models.Expense) (*models.Expense, error) {
	item, err := attributevalue.MarshalMap(exp)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expense: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.ExpensesTableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("expense %s: %w", exp.ID, storage.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to put expense: %w", err)
	}
	return exp.Clone(), nil
}

func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.ExpensesTableName),
		Key:            expenseKey(expenseID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get expense from dynamodb: %w", err)
	}
	if len(result.Item) == 0 {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}

	var exp models.Expense
	if err := attributevalue.UnmarshalMap(result.Item, &exp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal expense: %w", err)
	}
	return &exp, nil
}

func (s *Store) ListExpensesByGroup(ctx context.Context, groupID string) ([]models.Expense, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.ExpensesTableName),
		IndexName:              aws.String(groupCreatedAtIndex),
		KeyConditionExpression: aws.String("group_id = :g"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":g": &types.AttributeValueMemberS{Value: groupID},
		},
	}

	var out []models.Expense
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query expenses: %w", err)
		}
		var page []models.Expense
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal expenses: %w", err)
		}
		out = append(out, page...)
		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	// created_at is stored as RFC 3339 text, which does not sort exactly.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) ListGroups(ctx context.Context) ([]string, error) {
	input := &dynamodb.ScanInput{
		TableName:            aws.String(s.ExpensesTableName),
		ProjectionExpression: aws.String("group_id"),
	}

	seen := make(map[string]struct{})
	for {
		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expenses: %w", err)
		}
		var page []struct {
			GroupID string `dynamodbav:"group_id"`
		}
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal groups: %w", err)
		}
		for _, p := range page {
			seen[p.GroupID] = struct{}{}
		}
		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups, nil
}

func (s *Store) UpdateDraft(ctx context.Context, exp *models.Expense, expectedVersion int64) (*models.Expense, error) {
	item, err := attributevalue.MarshalMap(exp)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expense: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.ExpensesTableName),
		Item:                item,
		ConditionExpression: aws.String("version = :expected AND #status = :draft"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": numberAV(expectedVersion),
			":draft":    &types.AttributeValueMemberS{Value: string(models.DRAFT)},
		},
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, s.missOrConflict(ctx, exp.ID, expectedVersion)
		}
		return nil, fmt.Errorf("failed to put expense: %w", err)
	}
	return exp.Clone(), nil
}

// missOrConflict explains why a version-conditioned write was rejected.
func (s *Store) missOrConflict(ctx context.Context, expenseID string, expectedVersion int64) error {
	stored, err := s.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	return fmt.Errorf("expense %s at version %d, expected %d: %w", expenseID, stored.Version, expectedVersion, storage.ErrVersionConflict)
}
