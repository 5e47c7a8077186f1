// Package dynamodb implements storage.Storage on AWS DynamoDB.
//
// Tables:
//
//	expenses  PK id;                 GSI group_id-created_at-index
//	ledger    PK group_id, SK seq
//	balances  PK group_id, SK pair;  GSIs user_a-index, user_b-index
//
// A transition is one TransactWriteItems call: the expense put conditioned on
// its version, one put per ledger entry and one ADD per touched pair.
package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/split-ledger/pkg/storage"
)

//go:generate mockery --name DynamoDBAPI --output ./mocks --outpkg mocks

// DynamoDBAPI is the subset of the DynamoDB client the store uses.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

const (
	groupCreatedAtIndex = "group_id-created_at-index"
	userAIndex          = "user_a-index"
	userBIndex          = "user_b-index"

	// maxTransactItems is the DynamoDB limit on one TransactWriteItems call.
	maxTransactItems = 100

	rebuildAttempts = 3
)

// ErrTransactionTooLarge is returned when a transition needs more writes than
// one DynamoDB transaction allows.
var ErrTransactionTooLarge = errors.New("transition exceeds the DynamoDB transaction item limit")

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client            DynamoDBAPI
	ExpensesTableName string
	LedgerTableName   string
	BalancesTableName string
}

// New creates a new Store.
func New(client DynamoDBAPI, expensesTable, ledgerTable, balancesTable string) *Store {
	return &Store{
		Client:            client,
		ExpensesTableName: expensesTable,
		LedgerTableName:   ledgerTable,
		BalancesTableName: balancesTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)
