package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"socialgram-backend/application/ports"
	"socialgram-backend/domain/core/entities"
	"socialgram-backend/domain/core/valueobjects"
	pkgerrors "socialgram-backend/pkg/errors"
	"socialgram-backend/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// batchGetLimit is the DynamoDB BatchGetItem per-request cap
const batchGetLimit = 100

// AccountRepository implements ports.AccountRepository on a single
// DynamoDB table. Follow edges live as string sets on both account
// documents and are mutated with ADD/DELETE inside one transaction so
// the pair can never half-apply.
type AccountRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string // GSI1 - username lookups
	logger    *zap.Logger
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.AccountRepository {
	return &AccountRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// accountItem represents the DynamoDB item structure for an account
type accountItem struct {
	PK            string   `dynamodbav:"PK"`
	SK            string   `dynamodbav:"SK"`
	GSI1PK        string   `dynamodbav:"GSI1PK"`
	GSI1SK        string   `dynamodbav:"GSI1SK"`
	EntityType    string   `dynamodbav:"EntityType"`
	AccountID     string   `dynamodbav:"AccountID"`
	Username      string   `dynamodbav:"Username"`
	UsernameLower string   `dynamodbav:"UsernameLower"`
	Email         string   `dynamodbav:"Email"`
	PasswordHash  string   `dynamodbav:"PasswordHash"`
	Bio           string   `dynamodbav:"Bio"`
	ProfilePic    string   `dynamodbav:"ProfilePic"`
	Followers     []string `dynamodbav:"Followers,stringset,omitempty"`
	Following     []string `dynamodbav:"Following,stringset,omitempty"`
	CreatedAt     string   `dynamodbav:"CreatedAt"`
	UpdatedAt     string   `dynamodbav:"UpdatedAt"`
}

func accountPK(id string) string     { return fmt.Sprintf("ACCOUNT#%s", id) }
func usernameGSI1(u string) string   { return fmt.Sprintf("USERNAME#%s", strings.ToLower(u)) }
func usernameMarker(u string) string { return fmt.Sprintf("UNIQ#USERNAME#%s", strings.ToLower(u)) }
func emailMarker(e string) string    { return fmt.Sprintf("UNIQ#EMAIL#%s", strings.ToLower(e)) }

func newAccountItem(account *entities.Account) accountItem {
	return accountItem{
		PK:            accountPK(account.ID().String()),
		SK:            "METADATA",
		GSI1PK:        usernameGSI1(account.Username()),
		GSI1SK:        "ACCOUNT",
		EntityType:    "ACCOUNT",
		AccountID:     account.ID().String(),
		Username:      account.Username(),
		UsernameLower: strings.ToLower(account.Username()),
		Email:         account.Email(),
		PasswordHash:  account.PasswordHash(),
		Bio:           account.Bio(),
		ProfilePic:    account.ProfilePic(),
		Followers:     account.Followers(),
		Following:     account.Following(),
		CreatedAt:     utils.FormatRFC3339(account.CreatedAt()),
		UpdatedAt:     utils.FormatRFC3339(account.UpdatedAt()),
	}
}

func (it accountItem) toEntity() (*entities.Account, error) {
	id, err := valueobjects.NewAccountIDFromString(it.AccountID)
	if err != nil {
		return nil, fmt.Errorf("invalid account ID in item: %w", err)
	}

	createdAt, _ := utils.ParseRFC3339(it.CreatedAt)
	updatedAt, _ := utils.ParseRFC3339(it.UpdatedAt)

	return entities.ReconstructAccount(
		id,
		it.Username,
		it.Email,
		it.PasswordHash,
		it.Bio,
		it.ProfilePic,
		it.Followers,
		it.Following,
		createdAt,
		updatedAt,
	)
}

// Create persists a new account together with uniqueness marker items for
// the username and the email, all in one transaction. A concurrent
// registration of the same handle loses the conditional check and the
// whole transaction rolls back.
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) error {
	av, err := attributevalue.MarshalMap(newAccountItem(account))
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	usernameAV, err := attributevalue.MarshalMap(map[string]string{
		"PK":         usernameMarker(account.Username()),
		"SK":         "MARKER",
		"EntityType": "UNIQUENESS_MARKER",
		"AccountID":  account.ID().String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal username marker: %w", err)
	}

	emailAV, err := attributevalue.MarshalMap(map[string]string{
		"PK":         emailMarker(account.Email()),
		"SK":         "MARKER",
		"EntityType": "UNIQUENESS_MARKER",
		"AccountID":  account.ID().String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email marker: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                av,
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                usernameAV,
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                emailAV,
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				},
			},
		},
	}

	if _, err := r.client.TransactWriteItems(ctx, input); err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			return pkgerrors.NewConflictError("username or email already exists")
		}
		r.logger.Error("Failed to create account",
			zap.Error(err),
			zap.String("accountID", account.ID().String()),
		)
		return pkgerrors.NewDatabaseError("create account", err)
	}

	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id valueobjects.AccountID) (*entities.Account, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: accountPK(id.String())},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get account", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("account")
	}

	var item accountItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return item.toEntity()
}

// GetByUsername retrieves an account by its unique handle via GSI1
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*entities.Account, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: usernameGSI1(username)},
			":sk": &types.AttributeValueMemberS{Value: "ACCOUNT"},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get account by username", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("account")
	}

	var item accountItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return item.toEntity()
}

// GetMany retrieves accounts in bulk for read-time joins. Missing IDs are
// simply absent from the result map.
func (r *AccountRepository) GetMany(ctx context.Context, ids []string) (map[string]*entities.Account, error) {
	accounts := make(map[string]*entities.Account, len(ids))
	if len(ids) == 0 {
		return accounts, nil
	}

	seen := make(map[string]bool, len(ids))
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: accountPK(id)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		})
	}

	for start := 0; start < len(keys); start += batchGetLimit {
		end := start + batchGetLimit
		if end > len(keys) {
			end = len(keys)
		}

		input := &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				r.tableName: {Keys: keys[start:end]},
			},
		}

		result, err := r.client.BatchGetItem(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("batch get accounts", err)
		}

		for _, raw := range result.Responses[r.tableName] {
			var item accountItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Skipping unreadable account item", zap.Error(err))
				continue
			}
			account, err := item.toEntity()
			if err != nil {
				r.logger.Warn("Skipping invalid account item", zap.Error(err))
				continue
			}
			accounts[account.ID().String()] = account
		}
	}

	return accounts, nil
}

// UpdateProfile applies partial profile edits. Empty fields are left
// untouched.
func (r *AccountRepository) UpdateProfile(ctx context.Context, id valueobjects.AccountID, bio, profilePic string) (*entities.Account, error) {
	update := expression.Set(expression.Name("UpdatedAt"), expression.Value(utils.FormatRFC3339(time.Now())))
	if bio != "" {
		update = update.Set(expression.Name("Bio"), expression.Value(bio))
	}
	if profilePic != "" {
		update = update.Set(expression.Name("ProfilePic"), expression.Value(profilePic))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: accountPK(id.String())},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	}

	result, err := r.client.UpdateItem(ctx, input)
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return nil, pkgerrors.NewNotFoundError("account")
		}
		return nil, pkgerrors.NewDatabaseError("update profile", err)
	}

	var item accountItem
	if err := attributevalue.UnmarshalMap(result.Attributes, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return item.toEntity()
}

// Search finds accounts whose username contains the query, case-insensitive.
// Runs as a bounded scan; the account corpus is small enough that a search
// index would be premature.
func (r *AccountRepository) Search(ctx context.Context, query string, limit int) ([]*entities.Account, error) {
	filter := expression.Equal(expression.Name("EntityType"), expression.Value("ACCOUNT")).
		And(expression.Contains(expression.Name("UsernameLower"), strings.ToLower(query)))

	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build search expression: %w", err)
	}

	return r.scanAccounts(ctx, expr, limit)
}

// ListAll returns up to limit accounts in store order
func (r *AccountRepository) ListAll(ctx context.Context, limit int) ([]*entities.Account, error) {
	filter := expression.Equal(expression.Name("EntityType"), expression.Value("ACCOUNT"))

	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build list expression: %w", err)
	}

	return r.scanAccounts(ctx, expr, limit)
}

func (r *AccountRepository) scanAccounts(ctx context.Context, expr expression.Expression, limit int) ([]*entities.Account, error) {
	accounts := make([]*entities.Account, 0, limit)

	var lastKey map[string]types.AttributeValue
	for {
		input := &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		}

		result, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("scan accounts", err)
		}

		for _, raw := range result.Items {
			var item accountItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Skipping unreadable account item", zap.Error(err))
				continue
			}
			account, err := item.toEntity()
			if err != nil {
				r.logger.Warn("Skipping invalid account item", zap.Error(err))
				continue
			}
			accounts = append(accounts, account)
			if len(accounts) >= limit {
				return accounts, nil
			}
		}

		lastKey = result.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	return accounts, nil
}

// Follow adds the edge to both account documents in one transaction.
// The actor side carries the already-following guard; the target side
// only requires the account to exist.
func (r *AccountRepository) Follow(ctx context.Context, actorID, targetID valueobjects.AccountID) error {
	tid := &types.AttributeValueMemberS{Value: targetID.String()}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName: aws.String(r.tableName),
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: accountPK(actorID.String())},
						"SK": &types.AttributeValueMemberS{Value: "METADATA"},
					},
					UpdateExpression:    aws.String("ADD Following :edge"),
					ConditionExpression: aws.String("attribute_exists(PK) AND NOT contains(Following, :id)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":edge": &types.AttributeValueMemberSS{Value: []string{targetID.String()}},
						":id":   tid,
					},
					ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
				},
			},
			{
				Update: &types.Update{
					TableName: aws.String(r.tableName),
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: accountPK(targetID.String())},
						"SK": &types.AttributeValueMemberS{Value: "METADATA"},
					},
					UpdateExpression:    aws.String("ADD Followers :edge"),
					ConditionExpression: aws.String("attribute_exists(PK)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":edge": &types.AttributeValueMemberSS{Value: []string{actorID.String()}},
					},
				},
			},
		},
	}

	if _, err := r.client.TransactWriteItems(ctx, input); err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			return classifyEdgeCancel(canceled, pkgerrors.NewConflictError("already following this user"))
		}
		r.logger.Error("Failed to apply follow edge",
			zap.Error(err),
			zap.String("actorID", actorID.String()),
			zap.String("targetID", targetID.String()),
		)
		return pkgerrors.NewDatabaseError("follow", err)
	}

	return nil
}

// Unfollow removes the edge from both account documents in one transaction
func (r *AccountRepository) Unfollow(ctx context.Context, actorID, targetID valueobjects.AccountID) error {
	tid := &types.AttributeValueMemberS{Value: targetID.String()}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName: aws.String(r.tableName),
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: accountPK(actorID.String())},
						"SK": &types.AttributeValueMemberS{Value: "METADATA"},
					},
					UpdateExpression:    aws.String("DELETE Following :edge"),
					ConditionExpression: aws.String("attribute_exists(PK) AND contains(Following, :id)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":edge": &types.AttributeValueMemberSS{Value: []string{targetID.String()}},
						":id":   tid,
					},
					ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
				},
			},
			{
				Update: &types.Update{
					TableName: aws.String(r.tableName),
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: accountPK(targetID.String())},
						"SK": &types.AttributeValueMemberS{Value: "METADATA"},
					},
					UpdateExpression:    aws.String("DELETE Followers :edge"),
					ConditionExpression: aws.String("attribute_exists(PK)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":edge": &types.AttributeValueMemberSS{Value: []string{actorID.String()}},
					},
				},
			},
		},
	}

	if _, err := r.client.TransactWriteItems(ctx, input); err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			return classifyEdgeCancel(canceled, pkgerrors.NewInvalidOperationError("you are not following this user"))
		}
		r.logger.Error("Failed to remove follow edge",
			zap.Error(err),
			zap.String("actorID", actorID.String()),
			zap.String("targetID", targetID.String()),
		)
		return pkgerrors.NewDatabaseError("unfollow", err)
	}

	return nil
}

// transactReasonAt reports whether the cancellation reason at index failed
// its conditional check
func transactReasonAt(canceled *types.TransactionCanceledException, index int) bool {
	if index >= len(canceled.CancellationReasons) {
		return false
	}
	reason := canceled.CancellationReasons[index]
	return reason.Code != nil && *reason.Code == "ConditionalCheckFailed"
}

// classifyEdgeCancel maps a canceled edge transaction to a domain error.
// Index 0 is the actor update, index 1 the target update. The actor update
// requests its old image on condition failure, so an empty image means the
// actor document itself is gone rather than the edge guard tripping.
func classifyEdgeCancel(canceled *types.TransactionCanceledException, edgeErr error) error {
	if transactReasonAt(canceled, 1) {
		return pkgerrors.NewNotFoundError("account")
	}
	if transactReasonAt(canceled, 0) && len(canceled.CancellationReasons[0].Item) == 0 {
		return pkgerrors.NewNotFoundError("account")
	}
	return edgeErr
}
