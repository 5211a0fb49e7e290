package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
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

// timelinePartition is the constant GSI2 partition holding every post so
// the global timeline is a single newest-first query
const timelinePartition = "POST"

// PostRepository implements ports.PostRepository on the single DynamoDB
// table. Likes are a string set mutated with ADD/DELETE so concurrent
// likes never clobber each other; comments are an append-only list.
type PostRepository struct {
	client        *dynamodb.Client
	tableName     string
	indexName     string // GSI1 - by-owner timeline
	gsi2IndexName string // GSI2 - global timeline
	logger        *zap.Logger
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(client *dynamodb.Client, tableName, indexName, gsi2IndexName string, logger *zap.Logger) ports.PostRepository {
	return &PostRepository{
		client:        client,
		tableName:     tableName,
		indexName:     indexName,
		gsi2IndexName: gsi2IndexName,
		logger:        logger,
	}
}

// commentItem represents one embedded comment in the post's comment list
type commentItem struct {
	AuthorID  string `dynamodbav:"AuthorID"`
	Text      string `dynamodbav:"Text"`
	CreatedAt string `dynamodbav:"CreatedAt"`
}

// postItem represents the DynamoDB item structure for a post
type postItem struct {
	PK         string        `dynamodbav:"PK"`
	SK         string        `dynamodbav:"SK"`
	GSI1PK     string        `dynamodbav:"GSI1PK"`
	GSI1SK     string        `dynamodbav:"GSI1SK"`
	GSI2PK     string        `dynamodbav:"GSI2PK"`
	GSI2SK     string        `dynamodbav:"GSI2SK"`
	EntityType string        `dynamodbav:"EntityType"`
	PostID     string        `dynamodbav:"PostID"`
	OwnerID    string        `dynamodbav:"OwnerID"`
	Caption    string        `dynamodbav:"Caption"`
	MediaURL   string        `dynamodbav:"MediaURL"`
	Likes      []string      `dynamodbav:"Likes,stringset,omitempty"`
	Comments   []commentItem `dynamodbav:"Comments"`
	CreatedAt  string        `dynamodbav:"CreatedAt"`
	UpdatedAt  string        `dynamodbav:"UpdatedAt"`
}

func postPK(id string) string { return fmt.Sprintf("POST#%s", id) }

// postSortKey orders posts newest-first under both GSIs; the ID suffix
// breaks ties between posts created in the same nanosecond
func postSortKey(createdAt time.Time, id string) string {
	return fmt.Sprintf("POST#%s#%s", utils.FormatSortKeyTime(createdAt), id)
}

func newPostItem(post *entities.Post) postItem {
	comments := make([]commentItem, 0, len(post.Comments()))
	for _, c := range post.Comments() {
		comments = append(comments, commentItem{
			AuthorID:  c.AuthorID,
			Text:      c.Text,
			CreatedAt: utils.FormatRFC3339(c.CreatedAt),
		})
	}

	return postItem{
		PK:         postPK(post.ID().String()),
		SK:         "METADATA",
		GSI1PK:     accountPK(post.OwnerID().String()),
		GSI1SK:     postSortKey(post.CreatedAt(), post.ID().String()),
		GSI2PK:     timelinePartition,
		GSI2SK:     postSortKey(post.CreatedAt(), post.ID().String()),
		EntityType: "POST",
		PostID:     post.ID().String(),
		OwnerID:    post.OwnerID().String(),
		Caption:    post.Caption(),
		MediaURL:   post.MediaURL(),
		Likes:      post.Likes(),
		Comments:   comments,
		CreatedAt:  utils.FormatSortKeyTime(post.CreatedAt()),
		UpdatedAt:  utils.FormatSortKeyTime(post.UpdatedAt()),
	}
}

func (it postItem) toEntity() (*entities.Post, error) {
	id, err := valueobjects.NewPostIDFromString(it.PostID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID in item: %w", err)
	}
	ownerID, err := valueobjects.NewAccountIDFromString(it.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner ID in item: %w", err)
	}

	comments := make([]entities.Comment, 0, len(it.Comments))
	for _, c := range it.Comments {
		createdAt, _ := utils.ParseRFC3339(c.CreatedAt)
		comments = append(comments, entities.Comment{
			AuthorID:  c.AuthorID,
			Text:      c.Text,
			CreatedAt: createdAt,
		})
	}

	createdAt, _ := utils.ParseSortKeyTime(it.CreatedAt)
	updatedAt, _ := utils.ParseSortKeyTime(it.UpdatedAt)

	return entities.ReconstructPost(id, ownerID, it.Caption, it.MediaURL, it.Likes, comments, createdAt, updatedAt)
}

// Create persists a new post
func (r *PostRepository) Create(ctx context.Context, post *entities.Post) error {
	av, err := attributevalue.MarshalMap(newPostItem(post))
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to create post",
			zap.Error(err),
			zap.String("postID", post.ID().String()),
		)
		return pkgerrors.NewDatabaseError("create post", err)
	}

	return nil
}

// GetByID retrieves a post by its ID
func (r *PostRepository) GetByID(ctx context.Context, id valueobjects.PostID) (*entities.Post, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       postKey(id.String()),
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get post", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("post")
	}

	var item postItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}

	return item.toEntity()
}

// GetByIDs retrieves posts in bulk; missing IDs are skipped
func (r *PostRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Post, error) {
	posts := make([]*entities.Post, 0, len(ids))
	if len(ids) == 0 {
		return posts, nil
	}

	byID := make(map[string]*entities.Post, len(ids))

	seen := make(map[string]bool, len(ids))
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, postKey(id))
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
			return nil, pkgerrors.NewDatabaseError("batch get posts", err)
		}

		for _, raw := range result.Responses[r.tableName] {
			var item postItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Skipping unreadable post item", zap.Error(err))
				continue
			}
			post, err := item.toEntity()
			if err != nil {
				r.logger.Warn("Skipping invalid post item", zap.Error(err))
				continue
			}
			byID[post.ID().String()] = post
		}
	}

	// Preserve the caller's ordering
	for _, id := range ids {
		if post, ok := byID[id]; ok {
			posts = append(posts, post)
			delete(byID, id)
		}
	}

	return posts, nil
}

// GetByOwner retrieves an owner's posts newest-first with offset pagination
func (r *PostRepository) GetByOwner(ctx context.Context, ownerID valueobjects.AccountID, offset, limit int) ([]*entities.Post, error) {
	posts, err := r.queryOwner(ctx, ownerID.String(), offset+limit)
	if err != nil {
		return nil, err
	}
	return pageSlice(posts, offset, limit), nil
}

// GetByOwners merges the newest-first timelines of several owners. Each
// owner is queried up to offset+limit deep so any page of the merge can
// be served.
func (r *PostRepository) GetByOwners(ctx context.Context, ownerIDs []string, offset, limit int) ([]*entities.Post, error) {
	merged := make([]*entities.Post, 0, len(ownerIDs)*limit)
	for _, ownerID := range ownerIDs {
		posts, err := r.queryOwner(ctx, ownerID, offset+limit)
		if err != nil {
			return nil, err
		}
		merged = append(merged, posts...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt().After(merged[j].CreatedAt())
	})

	return pageSlice(merged, offset, limit), nil
}

// GetTimeline retrieves the global newest-first timeline via GSI2
func (r *PostRepository) GetTimeline(ctx context.Context, offset, limit int) ([]*entities.Post, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.gsi2IndexName),
		KeyConditionExpression: aws.String("GSI2PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: timelinePartition},
		},
		ScanIndexForward: aws.Bool(false),
	}

	posts, err := r.queryPosts(ctx, input, offset+limit)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query timeline", err)
	}
	return pageSlice(posts, offset, limit), nil
}

func (r *PostRepository) queryOwner(ctx context.Context, ownerID string, want int) ([]*entities.Post, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND begins_with(GSI1SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: accountPK(ownerID)},
			":prefix": &types.AttributeValueMemberS{Value: "POST#"},
		},
		ScanIndexForward: aws.Bool(false),
	}

	posts, err := r.queryPosts(ctx, input, want)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query posts by owner", err)
	}
	return posts, nil
}

// queryPosts pages through a query until want posts are collected or the
// index is exhausted
func (r *PostRepository) queryPosts(ctx context.Context, input *dynamodb.QueryInput, want int) ([]*entities.Post, error) {
	posts := make([]*entities.Post, 0, want)

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}

		for _, raw := range result.Items {
			var item postItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Skipping unreadable post item", zap.Error(err))
				continue
			}
			post, err := item.toEntity()
			if err != nil {
				r.logger.Warn("Skipping invalid post item", zap.Error(err))
				continue
			}
			posts = append(posts, post)
			if len(posts) >= want {
				return posts, nil
			}
		}

		if result.LastEvaluatedKey == nil {
			return posts, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

// UpdateCaption edits a post's caption and returns the updated post
func (r *PostRepository) UpdateCaption(ctx context.Context, id valueobjects.PostID, caption string) (*entities.Post, error) {
	update := expression.
		Set(expression.Name("Caption"), expression.Value(caption)).
		Set(expression.Name("UpdatedAt"), expression.Value(utils.FormatSortKeyTime(time.Now())))

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       postKey(id.String()),
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
			return nil, pkgerrors.NewNotFoundError("post")
		}
		return nil, pkgerrors.NewDatabaseError("update caption", err)
	}

	var item postItem
	if err := attributevalue.UnmarshalMap(result.Attributes, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}

	return item.toEntity()
}

// Delete removes a post; the embedded comments and likes vanish with it
func (r *PostRepository) Delete(ctx context.Context, id valueobjects.PostID) error {
	input := &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 postKey(id.String()),
		ConditionExpression: aws.String("attribute_exists(PK)"),
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return pkgerrors.NewNotFoundError("post")
		}
		return pkgerrors.NewDatabaseError("delete post", err)
	}

	return nil
}

// Like mutations are single-clause set updates; the op picks the direction
const (
	likeOpAdd    = "ADD"
	likeOpRemove = "DELETE"
)

// likeUpdateExpression mutates the like set and refreshes UpdatedAt in the
// same write, so the stored timestamp never lags the returned entity
func likeUpdateExpression(op string) string {
	return op + " Likes :like SET UpdatedAt = :now"
}

// AddLike adds the account to the like set with a single ADD mutation.
// The previous item is returned by DynamoDB, so membership change is
// computed without a second read.
func (r *PostRepository) AddLike(ctx context.Context, postID valueobjects.PostID, accountID string) (*entities.Post, bool, error) {
	return r.mutateLikes(ctx, postID, accountID, likeOpAdd)
}

// RemoveLike removes the account from the like set with a single DELETE
// mutation
func (r *PostRepository) RemoveLike(ctx context.Context, postID valueobjects.PostID, accountID string) (*entities.Post, bool, error) {
	return r.mutateLikes(ctx, postID, accountID, likeOpRemove)
}

func (r *PostRepository) mutateLikes(ctx context.Context, postID valueobjects.PostID, accountID, op string) (*entities.Post, bool, error) {
	input := &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 postKey(postID.String()),
		UpdateExpression:    aws.String(likeUpdateExpression(op)),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":like": &types.AttributeValueMemberSS{Value: []string{accountID}},
			":now":  &types.AttributeValueMemberS{Value: utils.FormatSortKeyTime(time.Now())},
		},
		ReturnValues: types.ReturnValueAllOld,
	}

	result, err := r.client.UpdateItem(ctx, input)
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return nil, false, pkgerrors.NewNotFoundError("post")
		}
		return nil, false, pkgerrors.NewDatabaseError("update likes", err)
	}

	var item postItem
	if err := attributevalue.UnmarshalMap(result.Attributes, &item); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal post: %w", err)
	}

	post, err := item.toEntity()
	if err != nil {
		return nil, false, err
	}

	// Replay the mutation on the pre-image to learn whether membership
	// actually changed
	var changed bool
	if op == likeOpAdd {
		changed = post.AddLike(accountID)
	} else {
		changed = post.RemoveLike(accountID)
	}

	return post, changed, nil
}

// AppendComment appends a comment to the post's comment list atomically
func (r *PostRepository) AppendComment(ctx context.Context, postID valueobjects.PostID, comment entities.Comment) (*entities.Post, error) {
	commentAV, err := attributevalue.Marshal(commentItem{
		AuthorID:  comment.AuthorID,
		Text:      comment.Text,
		CreatedAt: utils.FormatRFC3339(comment.CreatedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal comment: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 postKey(postID.String()),
		UpdateExpression:    aws.String("SET Comments = list_append(if_not_exists(Comments, :empty), :comment), UpdatedAt = :now"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":comment": &types.AttributeValueMemberL{Value: []types.AttributeValue{commentAV}},
			":empty":   &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":now":     &types.AttributeValueMemberS{Value: utils.FormatSortKeyTime(time.Now())},
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	result, err := r.client.UpdateItem(ctx, input)
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return nil, pkgerrors.NewNotFoundError("post")
		}
		return nil, pkgerrors.NewDatabaseError("append comment", err)
	}

	var item postItem
	if err := attributevalue.UnmarshalMap(result.Attributes, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}

	return item.toEntity()
}

func postKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: postPK(id)},
		"SK": &types.AttributeValueMemberS{Value: "METADATA"},
	}
}

// pageSlice returns the clamped [offset, offset+limit) window of posts
func pageSlice(posts []*entities.Post, offset, limit int) []*entities.Post {
	if offset >= len(posts) {
		return []*entities.Post{}
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end]
}
