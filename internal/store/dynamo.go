// Package store — DynamoDB Store implementation.
//
// Users live in a single table keyed by uGuid with an email GSI for login;
// agents and chat logs are embedded in the user item and mutated with
// list_append update expressions, chat appends addressing the agent by its
// list index. The catalog and workflow tables are plain key-value lookups.
package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/insights-workflows/api-service/internal/config"
	"github.com/insights-workflows/api-service/pkg/models"
)

// DynamoStore implements Store on top of DynamoDB.
type DynamoStore struct {
	client *dynamodb.Client
	tables config.DatabaseConfig
}

// NewDynamoStore builds a DynamoDB-backed store from explicit credentials.
func NewDynamoStore(ctx context.Context, cfg config.DatabaseConfig) (*DynamoStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &DynamoStore{client: client, tables: cfg}, nil
}

func (d *DynamoStore) Ping(ctx context.Context) error {
	_, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(d.tables.UsersTable),
	})
	return err
}

func (d *DynamoStore) Close() error { return nil }

// ── Users ───────────────────────────────────────────────────

func (d *DynamoStore) CreateUser(ctx context.Context, user *models.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tables.UsersTable),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

func (d *DynamoStore) GetUser(ctx context.Context, uGuid string) (*models.User, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tables.UsersTable),
		Key:       userKey(uGuid),
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if out.Item == nil {
		return nil, &ErrNotFound{Entity: "user", Key: uGuid}
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	normalizeAgents(user.Agents)
	return &user, nil
}

// GetUserByEmail resolves the uGuid through the email GSI, then fetches the
// full record by primary key. The index projects keys only, so the
// two-step read is required.
func (d *DynamoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	out, err := d.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(d.tables.UsersTable),
		IndexName:              aws.String(d.tables.EmailIndex),
		KeyConditionExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":email": &ddbtypes.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query email index: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, &ErrNotFound{Entity: "user", Key: email}
	}

	var ref struct {
		UGuid string `dynamodbav:"uGuid"`
	}
	if err := attributevalue.UnmarshalMap(out.Items[0], &ref); err != nil {
		return nil, fmt.Errorf("unmarshal index item: %w", err)
	}
	return d.GetUser(ctx, ref.UGuid)
}

func (d *DynamoStore) SetSessionToken(ctx context.Context, uGuid, token string) error {
	return d.updateUser(ctx, uGuid, "SET sessionToken = :token", map[string]ddbtypes.AttributeValue{
		":token": &ddbtypes.AttributeValueMemberS{Value: token},
	})
}

func (d *DynamoStore) SetLoggedBefore(ctx context.Context, uGuid string, logged bool) error {
	return d.updateUser(ctx, uGuid, "SET loggedBefore = :logged", map[string]ddbtypes.AttributeValue{
		":logged": &ddbtypes.AttributeValueMemberBOOL{Value: logged},
	})
}

func (d *DynamoStore) ListUserAgents(ctx context.Context, uGuid string) ([]models.Agent, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(d.tables.UsersTable),
		Key:                  userKey(uGuid),
		ProjectionExpression: aws.String("agents"),
	})
	if err != nil {
		return nil, fmt.Errorf("get agents: %w", err)
	}
	if out.Item == nil {
		return nil, &ErrNotFound{Entity: "user", Key: uGuid}
	}

	var proj struct {
		Agents []models.Agent `dynamodbav:"agents"`
	}
	if err := attributevalue.UnmarshalMap(out.Item, &proj); err != nil {
		return nil, fmt.Errorf("unmarshal agents: %w", err)
	}
	normalizeAgents(proj.Agents)
	return proj.Agents, nil
}

func (d *DynamoStore) AppendAgent(ctx context.Context, uGuid string, agent models.Agent) error {
	if agent.Chat == nil {
		agent.Chat = []models.ChatTurn{}
	}
	av, err := attributevalue.Marshal(agent)
	if err != nil {
		return fmt.Errorf("marshal agent: %w", err)
	}
	return d.updateUser(ctx, uGuid,
		"SET agents = list_append(if_not_exists(agents, :empty), :agent)",
		map[string]ddbtypes.AttributeValue{
			":empty": &ddbtypes.AttributeValueMemberL{Value: []ddbtypes.AttributeValue{}},
			":agent": &ddbtypes.AttributeValueMemberL{Value: []ddbtypes.AttributeValue{av}},
		})
}

func (d *DynamoStore) IncrementAgentCount(ctx context.Context, uGuid string) error {
	return d.updateUser(ctx, uGuid,
		"SET agentCount = if_not_exists(agentCount, :start) + :increment",
		map[string]ddbtypes.AttributeValue{
			":start":     &ddbtypes.AttributeValueMemberN{Value: "0"},
			":increment": &ddbtypes.AttributeValueMemberN{Value: "1"},
		})
}

// AppendChatTurns appends to the chat list of the agent at agentIndex.
// The index-addressed update expression writes one item in one call; the
// index must come from a read of the same user's agent list.
func (d *DynamoStore) AppendChatTurns(ctx context.Context, uGuid string, agentIndex int, turns []models.ChatTurn) error {
	av, err := attributevalue.MarshalList(turns)
	if err != nil {
		return fmt.Errorf("marshal chat turns: %w", err)
	}
	expr := fmt.Sprintf(
		"SET agents[%d].chat = list_append(if_not_exists(agents[%d].chat, :empty), :turns)",
		agentIndex, agentIndex,
	)
	return d.updateUser(ctx, uGuid, expr, map[string]ddbtypes.AttributeValue{
		":empty": &ddbtypes.AttributeValueMemberL{Value: []ddbtypes.AttributeValue{}},
		":turns": &ddbtypes.AttributeValueMemberL{Value: av},
	})
}

func (d *DynamoStore) updateUser(ctx context.Context, uGuid, expr string, values map[string]ddbtypes.AttributeValue) error {
	_, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(d.tables.UsersTable),
		Key:                       userKey(uGuid),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func userKey(uGuid string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"uGuid": &ddbtypes.AttributeValueMemberS{Value: uGuid},
	}
}

// ── Catalog ─────────────────────────────────────────────────

func (d *DynamoStore) GetCatalogAgent(ctx context.Context, id string) (*models.CatalogAgent, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tables.CatalogTable),
		Key:       idKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("get catalog agent: %w", err)
	}
	if out.Item == nil {
		return nil, &ErrNotFound{Entity: "catalog agent", Key: id}
	}

	var agent models.CatalogAgent
	if err := attributevalue.UnmarshalMap(out.Item, &agent); err != nil {
		return nil, fmt.Errorf("unmarshal catalog agent: %w", err)
	}
	return &agent, nil
}

func (d *DynamoStore) PutCatalogAgent(ctx context.Context, agent *models.CatalogAgent) error {
	item, err := attributevalue.MarshalMap(agent)
	if err != nil {
		return fmt.Errorf("marshal catalog agent: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tables.CatalogTable),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put catalog agent: %w", err)
	}
	return nil
}

// ── Workflows ───────────────────────────────────────────────

func (d *DynamoStore) ListWorkflows(ctx context.Context) ([]models.Workflow, error) {
	out, err := d.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(d.tables.WorkflowsTable),
	})
	if err != nil {
		return nil, fmt.Errorf("scan workflows: %w", err)
	}

	var workflows []models.Workflow
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &workflows); err != nil {
		return nil, fmt.Errorf("unmarshal workflows: %w", err)
	}
	return workflows, nil
}

func (d *DynamoStore) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tables.WorkflowsTable),
		Key:       idKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("get workflow: %w", err)
	}
	if out.Item == nil {
		return nil, &ErrNotFound{Entity: "workflow", Key: id}
	}

	var wf models.Workflow
	if err := attributevalue.UnmarshalMap(out.Item, &wf); err != nil {
		return nil, fmt.Errorf("unmarshal workflow: %w", err)
	}
	return &wf, nil
}

func (d *DynamoStore) PutWorkflow(ctx context.Context, wf *models.Workflow) error {
	item, err := attributevalue.MarshalMap(wf)
	if err != nil {
		return fmt.Errorf("marshal workflow: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tables.WorkflowsTable),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put workflow: %w", err)
	}
	return nil
}

func idKey(id string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"id": &ddbtypes.AttributeValueMemberS{Value: id},
	}
}
