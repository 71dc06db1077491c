package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-formsync/core"
	"github.com/goliatone/go-formsync/transport"
	glog "github.com/goliatone/go-logger/glog"
)

type Config struct {
	Token           string
	BaseURL         string
	Version         string
	TitleProperty   string
	Timeout         time.Duration
	MaxReadAttempts int
}

// ConfigFrom maps the service configuration onto the client settings.
func ConfigFrom(cfg core.NotionConfig) Config {
	return Config{
		Token:           cfg.Token,
		BaseURL:         cfg.BaseURL,
		Version:         cfg.Version,
		TitleProperty:   cfg.TitleProperty,
		Timeout:         time.Duration(cfg.TimeoutSeconds) * time.Second,
		MaxReadAttempts: cfg.MaxReadAttempts,
	}
}

type Option func(*Client)

func WithHTTPDoer(doer transport.HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.doer = doer
		}
	}
}

func WithSleeper(sleep transport.Sleeper) Option {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

func WithLogger(logger core.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

type Client struct {
	cfg     Config
	baseURL string
	doer    transport.HTTPDoer
	sleep   transport.Sleeper
	logger  core.Logger
	rest    *transport.RESTAdapter
	retrier transport.Retrier
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, clientConfigError("notion: token is required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = core.DefaultNotionBaseURL
	}
	if strings.TrimSpace(cfg.Version) == "" {
		cfg.Version = core.DefaultNotionVersion
	}
	if strings.TrimSpace(cfg.TitleProperty) == "" {
		cfg.TitleProperty = core.DefaultNotionTitleProperty
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = transport.DefaultClientTimeout
	}
	if cfg.MaxReadAttempts <= 0 {
		cfg.MaxReadAttempts = transport.DefaultMaxAttempts
	}

	client := &Client{
		cfg:     cfg,
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		sleep:   transport.SleepContext,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	client.logger = glog.Ensure(client.logger)
	if client.doer == nil {
		client.doer = &http.Client{Timeout: cfg.Timeout}
	}

	client.rest = transport.NewRESTAdapter(client.doer)
	client.rest.DefaultHeaders = map[string]string{
		"Authorization":  "Bearer " + strings.TrimSpace(cfg.Token),
		"Notion-Version": cfg.Version,
		"Content-Type":   "application/json",
	}
	client.retrier = transport.NewRetrier(cfg.MaxReadAttempts)
	client.retrier.Sleep = client.sleep
	client.retrier.Logger = client.logger
	return client, nil
}

// FindDatabaseByTitle returns the id of the first database directly under
// rootPageID whose concatenated plain text title equals title exactly.
func (c *Client) FindDatabaseByTitle(ctx context.Context, rootPageID, title string) (string, bool, error) {
	databases, err := c.ListChildDatabases(ctx, rootPageID)
	if err != nil {
		return "", false, err
	}
	for _, database := range databases {
		if database.Title == title {
			return database.ID, true, nil
		}
	}
	return "", false, nil
}

// ListChildDatabases follows the block cursor of rootPageID until exhausted
// and loads every child database. A database whose lookup answers non-2xx is
// logged and skipped; transport failures abort the listing.
func (c *Client) ListChildDatabases(ctx context.Context, rootPageID string) ([]Database, error) {
	blocks, err := c.listBlocks(ctx, rootPageID)
	if err != nil {
		return nil, err
	}
	databases := make([]Database, 0, len(blocks))
	for _, child := range blocks {
		if child.Type != blockTypeChildDatabase {
			continue
		}
		database, err := c.GetDatabase(ctx, child.ID)
		if err != nil {
			if core.IsTextCode(err, core.ErrorDirectoryAPI) {
				c.logger.Error("notion: skipping unreadable database",
					"database_id", child.ID,
					"error", err,
				)
				continue
			}
			return nil, err
		}
		databases = append(databases, database)
	}
	return databases, nil
}

func (c *Client) GetDatabase(ctx context.Context, databaseID string) (Database, error) {
	var object databaseObject
	if err := c.read(ctx, "get database", "/databases/"+url.PathEscape(databaseID), nil, &object); err != nil {
		return Database{}, err
	}
	return object.toDatabase(), nil
}

func (c *Client) listBlocks(ctx context.Context, pageID string) ([]block, error) {
	path := "/blocks/" + url.PathEscape(pageID) + "/children"
	var (
		results []block
		cursor  string
	)
	for {
		query := map[string]string{"page_size": fmt.Sprint(listPageSize)}
		if cursor != "" {
			query["start_cursor"] = cursor
		}
		var page blockList
		if err := c.read(ctx, "list blocks", path, query, &page); err != nil {
			return nil, err
		}
		results = append(results, page.Results...)
		if !page.HasMore || page.NextCursor == nil || *page.NextCursor == "" {
			return results, nil
		}
		cursor = *page.NextCursor
	}
}

// CreateDatabase creates a database under rootPageID with the title column
// plus one rich text column per distinct name, in order.
func (c *Client) CreateDatabase(ctx context.Context, rootPageID, title string, columns []string) (string, error) {
	properties := map[string]any{
		c.cfg.TitleProperty: map[string]any{"title": map[string]any{}},
	}
	for _, name := range columns {
		if !c.usableColumn(name) {
			continue
		}
		properties[name] = map[string]any{"rich_text": map[string]any{}}
	}
	request := createDatabaseRequest{
		Parent:     pageParent{Type: parentTypePageID, PageID: rootPageID},
		Title:      textSegments(title),
		Properties: properties,
	}
	var created createdObject
	if err := c.write(ctx, "create database", "/databases", request, &created); err != nil {
		return "", err
	}
	c.logger.Info("notion: database created", "database_id", created.ID, "title", title, "columns", len(properties)-1)
	return created.ID, nil
}

// CreateRow adds a page to databaseID titled title with one rich text value
// per property.
func (c *Client) CreateRow(ctx context.Context, databaseID, title string, properties map[string]string) (string, error) {
	payload := map[string]any{
		c.cfg.TitleProperty: map[string]any{"title": textSegments(title)},
	}
	for name, value := range properties {
		if !c.usableColumn(name) {
			continue
		}
		payload[name] = map[string]any{"rich_text": textSegments(value)}
	}
	request := createPageRequest{
		Parent:     databaseParent{DatabaseID: databaseID},
		Properties: payload,
	}
	var created createdObject
	if err := c.write(ctx, "create page", "/pages", request, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// usableColumn drops blank names and names that would shadow the title column.
func (c *Client) usableColumn(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	if name == c.cfg.TitleProperty {
		c.logger.Warn("notion: property shadows the title column, skipping", "property", name)
		return false
	}
	return true
}

func (c *Client) read(ctx context.Context, operation, path string, query map[string]string, out any) error {
	return c.retrier.Do(ctx, func(ctx context.Context) error {
		return c.exchange(ctx, operation, http.MethodGet, path, query, nil, out)
	})
}

func (c *Client) write(ctx context.Context, operation, path string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return core.WrapError(err, goerrors.CategoryInternal, fmt.Sprintf("notion: encode %s request", operation), core.ErrorInternal, nil)
	}
	return c.exchange(ctx, operation, http.MethodPost, path, nil, encoded, out)
}

func (c *Client) exchange(ctx context.Context, operation, method, path string, query map[string]string, body []byte, out any) error {
	res, err := c.rest.Do(ctx, transport.Request{
		Method:  method,
		URL:     c.baseURL + path,
		Query:   query,
		Body:    body,
		Timeout: c.cfg.Timeout,
	})
	if err != nil {
		return err
	}
	c.logger.Debug("notion: response",
		"operation", operation,
		"status_code", res.StatusCode,
		"duration_ms", res.Metadata["duration_ms"],
	)
	if !res.Success() {
		return directoryAPIError(operation, res.StatusCode, res.Body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(res.Body, out); err != nil {
		return decodeError(err, operation)
	}
	return nil
}
