package kanbanize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/kanbanize-sync/internal/client"
	"github.com/TWRT/kanbanize-sync/internal/models"
)

const DefaultBaseURL = "http://kanbanize.com/index.php/api/kanbanize"

var _ client.BoardProvider = (*KanbanizeClient)(nil)

type KanbanizeClient struct {
	baseUrl    string
	apiKey     string
	httpClient *http.Client
	log        logrus.FieldLogger
}

type Option func(*KanbanizeClient)

func WithBaseURL(baseUrl string) Option {
	return func(c *KanbanizeClient) {
		if baseUrl != "" {
			c.baseUrl = strings.TrimRight(baseUrl, "/")
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *KanbanizeClient) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the per-request timeout. Zero leaves the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *KanbanizeClient) {
		c.httpClient.Timeout = d
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *KanbanizeClient) {
		if log != nil {
			c.log = log
		}
	}
}

func NewKanbanizeClient(apiKey string, opts ...Option) *KanbanizeClient {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &KanbanizeClient{
		baseUrl:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *KanbanizeClient) ListTasks(ctx context.Context, boardId string) ([]models.Task, error) {
	path := "/get_all_tasks/boardid/" + url.PathEscape(boardId)

	var docs []models.Document
	if _, err := c.post(ctx, path, nil, &docs); err != nil {
		return nil, fmt.Errorf("list tasks (kanbanize): %w", err)
	}

	tasks := make([]models.Task, len(docs))
	for i, doc := range docs {
		tasks[i] = models.TaskFromDocument(doc)
	}
	return tasks, nil
}

func (c *KanbanizeClient) GetTask(ctx context.Context, boardId, taskId string) (models.Task, error) {
	path := "/get_task_details/boardid/" + url.PathEscape(boardId) + "/taskid/" + url.PathEscape(taskId)

	var doc models.Document
	if _, err := c.post(ctx, path, nil, &doc); err != nil {
		return models.Task{}, fmt.Errorf("get task (kanbanize): %w", err)
	}
	return models.TaskFromDocument(doc), nil
}

func (c *KanbanizeClient) CreateTask(ctx context.Context, boardId string, attrs models.TaskAttributes) (models.CreateResult, error) {
	if err := attrs.Validate(); err != nil {
		return models.CreateResult{}, fmt.Errorf("create task (kanbanize): %w", err)
	}

	body := attrs.Fields()
	body["boardid"] = boardId

	var decoded any
	raw, err := c.post(ctx, "/create_new_task", body, &decoded)
	if err != nil {
		return models.CreateResult{}, fmt.Errorf("create task (kanbanize): %w", err)
	}
	return models.NewCreateResult(raw, decoded), nil
}

func (c *KanbanizeClient) DeleteTask(ctx context.Context, boardId, taskId string) (models.Result, error) {
	body := map[string]any{
		"boardid": boardId,
		"taskid":  taskId,
	}

	var decoded any
	raw, err := c.post(ctx, "/delete_task", body, &decoded)
	if err != nil {
		return models.Result{}, fmt.Errorf("delete task (kanbanize): %w", err)
	}
	return models.NewResult(raw, decoded), nil
}

func (c *KanbanizeClient) EditTask(ctx context.Context, boardId, taskId string, attrs models.TaskAttributes) (models.Result, error) {
	if err := attrs.Validate(); err != nil {
		return models.Result{}, fmt.Errorf("edit task (kanbanize): %w", err)
	}

	body := attrs.Fields()
	body["boardid"] = boardId
	body["taskid"] = taskId

	var decoded any
	raw, err := c.post(ctx, "/edit_task", body, &decoded)
	if err != nil {
		return models.Result{}, fmt.Errorf("edit task (kanbanize): %w", err)
	}
	return models.NewResult(raw, decoded), nil
}

func (c *KanbanizeClient) MoveTask(ctx context.Context, boardId, taskId, column string, opts models.MoveOptions) (models.Result, error) {
	if err := opts.Validate(); err != nil {
		return models.Result{}, fmt.Errorf("move task (kanbanize): %w", err)
	}

	body := opts.Fields()
	body["boardid"] = boardId
	body["taskid"] = taskId
	body["column"] = column

	var decoded any
	raw, err := c.post(ctx, "/move_task", body, &decoded)
	if err != nil {
		return models.Result{}, fmt.Errorf("move task (kanbanize): %w", err)
	}
	return models.NewResult(raw, decoded), nil
}

// post sends a JSON body to {base}{path}/format/json and decodes the reply
// into out. The raw reply is returned alongside for error reporting.
func (c *KanbanizeClient) post(ctx context.Context, path string, body map[string]any, out any) ([]byte, error) {
	if body == nil {
		body = map[string]any{}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	endpoint := c.baseUrl + path + "/format/json"
	c.log.WithField("url", endpoint).Debugf("POST %s", payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
		var kErr KanbanizeErrors
		if json.Unmarshal(raw, &kErr) == nil {
			apiErr.Message = kErr.text()
		}
		return raw, apiErr
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return raw, fmt.Errorf("parse response: %w", err)
	}
	return raw, nil
}
