package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"

	"workroll/domain"
)

// Config names the tables and queue backing the service.
type Config struct {
	ConnectionString string
	WorkspacesTable  string
	MembersTable     string
	ProjectsTable    string
	RecordsTable     string
	AbsencesTable    string
	ActivityQueue    string
}

// Tables lists every configured table name.
func (c Config) Tables() []string {
	return []string{c.WorkspacesTable, c.MembersTable, c.ProjectsTable, c.RecordsTable, c.AbsencesTable}
}

// Storage provides access to Azure Table storage and the activity queue.
// Workspaces are keyed by their own id; every other table is partitioned by
// workspace id so a workspace's rows can be listed and batched together.
type Storage struct {
	workspaces *aztables.Client
	members    *aztables.Client
	projects   *aztables.Client
	records    *aztables.Client
	absences   *aztables.Client
	activity   *azqueue.QueueClient
	now        func() time.Time
}

var retryStatusCodes = []int{408, 429, 500, 502, 503, 504}

// New creates a Storage instance from the given configuration.
func New(cfg Config) (*Storage, error) {
	tablesClientOptions := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute * 3,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   retryStatusCodes,
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(cfg.ConnectionString, &tablesClientOptions)
	if err != nil {
		return nil, err
	}
	queueClientOptions := azqueue.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    5,
				TryTimeout:    time.Minute * 5,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 60,
				StatusCodes:   retryStatusCodes,
			},
		},
	}
	q, err := azqueue.NewQueueClientFromConnectionString(cfg.ConnectionString, cfg.ActivityQueue, &queueClientOptions)
	if err != nil {
		return nil, err
	}
	return &Storage{
		workspaces: svc.NewClient(cfg.WorkspacesTable),
		members:    svc.NewClient(cfg.MembersTable),
		projects:   svc.NewClient(cfg.ProjectsTable),
		records:    svc.NewClient(cfg.RecordsTable),
		absences:   svc.NewClient(cfg.AbsencesTable),
		activity:   q,
		now:        time.Now,
	}, nil
}

// tableEntity carries the keys shared by every row.
type tableEntity struct {
	PartitionKey string `json:"PartitionKey"`
	RowKey       string `json:"RowKey"`
}

const (
	edmInt64  = "Edm.Int64"
	edmDouble = "Edm.Double"

	dateLayout = "2006-01-02"
)

// mapError translates table service failures into domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", domain.ErrNotFound, respErr.ErrorCode)
		case http.StatusConflict:
			return fmt.Errorf("%w: %s", domain.ErrConflict, respErr.ErrorCode)
		case http.StatusPreconditionFailed:
			return fmt.Errorf("%w: %s", domain.ErrConcurrencyConflict, respErr.ErrorCode)
		}
	}
	return err
}

func marshalEntity(v any) ([]byte, error) {
	return json.Marshal(v)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
