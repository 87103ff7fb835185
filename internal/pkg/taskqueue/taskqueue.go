package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	pkgredis "github.com/inkpress/core/internal/pkg/redis"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Task is a unit of background work stored in Redis.
type Task struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Status    TaskStatus      `json:"status"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

const (
	keyPrefix = "task:"
	keyList   = "task_queue"
	taskTTL   = 24 * time.Hour

	popTimeout = 5 * time.Second
)

// Handler processes one task payload. A returned error marks the task
// failed; there are no retries.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Queue is a Redis-list-backed work queue. Producers call Enqueue;
// a single Run loop pops task ids and dispatches them to the handler
// registered for the task type.
type Queue struct {
	rc       *pkgredis.Client
	log      *zap.Logger
	handlers map[string]Handler
}

func New(rc *pkgredis.Client, log *zap.Logger) *Queue {
	if log == nil {
		log = zap.NewNop()
	}
	return &Queue{rc: rc, log: log, handlers: make(map[string]Handler)}
}

// Register binds a handler to a task type. Call before Run.
func (q *Queue) Register(taskType string, h Handler) {
	q.handlers[taskType] = h
}

func taskKey(id string) string { return keyPrefix + id }

// Enqueue records the task and pushes its id onto the work list.
func (q *Queue) Enqueue(ctx context.Context, taskType string, payload interface{}) (*Task, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task := &Task{
		ID:        uuid.New().String(),
		Type:      taskType,
		Payload:   payloadBytes,
		Status:    TaskPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := q.save(ctx, task); err != nil {
		return nil, err
	}
	if err := q.rc.Raw().LPush(ctx, keyList, task.ID).Err(); err != nil {
		return nil, err
	}
	return task, nil
}

// Get retrieves a task by id. Returns (nil, nil) when absent or expired.
func (q *Queue) Get(ctx context.Context, id string) (*Task, error) {
	data, err := q.rc.Raw().Get(ctx, taskKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var task Task
	return &task, json.Unmarshal(data, &task)
}

// Run consumes tasks until ctx is cancelled. Pop errors are logged and
// the loop backs off briefly rather than exiting.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := q.rc.Raw().BRPop(ctx, popTimeout, keyList).Result()
		if err == redis.Nil || ctx.Err() != nil {
			continue
		}
		if err != nil {
			q.log.Warn("task pop failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		if len(res) < 2 {
			continue
		}
		q.process(ctx, res[1])
	}
}

func (q *Queue) process(ctx context.Context, id string) {
	task, err := q.Get(ctx, id)
	if err != nil || task == nil {
		q.log.Warn("task vanished before processing", zap.String("id", id), zap.Error(err))
		return
	}

	handler, ok := q.handlers[task.Type]
	if !ok {
		q.setStatus(ctx, task, TaskFailed, fmt.Sprintf("no handler for type %q", task.Type))
		return
	}

	q.setStatus(ctx, task, TaskRunning, "")
	if err := handler(ctx, task.Payload); err != nil {
		q.log.Warn("task failed", zap.String("id", task.ID), zap.String("type", task.Type), zap.Error(err))
		q.setStatus(ctx, task, TaskFailed, err.Error())
		return
	}
	q.setStatus(ctx, task, TaskCompleted, "")
}

func (q *Queue) setStatus(ctx context.Context, task *Task, status TaskStatus, errMsg string) {
	task.Status = status
	task.Error = errMsg
	task.UpdatedAt = time.Now()
	if err := q.save(ctx, task); err != nil {
		q.log.Warn("task status update failed", zap.String("id", task.ID), zap.Error(err))
	}
}

func (q *Queue) save(ctx context.Context, task *Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return q.rc.Set(ctx, taskKey(task.ID), data, taskTTL)
}
