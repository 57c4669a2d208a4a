package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKeyPrefix namespaces every key the Redis repository writes.
const DefaultRedisKeyPrefix = "taskboard:"

// RedisTaskRepository implements task.Repository on Redis.
//
// Each task is a JSON string under <prefix>task:<id>. A sorted set at
// <prefix>tasks holds every id with score 0, so ZRANGE yields ids in
// lexicographic order, which for UUIDv7 ids is creation order.
type RedisTaskRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisTaskRepository creates a repository on client. An empty prefix
// falls back to DefaultRedisKeyPrefix.
func NewRedisTaskRepository(client redis.UniversalClient, prefix string) *RedisTaskRepository {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisTaskRepository{client: client, prefix: prefix}
}

func (r *RedisTaskRepository) taskKey(id string) string {
	return r.prefix + "task:" + id
}

func (r *RedisTaskRepository) indexKey() string {
	return r.prefix + "tasks"
}

// GetTasks reads a window of the id index, fetches the documents, then
// counts the index. Ids removed between the range and the fetch are skipped.
func (r *RedisTaskRepository) GetTasks(ctx context.Context, page, limit int) ([]task.Task, int64, error) {
	if err := task.CheckPage(page, limit); err != nil {
		return nil, 0, err
	}

	var ids []string
	if offset, ok := task.Offset(page, limit); ok {
		start := int64(offset)
		var err error
		ids, err = r.client.ZRange(ctx, r.indexKey(), start, start+int64(limit)-1).Result()
		if err != nil {
			return nil, 0, task.NewStorageError("get tasks", err)
		}
	}

	tasks := make([]task.Task, 0, len(ids))
	if len(ids) > 0 {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = r.taskKey(id)
		}

		values, err := r.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, 0, task.NewStorageError("get tasks", err)
		}

		for i, v := range values {
			raw, ok := v.(string)
			if !ok {
				continue
			}
			var t task.Task
			if err := json.Unmarshal([]byte(raw), &t); err != nil {
				return nil, 0, task.NewStorageError("get tasks", fmt.Errorf("decode %s: %w", ids[i], err))
			}
			tasks = append(tasks, t)
		}
	}

	total, err := r.client.ZCard(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, 0, task.NewStorageError("count tasks", err)
	}

	return tasks, total, nil
}

// createScript writes the document and its index entry together. ZADD runs
// first because it is the only call that can fail on existing data (a wrong
// key type), and a script error does not undo earlier writes.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('ZADD', KEYS[2], 0, ARGV[2])
redis.call('SET', KEYS[1], ARGV[1])
return 1
`)

// CreateTask stores and indexes t in one script, only if its id is unused.
func (r *RedisTaskRepository) CreateTask(ctx context.Context, t task.Task) error {
	data, err := json.Marshal(t)
	if err != nil {
		return task.NewStorageError("create task", err)
	}

	created, err := createScript.Run(ctx, r.client, []string{r.taskKey(t.ID), r.indexKey()}, data, t.ID).Int()
	if err != nil {
		return task.NewStorageError("create task", err)
	}
	if created == 0 {
		return task.NewStorageError("create task", fmt.Errorf("%w: %s", task.ErrDuplicateTask, t.ID))
	}
	return nil
}

// UpdateTask overwrites the stored document for id only if it exists.
func (r *RedisTaskRepository) UpdateTask(ctx context.Context, id string, t task.Task) (bool, error) {
	t.ID = id
	data, err := json.Marshal(t)
	if err != nil {
		return false, task.NewStorageError("update task", err)
	}

	ok, err := r.client.SetXX(ctx, r.taskKey(id), data, redis.KeepTTL).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, task.NewStorageError("update task", err)
	}
	return ok, nil
}

// DeleteTask removes the document and its index entry in one transaction.
func (r *RedisTaskRepository) DeleteTask(ctx context.Context, id string) (bool, error) {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.taskKey(id))
		pipe.ZRem(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return false, task.NewStorageError("delete task", err)
	}
	return del.Val() > 0, nil
}
