package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"contentorchestrator/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrEmpty: за время ожидания задач не появилось.
var ErrEmpty = errors.New("очередь пуста")

// Envelope: то, что реально лежит в списке Redis.
type Envelope struct {
	ID         string               `json:"id"`
	Job        models.GenerationJob `json:"job"`
	Attempt    int                  `json:"attempt"`
	EnqueuedAt time.Time            `json:"enqueuedAt"`
	LastError  string               `json:"lastError,omitempty"`
}

// Delivery: взятая в работу задача. raw нужен, чтобы убрать её из processing-списка.
type Delivery struct {
	Envelope
	raw string
}

// RedisQueue: надёжная очередь на списках: LPUSH в основной список,
// BLMOVE в собственный processing-список воркера, подтверждение через LREM.
type RedisQueue struct {
	rdb         *redis.Client
	name        string
	consumer    string
	maxAttempts int
}

func NewRedisQueue(rdb *redis.Client, name, consumer string, maxAttempts int) *RedisQueue {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RedisQueue{rdb: rdb, name: name, consumer: consumer, maxAttempts: maxAttempts}
}

func (q *RedisQueue) processingKey() string { return q.name + ":processing:" + q.consumer }

// FailedKey: список задач, исчерпавших попытки.
func (q *RedisQueue) FailedKey() string { return q.name + ":failed" }

func (q *RedisQueue) Enqueue(ctx context.Context, job models.GenerationJob) error {
	env := Envelope{ID: uuid.NewString(), Job: job, Attempt: 0, EnqueuedAt: time.Now().UTC()}
	return q.push(ctx, q.name, env)
}

func (q *RedisQueue) push(ctx context.Context, key string, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	if err := q.rdb.LPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("redis lpush %s: %w", key, err)
	}
	return nil
}

// Dequeue блокируется до timeout. Возвращает ErrEmpty, если задач не было.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Delivery, error) {
	raw, err := q.rdb.BLMove(ctx, q.name, q.processingKey(), "RIGHT", "LEFT", timeout).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		// битую запись сразу в failed, чтобы она не крутилась вечно
		_ = q.rdb.LRem(ctx, q.processingKey(), 1, raw).Err()
		_ = q.rdb.LPush(ctx, q.FailedKey(), raw).Err()
		return nil, fmt.Errorf("некорректная задача в очереди: %w", err)
	}
	return &Delivery{Envelope: env, raw: raw}, nil
}

func (q *RedisQueue) Ack(ctx context.Context, d *Delivery) error {
	return q.rdb.LRem(ctx, q.processingKey(), 1, d.raw).Err()
}

// Fail возвращает задачу в очередь, пока не кончились попытки, затем кладёт её в failed.
func (q *RedisQueue) Fail(ctx context.Context, d *Delivery, cause error) (requeued bool, err error) {
	env := d.Envelope
	env.Attempt++
	if cause != nil {
		env.LastError = cause.Error()
	}

	target := q.FailedKey()
	if env.Attempt < q.maxAttempts {
		target = q.name
		requeued = true
	}

	data, err := json.Marshal(env)
	if err != nil {
		return false, err
	}

	_, err = q.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LRem(ctx, q.processingKey(), 1, d.raw)
		p.LPush(ctx, target, data)
		return nil
	})
	if err != nil {
		return false, err
	}
	return requeued, nil
}

// Recover возвращает в очередь всё, что осталось в processing-списке этого
// воркера после падения. Вызывается один раз при старте.
func (q *RedisQueue) Recover(ctx context.Context) (int, error) {
	n := 0
	for {
		err := q.rdb.LMove(ctx, q.processingKey(), q.name, "RIGHT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.name).Result()
}
