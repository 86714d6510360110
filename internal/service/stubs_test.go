package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/homework-tracker-api/internal/models"
	"github.com/noah-isme/homework-tracker-api/internal/repository"
	appErrors "github.com/noah-isme/homework-tracker-api/pkg/errors"
	"github.com/noah-isme/homework-tracker-api/pkg/jobs"
)

type homeworkStoreStub struct {
	mu        sync.Mutex
	homeworks map[string]models.Homework
	listErr   error
	lists     int
}

func newHomeworkStoreStub(items ...models.Homework) *homeworkStoreStub {
	s := &homeworkStoreStub{homeworks: map[string]models.Homework{}}
	for _, hw := range items {
		s.homeworks[hw.ID] = hw
	}
	return s
}

func (s *homeworkStoreStub) List(ctx context.Context, filter models.HomeworkFilter) ([]models.Homework, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Homework
	for _, hw := range s.homeworks {
		if filter.ActiveAt != nil && hw.HasValidDueDate() && !hw.DueDate.After(*filter.ActiveAt) {
			continue
		}
		out = append(out, hw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *homeworkStoreStub) FindByID(ctx context.Context, id string) (*models.Homework, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	hw, ok := s.homeworks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &hw, nil
}

func (s *homeworkStoreStub) Create(ctx context.Context, hw *models.Homework) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hw.ID == "" {
		hw.ID = uuid.NewString()
	}
	hw.CreatedAt = time.Now().UTC()
	s.homeworks[hw.ID] = *hw
	return nil
}

func (s *homeworkStoreStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.homeworks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.homeworks, id)
	return nil
}

func (s *homeworkStoreStub) DeleteDueBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, hw := range s.homeworks {
		if hw.DueDate.Before(cutoff) {
			delete(s.homeworks, id)
			n++
		}
	}
	return n, nil
}

type subscriberStoreStub struct {
	mu          sync.Mutex
	subscribers []models.Subscriber
	listErr     error
	creates     int
}

func (s *subscriberStoreStub) List(ctx context.Context) ([]models.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Subscriber, len(s.subscribers))
	copy(out, s.subscribers)
	return out, nil
}

func (s *subscriberStoreStub) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subscribers {
		if sub.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *subscriberStoreStub) Create(ctx context.Context, sub *models.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	s.subscribers = append(s.subscribers, *sub)
	return nil
}

func (s *subscriberStoreStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub.ID == id {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *subscriberStoreStub) AddUnsubscribedHomework(ctx context.Context, id, homeworkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub.ID != id {
			continue
		}
		if !sub.UnsubscribedHomeworks.Contains(homeworkID) {
			s.subscribers[i].UnsubscribedHomeworks = append(sub.UnsubscribedHomeworks, homeworkID)
		}
		return nil
	}
	return repository.ErrNotFound
}

type dispatcherStub struct {
	mu       sync.Mutex
	fail     map[string]bool
	calls    []models.DeliveryOutcome
	messages []RenderedMessage
	kinds    []models.NotificationKind
	delay    time.Duration
	inFlight int32
	peak     int32
}

func (d *dispatcherStub) Dispatch(ctx context.Context, kind models.NotificationKind, homeworkID, recipient string, msg RenderedMessage) models.DeliveryOutcome {
	current := atomic.AddInt32(&d.inFlight, 1)
	for {
		peak := atomic.LoadInt32(&d.peak)
		if current <= peak || atomic.CompareAndSwapInt32(&d.peak, peak, current) {
			break
		}
	}
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	atomic.AddInt32(&d.inFlight, -1)

	outcome := models.DeliveryOutcome{HomeworkID: homeworkID, Recipient: recipient, Sent: true}
	if d.fail[recipient] {
		outcome.Sent = false
		outcome.Err = errors.New("mailbox unavailable")
	}
	d.mu.Lock()
	d.calls = append(d.calls, outcome)
	d.messages = append(d.messages, msg)
	d.kinds = append(d.kinds, kind)
	d.mu.Unlock()
	return outcome
}

func (d *dispatcherStub) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type cacheRepoStub struct {
	data        map[string][]byte
	invalidated []string
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{data: map[string][]byte{}}
}

func (c *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	c.invalidated = append(c.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
	return nil
}
