package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
)

var fixedNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func dayPtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

type stubWithdrawalRepo struct {
	records    map[int64]models.WithdrawalRecord
	nextID     int64
	seq        int
	lastFilter models.WithdrawalFilter
	updates    int
	updateErr  error
	students   *stubStudentRepo
}

func newStubWithdrawalRepo(records ...models.WithdrawalRecord) *stubWithdrawalRepo {
	repo := &stubWithdrawalRepo{records: map[int64]models.WithdrawalRecord{}, nextID: 100}
	for _, r := range records {
		repo.records[r.ID] = r
	}
	return repo
}

func (r *stubWithdrawalRepo) Create(ctx context.Context, record *models.WithdrawalRecord) error {
	if record.WithdrawalNumber == "" {
		r.seq++
		record.WithdrawalNumber = models.FormatWithdrawalNumber(record.CreatedAt.Year(), r.seq)
	}
	r.nextID++
	record.ID = r.nextID
	r.records[record.ID] = *record
	return nil
}

func (r *stubWithdrawalRepo) FindByID(ctx context.Context, id int64) (*models.WithdrawalRecord, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &record, nil
}

func (r *stubWithdrawalRepo) FindByNumber(ctx context.Context, number string) (*models.WithdrawalRecord, error) {
	for _, record := range r.records {
		if record.WithdrawalNumber == number {
			rec := record
			return &rec, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *stubWithdrawalRepo) List(ctx context.Context, filter models.WithdrawalFilter) ([]models.WithdrawalRecord, int, error) {
	r.lastFilter = filter
	out := make([]models.WithdrawalRecord, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, record)
	}
	return out, len(out), nil
}

func (r *stubWithdrawalRepo) Update(ctx context.Context, record *models.WithdrawalRecord) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates++
	r.records[record.ID] = *record
	return nil
}

func (r *stubWithdrawalRepo) UpdateStatus(ctx context.Context, id int64, status models.WithdrawalStatus, completedAt *time.Time, actor *int64, now time.Time) error {
	record, ok := r.records[id]
	if !ok {
		return sql.ErrNoRows
	}
	record.Status = status
	record.CompletedAt = completedAt
	r.records[id] = record
	return nil
}

// Complete mimics the transactional repository: a failing student write leaves both rows untouched.
func (r *stubWithdrawalRepo) Complete(ctx context.Context, id, studentID int64, studentStatus models.StudentStatus, completedAt time.Time, actor *int64) error {
	record, ok := r.records[id]
	if !ok {
		return sql.ErrNoRows
	}
	if r.students != nil {
		if r.students.updateErr != nil {
			return r.students.updateErr
		}
		r.students.statuses[studentID] = studentStatus
	}
	record.Status = models.WithdrawalStatusCompleted
	record.CompletedAt = &completedAt
	r.records[id] = record
	return nil
}

type stubStudentRepo struct {
	students  map[int64]models.Student
	statuses  map[int64]models.StudentStatus
	updateErr error
}

func newStubStudentRepo(students ...models.Student) *stubStudentRepo {
	repo := &stubStudentRepo{students: map[int64]models.Student{}, statuses: map[int64]models.StudentStatus{}}
	for _, s := range students {
		repo.students[s.ID] = s
	}
	return repo
}

func (r *stubStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

// memoryCache stores JSON payloads like the redis repository does.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
		c.deleted = append(c.deleted, key)
	}
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]byte{}
	return nil
}

type stubAuditRepo struct {
	mu   sync.Mutex
	logs []models.AuditLog
	err  error
}

func (r *stubAuditRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *stubAuditRepo) ListByResource(ctx context.Context, resource string, resourceID int64, limit int) ([]models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.AuditLog, 0)
	for _, log := range r.logs {
		if log.Resource == resource && log.ResourceID != nil && *log.ResourceID == resourceID {
			out = append(out, log)
		}
	}
	return out, nil
}

func (r *stubAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.logs))
	for _, log := range r.logs {
		out = append(out, log.Action)
	}
	return out
}
