package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/job_board/internal/models"
	"github.com/Skotchmaster/job_board/internal/repo"
	"github.com/Skotchmaster/job_board/internal/testdb"
)

type recordedEvent struct {
	Key   string
	Event map[string]any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, key string, event map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Key: key, Event: event})
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event["type"].(string))
	}
	return out
}

type fakeMailer struct {
	to, link string
	err      error
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, link string) error {
	m.to, m.link = to, link
	return m.err
}

type fakeLimiter struct {
	seen map[string]bool
}

func (l *fakeLimiter) Allow(_ context.Context, scope, key string) (bool, error) {
	if l.seen == nil {
		l.seen = map[string]bool{}
	}
	k := scope + ":" + key
	if l.seen[k] {
		return false, nil
	}
	l.seen[k] = true
	return true, nil
}

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return repo.New(testdb.New(t), time.Second)
}

func seedUser(t *testing.T, r *repo.GormRepo, email string, role int) *models.User {
	t.Helper()
	u := &models.User{Email: email, Username: email, Password: "x", FullName: "User " + email, RoleID: role}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func seedJob(t *testing.T, r *repo.GormRepo, title, company string) *models.Job {
	t.Helper()
	j := &models.Job{Title: title, Company: company}
	require.NoError(t, r.CreateJob(context.Background(), j, repo.JobChildren{}))
	return j
}
