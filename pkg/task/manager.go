// Package task tracks long-running AI generation jobs so the frontend can
// poll for completion.
package task

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status shows what state a generation job is in
type Status string

const (
	StatusPending   Status = "pending"   // queued, not started yet
	StatusRunning   Status = "running"   // generation in flight
	StatusCompleted Status = "completed" // a response candidate was created
	StatusFailed    Status = "failed"    // generation errored or was cancelled
)

// Task represents one generation job against one question
type Task struct {
	ID         string    `json:"id"`
	QuestionID uuid.UUID `json:"question_id"` // what we're answering

	Status Status `json:"status"`

	// ResponseID is set once the candidate exists. A failed or cancelled
	// job never has one - there is no partially-created response.
	ResponseID uuid.UUID `json:"response_id,omitempty"`

	ErrorMessage string `json:"error_message,omitempty"` // why it failed

	CreatedAt   time.Time `json:"created_at"`
	StartedAt   time.Time `json:"started_at,omitempty"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// Manager keeps all jobs in memory behind a mutex
type Manager struct {
	mu      sync.RWMutex
	tasks   map[string]*Task
	cancels map[string]context.CancelFunc
}

// NewManager creates an empty manager
func NewManager() *Manager {
	return &Manager{
		tasks:   make(map[string]*Task),
		cancels: make(map[string]context.CancelFunc),
	}
}

// Create registers a new pending job and returns its ID
func (m *Manager) Create(questionID uuid.UUID) string {
	taskID := uuid.New().String()

	m.mu.Lock()
	m.tasks[taskID] = &Task{
		ID:         taskID,
		QuestionID: questionID,
		Status:     StatusPending,
		CreatedAt:  time.Now(),
	}
	m.mu.Unlock()

	return taskID
}

// Get retrieves job info by ID
func (m *Manager) Get(taskID string) (*Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, exists := m.tasks[taskID]
	if !exists {
		return nil, false
	}
	out := *task
	return &out, true
}

// Start marks the job running and remembers its cancel func
func (m *Manager) Start(taskID string, cancel context.CancelFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.tasks[taskID]
	if !exists {
		return
	}
	task.Status = StatusRunning
	task.StartedAt = time.Now()
	m.cancels[taskID] = cancel
}

// Complete marks the job done and records the created response
func (m *Manager) Complete(taskID string, responseID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.tasks[taskID]
	if !exists {
		return
	}
	task.Status = StatusCompleted
	task.ResponseID = responseID
	task.CompletedAt = time.Now()
	delete(m.cancels, taskID)
}

// Fail marks the job failed with a reason
func (m *Manager) Fail(taskID string, errorMessage string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.tasks[taskID]
	if !exists {
		return
	}
	task.Status = StatusFailed
	task.ErrorMessage = errorMessage
	task.CompletedAt = time.Now()
	delete(m.cancels, taskID)
}

// Cancel aborts a running job. The generation goroutine sees the context
// cancellation and marks the task failed itself.
func (m *Manager) Cancel(taskID string) bool {
	m.mu.Lock()
	cancel, exists := m.cancels[taskID]
	delete(m.cancels, taskID)
	m.mu.Unlock()

	if exists {
		cancel()
	}
	return exists
}

// CleanupOld removes finished jobs older than maxAge, returns how many
func (m *Manager) CleanupOld(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0

	for taskID, task := range m.tasks {
		// only clean up finished jobs
		if (task.Status == StatusCompleted || task.Status == StatusFailed) &&
			!task.CompletedAt.IsZero() && task.CompletedAt.Before(cutoff) {
			delete(m.tasks, taskID)
			cleaned++
		}
	}

	return cleaned
}

// CleanupRoutine runs cleanup automatically on a schedule
func (m *Manager) CleanupRoutine(interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		m.CleanupOld(maxAge)
	}
}
