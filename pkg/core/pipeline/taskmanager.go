package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/y437li/stockagent/pkg/core/analyst"
	"github.com/y437li/stockagent/pkg/core/report"
)

// TaskStatus is one of the four values the task-status endpoint reports
// (spec §9.1).
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Task is one background /analyze_stock run.
type Task struct {
	ID        string
	Status    TaskStatus
	Result    report.SupervisorReport
	Err       string
	UpdatedAt time.Time
}

// TaskManager is the singleton background task map backing the
// non-streaming /analyze_stock + /get_task_status/{id} contract (spec
// §9.1), grounded on pkg/core/debate/manager.go's DebateManager: a
// sync.Once singleton, a goroutine-per-job launch, and a periodic
// cleanup sweep for finished entries.
type TaskManager struct {
	mu    sync.RWMutex
	tasks map[string]*Task
	orch  *Orchestrator
}

var (
	taskManagerInstance *TaskManager
	taskManagerOnce     sync.Once
)

// GetTaskManager returns the process-wide singleton, wired to orch on
// first call. Later calls ignore orch; callers construct the Orchestrator
// once at startup and pass it on the first GetTaskManager call.
func GetTaskManager(orch *Orchestrator) *TaskManager {
	taskManagerOnce.Do(func() {
		taskManagerInstance = &TaskManager{tasks: make(map[string]*Task), orch: orch}
		go taskManagerInstance.cleanup()
	})
	return taskManagerInstance
}

// StartTask launches req in a background goroutine and returns its task
// ID immediately (spec §9.1 "starts a background run; returns {task_id}
// with HTTP 202").
func (m *TaskManager) StartTask(req analyst.Request) string {
	id := uuid.New().String()
	task := &Task{ID: id, Status: TaskPending, UpdatedAt: time.Now()}

	m.mu.Lock()
	m.tasks[id] = task
	m.mu.Unlock()

	go func() {
		m.setStatus(id, TaskRunning)
		ctx := context.Background()
		result, err := m.orch.Run(ctx, req)

		m.mu.Lock()
		defer m.mu.Unlock()
		t, ok := m.tasks[id]
		if !ok {
			return
		}
		t.UpdatedAt = time.Now()
		if err != nil {
			t.Status = TaskFailed
			t.Err = err.Error()
			return
		}
		t.Status = TaskCompleted
		t.Result = result
	}()

	return id
}

func (m *TaskManager) setStatus(id string, status TaskStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		t.Status = status
		t.UpdatedAt = time.Now()
	}
}

// GetTask retrieves a task's current snapshot by ID.
func (m *TaskManager) GetTask(id string) (Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// cleanup removes finished tasks older than 24 hours, mirroring
// DebateManager.cleanup's hourly sweep.
func (m *TaskManager) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	for range ticker.C {
		m.mu.Lock()
		for id, t := range m.tasks {
			if t.Status != TaskRunning && t.Status != TaskPending && time.Since(t.UpdatedAt) > 24*time.Hour {
				delete(m.tasks, id)
			}
		}
		m.mu.Unlock()
	}
}
