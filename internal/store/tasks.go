package store

import "taskflow/internal/models"

// TaskState is the Task Store. Tasks are kept newest first.
type TaskState struct {
	Tasks []models.Task
	Phase Phase
	Error string
	// Open is the task currently opened for editing. Nothing sets it yet.
	Open *models.Task
	Seq  uint64
}

// Loading reports whether the latest load is still pending.
func (s TaskState) Loading() bool { return s.Phase == Loading }

// Find returns the task with the given id.
func (s TaskState) Find(id string) (models.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// TaskAction is a transition of the Task Store.
type TaskAction interface {
	applyTask(TaskState) TaskState
}

// TasksLoaded completes load Seq with a full replacement of the collection.
type TasksLoaded struct {
	Seq   uint64
	Tasks []models.Task
}

// InsertTask puts a task at the front of the collection.
type InsertTask struct{ Task models.Task }

// ReplaceTask swaps the task with the same id in place. Unknown ids are ignored.
type ReplaceTask struct{ Task models.Task }

// RemoveTask drops the task with the given id. Unknown ids are ignored.
type RemoveTask struct{ ID string }

// ReduceTasks applies a to s and returns the new state. s is not modified.
func ReduceTasks(s TaskState, a TaskAction) TaskState {
	return a.applyTask(s)
}

func (BeginLoad) applyTask(s TaskState) TaskState {
	s.Seq++
	s.Phase = Loading
	s.Error = ""
	return s
}

func (a TasksLoaded) applyTask(s TaskState) TaskState {
	if a.Seq != s.Seq {
		return s
	}
	s.Tasks = append([]models.Task(nil), a.Tasks...)
	s.Phase = Loaded
	s.Error = ""
	return s
}

func (a LoadFailed) applyTask(s TaskState) TaskState {
	if a.Seq != s.Seq {
		return s
	}
	s.Phase = Errored
	s.Error = a.Err
	return s
}

func (a InsertTask) applyTask(s TaskState) TaskState {
	next := make([]models.Task, 0, len(s.Tasks)+1)
	next = append(next, a.Task)
	for _, t := range s.Tasks {
		if t.ID != a.Task.ID {
			next = append(next, t)
		}
	}
	s.Tasks = next
	return s
}

func (a ReplaceTask) applyTask(s TaskState) TaskState {
	for i, t := range s.Tasks {
		if t.ID == a.Task.ID {
			next := append([]models.Task(nil), s.Tasks...)
			next[i] = a.Task
			s.Tasks = next
			return s
		}
	}
	return s
}

func (a RemoveTask) applyTask(s TaskState) TaskState {
	if _, ok := s.Find(a.ID); !ok {
		return s
	}
	next := make([]models.Task, 0, len(s.Tasks)-1)
	for _, t := range s.Tasks {
		if t.ID != a.ID {
			next = append(next, t)
		}
	}
	s.Tasks = next
	return s
}

// FilterTasks returns the tasks visible under filter, preserving order. FilterAll
// (or an empty filter) returns tasks unchanged.
func FilterTasks(tasks []models.Task, filter string) []models.Task {
	if filter == "" || filter == models.FilterAll {
		return tasks
	}
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Category == filter {
			out = append(out, t)
		}
	}
	return out
}
