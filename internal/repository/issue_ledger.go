// issue_ledger.go — in-memory хранилище выдач файлов.
package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
)

// IssueRepository — хранилище записей FileIssue.
type IssueRepository interface {
	// Insert добавляет выдачу. ErrConflict при дублировании id.
	Insert(ctx context.Context, issue *model.FileIssue) error
	// GetByID возвращает выдачу по id.
	GetByID(ctx context.Context, id string) (*model.FileIssue, error)
	// Update заменяет выдачу целиком. ErrNotFound, если id отсутствует.
	Update(ctx context.Context, issue *model.FileIssue) error
	// ListOpen возвращает открытые выдачи (issued, overdue) по возрастанию issueDate.
	ListOpen(ctx context.Context) ([]*model.FileIssue, error)
	// ListByFile возвращает все выдачи файла по убыванию issueDate.
	ListByFile(ctx context.Context, fileID string) ([]*model.FileIssue, error)
	// OpenByFile возвращает открытую выдачу файла, если она есть.
	OpenByFile(ctx context.Context, fileID string) (*model.FileIssue, error)
}

// issueRepo — реализация IssueRepository.
type issueRepo struct {
	mu   sync.RWMutex
	byID map[string]*model.FileIssue
}

// NewIssueRepository создаёт пустое хранилище выдач.
func NewIssueRepository() IssueRepository {
	return &issueRepo{byID: make(map[string]*model.FileIssue)}
}

func (r *issueRepo) Insert(_ context.Context, issue *model.FileIssue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[issue.ID]; exists {
		return ErrConflict
	}
	r.byID[issue.ID] = copyIssue(issue)
	return nil
}

func (r *issueRepo) GetByID(_ context.Context, id string) (*model.FileIssue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	issue, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyIssue(issue), nil
}

func (r *issueRepo) Update(_ context.Context, issue *model.FileIssue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[issue.ID]; !ok {
		return ErrNotFound
	}
	r.byID[issue.ID] = copyIssue(issue)
	return nil
}

func (r *issueRepo) ListOpen(_ context.Context) ([]*model.FileIssue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.FileIssue
	for _, issue := range r.byID {
		if issue.IsOpen() {
			result = append(result, copyIssue(issue))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].IssueDate.Before(result[j].IssueDate)
	})
	return result, nil
}

func (r *issueRepo) ListByFile(_ context.Context, fileID string) ([]*model.FileIssue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.FileIssue
	for _, issue := range r.byID {
		if issue.FileID == fileID {
			result = append(result, copyIssue(issue))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].IssueDate.After(result[j].IssueDate)
	})
	return result, nil
}

func (r *issueRepo) OpenByFile(_ context.Context, fileID string) (*model.FileIssue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, issue := range r.byID {
		if issue.FileID == fileID && issue.IsOpen() {
			return copyIssue(issue), nil
		}
	}
	return nil, ErrNotFound
}

// copyIssue возвращает глубокую копию выдачи.
func copyIssue(issue *model.FileIssue) *model.FileIssue {
	c := *issue
	if issue.ActualReturnDate != nil {
		d := *issue.ActualReturnDate
		c.ActualReturnDate = &d
	}
	if issue.ReturnLocation != nil {
		loc := *issue.ReturnLocation
		c.ReturnLocation = &loc
	}
	return &c
}
