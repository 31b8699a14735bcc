// Package file provides file-based persistence for development and tests.
// Records are JSON documents laid out per organization under the root
// directory.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/shopmate/shopmate/pkg/persistence"
)

// Persistence implements persistence.Persistence on the file system.
type Persistence struct {
	root     string
	projects *ProjectRepository
	tasks    *TaskRepository
	staff    *StaffRepository
}

// NewPersistence creates file persistence rooted at the given directory.
// Accepts plain paths and file:// URLs.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:     cleanRoot,
		projects: NewProjectRepository(cleanRoot),
		tasks:    NewTaskRepository(cleanRoot),
		staff:    NewStaffRepository(cleanRoot),
	}
}

func (p *Persistence) ProjectRepository() persistence.ProjectRepository {
	return p.projects
}

func (p *Persistence) TaskRepository() persistence.TaskRepository {
	return p.tasks
}

func (p *Persistence) StaffRepository() persistence.StaffRepository {
	return p.staff
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	return nil
}
