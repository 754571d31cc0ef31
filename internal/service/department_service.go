package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/department-service/internal/api/dto"
	"github.com/spec-kit/department-service/internal/domain"
	"github.com/spec-kit/department-service/internal/events"
	"github.com/spec-kit/department-service/internal/repository"
	apperrors "github.com/spec-kit/department-service/pkg/util/errorutil"
)

// DepartmentDependencies encapsulates collaborators required by DepartmentService.
type DepartmentDependencies struct {
	Transactor repository.Transactor
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// DepartmentService maps department DTOs onto stored entities. Every call runs
// in exactly one transaction.
type DepartmentService struct {
	tx         repository.Transactor
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewDepartmentService constructs the service.
func NewDepartmentService(deps DepartmentDependencies) *DepartmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{
		tx:         deps.Transactor,
		dispatcher: deps.Dispatcher,
		logger:     logger.Named("department_service"),
	}
}

// Create persists a new department. Any ID on the input is ignored.
func (s *DepartmentService) Create(ctx context.Context, in dto.DepartmentDto) (*dto.DepartmentDto, error) {
	dept := dto.ToDepartment(in)
	dept.ID = 0

	err := s.tx.WithinTx(ctx, repository.ReadWrite, func(repo repository.DepartmentRepository) error {
		return repo.Save(ctx, &dept)
	})
	if err != nil {
		s.logger.Error("create department", zap.Error(err))
		return nil, err
	}

	out := dto.FromDepartment(dept)
	s.logger.Info("department created", zap.Int64("id", dept.ID))
	s.publish(ctx, events.EventDepartmentCreated, dept.ID, out)
	return &out, nil
}

// GetByID fetches a department or fails with NotFound.
func (s *DepartmentService) GetByID(ctx context.Context, id int64) (*dto.DepartmentDto, error) {
	var dept domain.Department
	err := s.tx.WithinTx(ctx, repository.ReadOnly, func(repo repository.DepartmentRepository) error {
		var err error
		dept, err = findExisting(ctx, repo, id)
		return err
	})
	if err != nil {
		s.logFailure("get department", id, err)
		return nil, err
	}

	out := dto.FromDepartment(dept)
	return &out, nil
}

// GetAll lists every department in store order.
func (s *DepartmentService) GetAll(ctx context.Context) ([]dto.DepartmentDto, error) {
	var departments []domain.Department
	err := s.tx.WithinTx(ctx, repository.ReadOnly, func(repo repository.DepartmentRepository) error {
		var err error
		departments, err = repo.FindAll(ctx)
		return err
	})
	if err != nil {
		s.logger.Error("list departments", zap.Error(err))
		return nil, err
	}
	return dto.FromDepartments(departments), nil
}

// Update overwrites name and description of an existing department. The ID is
// never taken from the input.
func (s *DepartmentService) Update(ctx context.Context, id int64, in dto.DepartmentDto) (*dto.DepartmentDto, error) {
	var dept domain.Department
	err := s.tx.WithinTx(ctx, repository.ReadWrite, func(repo repository.DepartmentRepository) error {
		var err error
		dept, err = findExisting(ctx, repo, id)
		if err != nil {
			return err
		}

		dept.Name = in.DepartmentName
		dept.Description = in.DepartmentDescription
		return repo.Save(ctx, &dept)
	})
	if err != nil {
		s.logFailure("update department", id, err)
		return nil, err
	}

	out := dto.FromDepartment(dept)
	s.logger.Info("department updated", zap.Int64("id", id))
	s.publish(ctx, events.EventDepartmentUpdated, id, out)
	return &out, nil
}

// Delete removes an existing department or fails with NotFound.
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	err := s.tx.WithinTx(ctx, repository.ReadWrite, func(repo repository.DepartmentRepository) error {
		dept, err := findExisting(ctx, repo, id)
		if err != nil {
			return err
		}
		return repo.Delete(ctx, dept)
	})
	if err != nil {
		s.logFailure("delete department", id, err)
		return err
	}

	s.logger.Info("department deleted", zap.Int64("id", id))
	s.publish(ctx, events.EventDepartmentDeleted, id, nil)
	return nil
}

func findExisting(ctx context.Context, repo repository.DepartmentRepository, id int64) (domain.Department, error) {
	dept, found, err := repo.FindByID(ctx, id)
	if err != nil {
		return domain.Department{}, err
	}
	if !found {
		return domain.Department{}, apperrors.NewDepartmentNotFound(id)
	}
	return dept, nil
}

func (s *DepartmentService) logFailure(op string, id int64, err error) {
	if apperrors.IsNotFound(err) {
		s.logger.Debug(op, zap.Int64("id", id), zap.Error(err))
		return
	}
	s.logger.Error(op, zap.Int64("id", id), zap.Error(err))
}

// publish runs after commit; a failing subscriber never fails the operation.
func (s *DepartmentService) publish(ctx context.Context, eventType events.EventType, id int64, payload any) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, events.NewEvent(eventType, id, payload)); err != nil {
		s.logger.Warn("publish department event", zap.String("type", string(eventType)), zap.Int64("id", id), zap.Error(err))
	}
}
