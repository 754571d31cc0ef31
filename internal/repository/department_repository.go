package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/department-service/internal/domain"
)

const departmentTable = "departments"

var (
	psql              = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	departmentColumns = []string{"id", "department_name", "department_description"}
)

// DepartmentRepository manages department persistence.
type DepartmentRepository interface {
	// FindByID reports found=false when no row carries id.
	FindByID(ctx context.Context, id int64) (dept domain.Department, found bool, err error)
	FindAll(ctx context.Context) ([]domain.Department, error)
	// Save inserts new departments (assigning ID) and updates existing ones.
	Save(ctx context.Context, dept *domain.Department) error
	DeleteByID(ctx context.Context, id int64) error
	Delete(ctx context.Context, dept domain.Department) error
}

// Querier is the subset of pgx shared by pools, connections and transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type departmentRepository struct {
	db Querier
}

// NewDepartmentRepository builds the repository on top of a pool or a transaction.
func NewDepartmentRepository(db Querier) DepartmentRepository {
	return &departmentRepository{db: db}
}

func scanDepartment(row pgx.CollectableRow) (domain.Department, error) {
	var dept domain.Department
	err := row.Scan(&dept.ID, &dept.Name, &dept.Description)
	return dept, err
}

func (r *departmentRepository) FindByID(ctx context.Context, id int64) (domain.Department, bool, error) {
	query, args, err := psql.Select(departmentColumns...).
		From(departmentTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Department{}, false, fmt.Errorf("build select department: %w", err)
	}

	var dept domain.Department
	if err := r.db.QueryRow(ctx, query, args...).Scan(&dept.ID, &dept.Name, &dept.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Department{}, false, nil
		}
		return domain.Department{}, false, err
	}
	return dept, true, nil
}

func (r *departmentRepository) FindAll(ctx context.Context) ([]domain.Department, error) {
	query, args, err := psql.Select(departmentColumns...).From(departmentTable).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select departments: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanDepartment)
}

func (r *departmentRepository) Save(ctx context.Context, dept *domain.Department) error {
	if dept.IsNew() {
		return r.insert(ctx, dept)
	}
	return r.update(ctx, dept)
}

func (r *departmentRepository) insert(ctx context.Context, dept *domain.Department) error {
	query, args, err := psql.Insert(departmentTable).
		Columns("department_name", "department_description").
		Values(dept.Name, dept.Description).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert department: %w", err)
	}
	return r.db.QueryRow(ctx, query, args...).Scan(&dept.ID)
}

func (r *departmentRepository) update(ctx context.Context, dept *domain.Department) error {
	query, args, err := psql.Update(departmentTable).
		Set("department_name", dept.Name).
		Set("department_description", dept.Description).
		Where(sq.Eq{"id": dept.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update department: %w", err)
	}

	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *departmentRepository) DeleteByID(ctx context.Context, id int64) error {
	query, args, err := psql.Delete(departmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete department: %w", err)
	}
	_, err = r.db.Exec(ctx, query, args...)
	return err
}

func (r *departmentRepository) Delete(ctx context.Context, dept domain.Department) error {
	return r.DeleteByID(ctx, dept.ID)
}
