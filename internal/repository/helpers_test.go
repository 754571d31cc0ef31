package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockQuerier represents a mock pgx pool or transaction.
type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	callArgs := m.Called(append([]any{ctx, sql}, args...)...)
	return callArgs.Get(0).(pgconn.CommandTag), callArgs.Error(1)
}

func (m *MockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	callArgs := m.Called(append([]any{ctx, sql}, args...)...)
	rows, _ := callArgs.Get(0).(pgx.Rows)
	return rows, callArgs.Error(1)
}

func (m *MockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	callArgs := m.Called(append([]any{ctx, sql}, args...)...)
	return callArgs.Get(0).(pgx.Row)
}

// MockRow represents a single result row.
type MockRow struct {
	data []any
	err  error
}

func NewMockRow(data []any, err error) *MockRow {
	return &MockRow{data: data, err: err}
}

func (r *MockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(r.data, dest)
}

// MockRows represents a multi-row result set.
type MockRows struct {
	data   [][]any
	err    error
	pos    int
	closed bool
}

func NewMockRows(data [][]any, err error) *MockRows {
	return &MockRows{data: data, err: err, pos: -1}
}

func (r *MockRows) Close() { r.closed = true }

func (r *MockRows) Err() error { return r.err }

func (r *MockRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }

func (r *MockRows) FieldDescriptions() []pgconn.FieldDescription {
	return []pgconn.FieldDescription{
		{Name: "id", DataTypeOID: 20},
		{Name: "department_name", DataTypeOID: 25},
		{Name: "department_description", DataTypeOID: 25},
	}
}

func (r *MockRows) Next() bool {
	if r.closed || r.pos+1 >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *MockRows) Scan(dest ...any) error {
	return scanInto(r.data[r.pos], dest)
}

func (r *MockRows) Values() ([]any, error) { return r.data[r.pos], nil }

func (r *MockRows) RawValues() [][]byte { return nil }

func (r *MockRows) Conn() *pgx.Conn { return nil }

func scanInto(data []any, dest []any) error {
	if len(data) != len(dest) {
		return fmt.Errorf("scan: got %d destinations for %d values", len(dest), len(data))
	}
	for i, d := range dest {
		switch target := d.(type) {
		case *int64:
			*target = data[i].(int64)
		case *string:
			*target = data[i].(string)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}
