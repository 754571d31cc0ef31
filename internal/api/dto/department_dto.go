package dto

import "github.com/spec-kit/department-service/internal/domain"

// DepartmentDto is the transfer representation of a department.
type DepartmentDto struct {
	ID                    int64  `json:"id"`
	DepartmentName        string `json:"departmentName"`
	DepartmentDescription string `json:"departmentDescription"`
}

// DeleteResponse is returned after a department is removed.
type DeleteResponse struct {
	Message string `json:"message"`
}

// ToDepartment maps a DTO onto a department entity.
func ToDepartment(d DepartmentDto) domain.Department {
	return domain.Department{
		ID:          d.ID,
		Name:        d.DepartmentName,
		Description: d.DepartmentDescription,
	}
}

// FromDepartment maps a department entity onto a DTO.
func FromDepartment(d domain.Department) DepartmentDto {
	return DepartmentDto{
		ID:                    d.ID,
		DepartmentName:        d.Name,
		DepartmentDescription: d.Description,
	}
}

// FromDepartments maps every entity independently, keeping the input order.
func FromDepartments(departments []domain.Department) []DepartmentDto {
	result := make([]DepartmentDto, 0, len(departments))
	for _, d := range departments {
		result = append(result, FromDepartment(d))
	}
	return result
}
