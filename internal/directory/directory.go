// Package directory is the credential source: who may sign in, with which
// PIN, and with which roles. It answers "given credentials, return
// authenticated-identity-or-failure" and nothing else.
package directory

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const RoleAdmin = "admin"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Employee is one directory record. The PIN is stored only as a bcrypt hash.
type Employee struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	Email      string   `yaml:"email" json:"email"`
	EmployeeID string   `yaml:"employee_id" json:"employeeId"`
	Department string   `yaml:"department" json:"department"`
	Position   string   `yaml:"position" json:"position"`
	PINHash    string   `yaml:"pin_hash" json:"-"`
	Roles      []string `yaml:"roles,omitempty" json:"roles,omitempty"`
}

type directoryFile struct {
	Employees []Employee `yaml:"employees"`
}

// Directory holds the employee records loaded from the YAML file.
type Directory struct {
	mu        sync.RWMutex
	employees []Employee
	logger    *slog.Logger
}

// Load reads the directory from path. When the file is absent it seeds the
// demo directory (PIN 1234 for every employee, hashed) and writes it out, so
// a fresh install can sign in - with a loud warning.
func Load(path string) (*Directory, error) {
	logger := slog.With("component", "directory")

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Warn("Directory file missing, seeding demo employees. Do not use in production.", "path", path)
		return seed(path, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory file: %w", err)
	}

	var file directoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse directory file: %w", err)
	}

	logger.Info("Employee directory loaded", "employees", len(file.Employees))
	return &Directory{employees: file.Employees, logger: logger}, nil
}

func seed(path string, logger *slog.Logger) (*Directory, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo PIN: %w", err)
	}

	employees := []Employee{
		{ID: "1", Name: "John Doe", Email: "john.doe@company.com", EmployeeID: "EMP001", Department: "Engineering", Position: "Software Developer", PINHash: string(hash), Roles: []string{RoleAdmin}},
		{ID: "2", Name: "Jane Smith", Email: "jane.smith@company.com", EmployeeID: "EMP002", Department: "Marketing", Position: "Marketing Manager", PINHash: string(hash)},
		{ID: "3", Name: "Mike Johnson", Email: "mike.johnson@company.com", EmployeeID: "EMP003", Department: "Sales", Position: "Sales Representative", PINHash: string(hash)},
	}

	data, err := yaml.Marshal(directoryFile{Employees: employees})
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		// Seeded directory still works in memory; persisting it is best effort.
		logger.Warn("Failed to write seeded directory file", "path", path, "error", err)
	}

	return &Directory{employees: employees, logger: logger}, nil
}

// FindByEmployeeID returns the matching record, or nil.
func (d *Directory) FindByEmployeeID(employeeID string) *Employee {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for i := range d.employees {
		if d.employees[i].EmployeeID == employeeID {
			employee := d.employees[i]
			return &employee
		}
	}
	return nil
}

// Verify checks the PIN against the stored hash and returns the identity.
// Unknown employee and wrong PIN are indistinguishable to the caller.
func (d *Directory) Verify(employeeID, pin string) (*Employee, error) {
	employee := d.FindByEmployeeID(employeeID)
	if employee == nil {
		d.logger.Warn("Sign-in for unknown employee", "employee_id", employeeID)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PINHash), []byte(pin)); err != nil {
		d.logger.Warn("PIN verification failed", "employee_id", employeeID)
		return nil, ErrInvalidCredentials
	}

	return employee, nil
}

// HasRole reports whether the employee carries the given role.
func (d *Directory) HasRole(employeeID, role string) bool {
	employee := d.FindByEmployeeID(employeeID)
	if employee == nil {
		return false
	}
	for _, r := range employee.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// List returns all directory records.
func (d *Directory) List() []Employee {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Employee, len(d.employees))
	copy(out, d.employees)
	return out
}
