package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/keygen"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	serviceIDLength = 16
	apiKeyLength    = 32
)

// DTOs

type CreateServiceRequest struct {
	Name string `json:"name" binding:"required"`
}

type ServiceCredentials struct {
	ServiceID string `json:"service_id"`
	Name      string `json:"name"`
	APIKey    string `json:"api_key"`
}

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Permissions []string `json:"permissions" binding:"required"`
}

type RoleCredentials struct {
	RoleID string `json:"role_id"`
	APIKey string `json:"api_key"`
}

// TenantService manages the service (tenant) lifecycle on behalf of a logged-in
// admin user.
type TenantService interface {
	// CreateService registers a tenant and seeds its "Admin" role with every
	// permission. The admin role shares the service API key.
	CreateService(ctx context.Context, userID uuid.UUID, req CreateServiceRequest) (*ServiceCredentials, error)
	// CreateRole adds a role with the given permission grants and returns the
	// role's own API key, shown exactly once.
	CreateRole(ctx context.Context, userID uuid.UUID, serviceID string, req CreateRoleRequest) (*RoleCredentials, error)
	DeleteService(ctx context.Context, userID uuid.UUID, serviceID string) error
}

type tenantService struct {
	services repository.ServiceRepository
	roles    repository.RoleRepository
	audit    repository.AuditRepository
	tx       repository.TransactionManager
}

func NewTenantService(services repository.ServiceRepository, roles repository.RoleRepository, audit repository.AuditRepository, tx repository.TransactionManager) TenantService {
	return &tenantService{
		services: services,
		roles:    roles,
		audit:    audit,
		tx:       tx,
	}
}

func (s *tenantService) CreateService(ctx context.Context, userID uuid.UUID, req CreateServiceRequest) (*ServiceCredentials, error) {
	service := &model.Service{
		ID:     keygen.Generate(serviceIDLength),
		Name:   req.Name,
		APIKey: keygen.Generate(apiKeyLength),
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.services.Create(txCtx, service); err != nil {
			return err
		}

		adminRole := &model.Role{
			Name:      "Admin",
			ServiceID: service.ID,
			APIKey:    service.APIKey,
		}
		if err := s.roles.CreateWithPermissions(txCtx, adminRole, model.AllPermissions); err != nil {
			return err
		}

		return s.audit.Log(txCtx, &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionCreateService,
			EntityID:   service.ID,
			EntityName: service.Name,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"service_id": service.ID,
		"name":       service.Name,
	}).Info("service created")

	return &ServiceCredentials{
		ServiceID: service.ID,
		Name:      service.Name,
		APIKey:    service.APIKey,
	}, nil
}

func (s *tenantService) CreateRole(ctx context.Context, userID uuid.UUID, serviceID string, req CreateRoleRequest) (*RoleCredentials, error) {
	permissions := make([]model.Permission, 0, len(req.Permissions))
	for _, raw := range req.Permissions {
		permission, ok := model.ParsePermission(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPermission, raw)
		}
		permissions = append(permissions, permission)
	}

	if _, err := s.services.FindByID(ctx, serviceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to look up service: %w", err)
	}

	role := &model.Role{
		Name:      req.Name,
		ServiceID: serviceID,
		APIKey:    keygen.Generate(apiKeyLength),
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.roles.CreateWithPermissions(txCtx, role, permissions); err != nil {
			return err
		}
		return s.audit.Log(txCtx, &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionCreateRole,
			EntityID:   serviceID,
			EntityName: role.Name,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	return &RoleCredentials{
		RoleID: role.ID.String(),
		APIKey: role.APIKey,
	}, nil
}

func (s *tenantService) DeleteService(ctx context.Context, userID uuid.UUID, serviceID string) error {
	if err := s.services.DeleteCascade(ctx, serviceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrServiceNotFound
		}
		return fmt.Errorf("failed to delete service: %w", err)
	}

	if err := s.audit.Log(ctx, &model.AuditLog{
		UserID:   &userID,
		Action:   model.ActionDeleteService,
		EntityID: serviceID,
	}); err != nil {
		// The delete already committed; losing the audit row is not worth a 500.
		logrus.WithError(err).WithField("service_id", serviceID).Error("failed to write audit entry")
	}

	logrus.WithField("service_id", serviceID).Info("service deleted")
	return nil
}
