package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/SalesERP-api/internal/application/audit"
	"github.com/jhoicas/SalesERP-api/internal/application/auth"
	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/application/ports"
	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

// UserUseCase administración de usuarios de la empresa (solo admin).
type UserUseCase struct {
	store  repository.Store
	tx     repository.TxRunner
	mailer ports.Mailer
	log    *logger.Logger
	now    func() time.Time
}

// NewUserUseCase construye el caso de uso. mailer envía el correo de bienvenida.
func NewUserUseCase(store repository.Store, tx repository.TxRunner, mailer ports.Mailer, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{store: store, tx: tx, mailer: mailer, log: log, now: time.Now}
}

func loadUser(ctx context.Context, s repository.Store, companyID, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, fmt.Errorf("usuarios: obtener: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("usuario %s: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

// checkSeat falla con ErrPlanLimit si la empresa ya usa todos sus cupos.
func checkSeat(ctx context.Context, s repository.Store, companyID string) error {
	company, err := loadCompany(ctx, s, companyID)
	if err != nil {
		return err
	}
	active, err := s.Users.CountActive(ctx, companyID)
	if err != nil {
		return fmt.Errorf("usuarios: contar activos: %w", err)
	}
	if !company.CanAddUser(active) {
		return fmt.Errorf("plan %s admite %d usuarios: %w", company.Plan, company.MaxUsers, domain.ErrPlanLimit)
	}
	return nil
}

// List usuarios de la empresa.
func (uc *UserUseCase) List(ctx context.Context, scope tenant.Scope) ([]dto.UserResponse, error) {
	list, err := uc.store.Users.ListByCompany(ctx, scope.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("usuarios: listar: %w", err)
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.ToUserResponse(u))
	}
	return out, nil
}

// Create alta de usuario respetando el cupo del plan. El correo de bienvenida
// es best-effort: si falla el usuario queda creado y se devuelve Warning.
func (uc *UserUseCase) Create(ctx context.Context, scope tenant.Scope, in dto.CreateUserRequest) (*dto.CreateUserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := auth.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	role := entity.RoleSalesExecutive
	if in.Role != "" {
		r, err := entity.ParseRole(in.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		role = r
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("usuarios: hash: %w", err)
	}

	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    scope.CompanyID,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        in.Phone,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var company *entity.Company
	err = uc.tx.WithinTx(ctx, func(s repository.Store) error {
		if err := checkSeat(ctx, s, scope.CompanyID); err != nil {
			return err
		}
		existing, err := s.Users.FindByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("usuarios: buscar email: %w", err)
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := s.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("usuarios: crear: %w", err)
		}
		if company, err = loadCompany(ctx, s, scope.CompanyID); err != nil {
			return err
		}
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID,
			Action:       entity.AuditUserCreated,
			Message:      fmt.Sprintf("Usuario creado: %s (%s)", user.Email, user.Role),
			ResourceType: "user", ResourceID: user.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	out := &dto.CreateUserResponse{User: dto.ToUserResponse(user)}
	if err := uc.mailer.Send(ctx, welcomeEmail(user, company)); err != nil {
		uc.log.Warn().Err(err).Str("company_id", scope.CompanyID).Str("user_id", user.ID).Msg("correo de bienvenida no enviado")
		out.Warning = "el usuario fue creado pero no se pudo enviar el correo de bienvenida"
	}
	return out, nil
}

func welcomeEmail(u *entity.User, c *entity.Company) ports.Email {
	name := u.FullName()
	return ports.Email{
		To:      []string{u.Email},
		Subject: "Bienvenido a " + c.Name,
		HTML: fmt.Sprintf("<p>Hola %s,</p><p>Tu cuenta en <b>%s</b> está lista. Ingresa en https://%s con tu correo %s.</p>",
			name, c.Name, c.Subdomain, u.Email),
		Text: fmt.Sprintf("Hola %s, tu cuenta en %s está lista. Ingresa con tu correo %s.", name, c.Name, u.Email),
	}
}

// Update cambia datos, rol o estado. Un admin no puede quitarse el rol ni desactivarse a sí mismo.
func (uc *UserUseCase) Update(ctx context.Context, scope tenant.Scope, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var role entity.Role
	if in.Role != nil {
		r, err := entity.ParseRole(*in.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		role = r
	}
	if id == scope.UserID && ((role != "" && role != entity.RoleAdmin) || (in.IsActive != nil && !*in.IsActive)) {
		return nil, fmt.Errorf("%w: no puede quitarse el rol de admin ni desactivarse", domain.ErrInvalidInput)
	}
	var updated *entity.User
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		u, err := loadUser(ctx, s, scope.CompanyID, id)
		if err != nil {
			return err
		}
		if in.IsActive != nil && *in.IsActive && !u.IsActive {
			if err := checkSeat(ctx, s, scope.CompanyID); err != nil {
				return err
			}
		}
		if in.FirstName != nil {
			u.FirstName = strings.TrimSpace(*in.FirstName)
		}
		if in.LastName != nil {
			u.LastName = strings.TrimSpace(*in.LastName)
		}
		if in.Phone != nil {
			u.Phone = *in.Phone
		}
		if role != "" {
			u.Role = role
		}
		if in.IsActive != nil {
			u.IsActive = *in.IsActive
		}
		u.UpdatedAt = uc.now()
		if err := s.Users.Update(ctx, u); err != nil {
			return fmt.Errorf("usuarios: actualizar: %w", err)
		}
		updated = u
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID,
			Action:       entity.AuditUserUpdated,
			Message:      fmt.Sprintf("Usuario actualizado: %s (%s, activo=%t)", u.Email, u.Role, u.IsActive),
			ResourceType: "user", ResourceID: u.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToUserResponse(updated)
	return &out, nil
}

// Deactivate baja lógica: el usuario deja de poder iniciar sesión y libera su cupo.
func (uc *UserUseCase) Deactivate(ctx context.Context, scope tenant.Scope, id string) error {
	if id == scope.UserID {
		return fmt.Errorf("%w: no puede desactivarse a sí mismo", domain.ErrInvalidInput)
	}
	return uc.tx.WithinTx(ctx, func(s repository.Store) error {
		u, err := loadUser(ctx, s, scope.CompanyID, id)
		if err != nil {
			return err
		}
		if !u.IsActive {
			return nil
		}
		u.IsActive = false
		u.UpdatedAt = uc.now()
		if err := s.Users.Update(ctx, u); err != nil {
			return fmt.Errorf("usuarios: desactivar: %w", err)
		}
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID,
			Action:       entity.AuditUserDeactivated,
			Message:      "Usuario desactivado: " + u.Email,
			ResourceType: "user", ResourceID: u.ID,
		})
	})
}
