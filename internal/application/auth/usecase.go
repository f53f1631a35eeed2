package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/SalesERP-api/internal/application/audit"
	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
	"github.com/jhoicas/SalesERP-api/pkg/jwt"
)

// MinPasswordLength largo mínimo de contraseña.
const MinPasswordLength = 8

// maxSubdomainAttempts intentos de sufijo antes de rendirse.
const maxSubdomainAttempts = 100

// trialPeriod duración del primer periodo de la suscripción starter.
const trialPeriod = 30 * 24 * time.Hour

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro de empresa, login y perfil.
type AuthUseCase struct {
	store    repository.Store
	tx       repository.TxRunner
	recorder *audit.Recorder
	jwtCfg   JWTConfig
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(store repository.Store, tx repository.TxRunner, recorder *audit.Recorder, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{store: store, tx: tx, recorder: recorder, jwtCfg: jwtCfg, now: time.Now}
}

// ValidateEmail verifica formato básico de email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email es requerido", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	return nil
}

// ValidatePassword verifica el largo mínimo.
func ValidatePassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return fmt.Errorf("%w: password debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	return nil
}

// RegisterCompany crea empresa (plan starter), usuario admin y suscripción en una sola transacción.
// El subdominio se deriva del nombre; si está tomado se prueban sufijos 1, 2, ...
func (uc *AuthUseCase) RegisterCompany(ctx context.Context, in dto.RegisterCompanyRequest) (*dto.RegisterCompanyResponse, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if in.CompanyName == "" {
		return nil, fmt.Errorf("%w: company_name es requerido", domain.ErrInvalidInput)
	}
	if err := ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	existing, err := uc.store.Users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("register: buscar email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	subdomain, err := uc.freeSubdomain(ctx, tenant.Slugify(in.CompanyName))
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.CompanyName,
		Subdomain: subdomain,
		Email:     in.Email,
		Phone:     in.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	company.ApplyPlan(entity.PlanStarter)

	firstName := in.FirstName
	if firstName == "" {
		firstName = "Admin"
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Role:         entity.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	sub := &entity.Subscription{
		ID:                 uuid.New().String(),
		CompanyID:          company.ID,
		Plan:               entity.PlanStarter,
		Status:             entity.SubscriptionTrialing,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.Add(trialPeriod),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = uc.tx.WithinTx(ctx, func(s repository.Store) error {
		if err := s.Companies.Create(ctx, company); err != nil {
			return fmt.Errorf("crear empresa: %w", err)
		}
		if err := s.Users.Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.ErrEmailAlreadyExists
			}
			return fmt.Errorf("crear admin: %w", err)
		}
		if err := s.Subscriptions.Create(ctx, sub); err != nil {
			return fmt.Errorf("crear suscripción: %w", err)
		}
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID:    company.ID,
			UserID:       user.ID,
			Action:       entity.AuditCompanyRegistered,
			Message:      fmt.Sprintf("Empresa %s registrada con subdominio %s", company.Name, company.Subdomain),
			ResourceType: "company",
			ResourceID:   company.ID,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := uc.issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.RegisterCompanyResponse{
		Company: dto.ToCompanyResponse(company),
		User:    dto.ToUserResponse(user),
		Token:   token,
	}, nil
}

func (uc *AuthUseCase) freeSubdomain(ctx context.Context, base string) (string, error) {
	candidate := base
	for n := 1; n <= maxSubdomainAttempts; n++ {
		taken, err := uc.store.Companies.SubdomainExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("register: verificar subdominio: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = tenant.WithSuffix(base, n)
	}
	return "", fmt.Errorf("%w: no hay subdominio libre para %q", domain.ErrConflict, base)
}

// Login verifica email/password, genera JWT y registra el acceso.
// tenantCompanyID, si no es vacío, es la empresa resuelta del subdominio: el usuario debe pertenecer a ella.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest, tenantCompanyID string) (*dto.LoginResponse, error) {
	user, err := uc.store.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if tenantCompanyID != "" && user.CompanyID != tenantCompanyID {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	company, err := uc.store.Companies.GetByID(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil || !company.IsActive {
		return nil, domain.ErrForbidden
	}

	now := uc.now()
	if err := uc.store.Users.TouchLastLogin(ctx, user.CompanyID, user.ID, now); err != nil {
		return nil, fmt.Errorf("login: last_login: %w", err)
	}
	user.LastLogin = &now
	uc.recorder.Record(ctx, audit.Entry{
		CompanyID:    user.CompanyID,
		UserID:       user.ID,
		Action:       entity.AuditUserLogin,
		Message:      "Inicio de sesión de " + user.Email,
		ResourceType: "user",
		ResourceID:   user.ID,
	})

	token, err := uc.issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      dto.ToUserResponse(user),
	}, nil
}

// Me devuelve el usuario autenticado con su empresa.
func (uc *AuthUseCase) Me(ctx context.Context, scope tenant.Scope) (*dto.MeResponse, error) {
	user, err := uc.store.Users.GetByID(ctx, scope.CompanyID, scope.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	company, err := uc.store.Companies.GetByID(ctx, scope.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.MeResponse{User: dto.ToUserResponse(user), Company: dto.ToCompanyResponse(company)}, nil
}

// Refresh emite un token nuevo para el usuario autenticado con su rol actual.
func (uc *AuthUseCase) Refresh(ctx context.Context, scope tenant.Scope) (*dto.LoginResponse, error) {
	user, err := uc.store.Users.GetByID(ctx, scope.CompanyID, scope.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	token, err := uc.issue(user)
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, audit.Entry{
		CompanyID:    user.CompanyID,
		UserID:       user.ID,
		Action:       entity.AuditTokenRefreshed,
		Message:      "Token de API renovado para " + user.Email,
		ResourceType: "user",
		ResourceID:   user.ID,
	})
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      dto.ToUserResponse(user),
	}, nil
}

func (uc *AuthUseCase) issue(u *entity.User) (string, error) {
	return jwt.Generate(uc.jwtCfg.Secret, jwt.Subject{
		UserID:    u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Role:      string(u.Role),
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}
