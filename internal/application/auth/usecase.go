package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/jwt"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret            string
	ExpMinutes        int
	RefreshExpMinutes int
	Issuer            string
}

// SuperAdmin credenciales del usuario sembrado al arrancar.
type SuperAdmin struct {
	Email    string
	Password string
	Name     string
}

// AuthUseCase login y siembra del super admin.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log.Component("auth")}
}

// Login verifica email/password y emite token de acceso y de refresco.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.Invalid("email y password son requeridos")
	}
	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.Verified {
		return nil, &domain.Error{Kind: domain.ErrForbidden, Message: "usuario no verificado"}
	}
	if !user.Active {
		return nil, &domain.Error{Kind: domain.ErrForbidden, Message: "usuario desactivado"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, &domain.Error{Kind: domain.ErrUnauthorized, Message: "credenciales inválidas"}
	}

	id := jwt.Identity{UserID: user.ID, Email: user.Email, Role: user.Role, Powers: user.Powers}
	access, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, id, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token de acceso: %w", err)
	}
	id.Type = jwt.TokenRefresh
	refresh, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, id, uc.jwtCfg.RefreshExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token de refresco: %w", err)
	}
	uc.log.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("login")
	return &dto.LoginResponse{AccessToken: access, RefreshToken: refresh}, nil
}

// SeedSuperAdmin asegura los poderes y crea el super admin si su email no existe.
// Sin email o password configurados no hace nada.
func (uc *AuthUseCase) SeedSuperAdmin(ctx context.Context, admin SuperAdmin) error {
	if err := uc.userRepo.EnsurePowers(ctx, entity.AllPowers); err != nil {
		return err
	}
	if admin.Email == "" || admin.Password == "" {
		uc.log.Warn().Msg("super admin no configurado (SUPER_ADMIN_EMAIL / SUPER_ADMIN_PASSWORD)")
		return nil
	}
	existing, err := uc.userRepo.FindByEmail(ctx, admin.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	name := admin.Name
	if name == "" {
		name = admin.Email
	}
	user := &entity.User{
		Email:        admin.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         entity.RoleSuperAdmin,
		Verified:     true,
		Active:       true,
		Powers:       entity.AllPowers,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return err
	}
	uc.log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("super admin creado")
	return nil
}
