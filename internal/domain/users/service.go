package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"pet-adoption-marketplace/internal/apperr"
	"pet-adoption-marketplace/internal/platform/logger"
	"pet-adoption-marketplace/internal/ports/auth"
)

type Service struct {
	repo   Repository
	issuer auth.TokenIssuer
	log    logger.Logger
	now    func() time.Time

	// cost de bcrypt; los tests lo bajan a bcrypt.MinCost.
	cost int
}

func NewService(repo Repository, issuer auth.TokenIssuer, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:   repo,
		issuer: issuer,
		log:    log.With(map[string]any{"component": "users"}),
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

var validate = validator.New()

// Session es lo que devuelven signup y login.
type Session struct {
	User  User
	Token string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	const op = "users.Register"

	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateRegister(op, in); err != nil {
		return Session{}, err
	}

	return s.create(ctx, op, in, auth.RoleUser)
}

// EnsureAdmin crea la cuenta admin de arranque si no existe. No cambia cuentas existentes.
func (s *Service) EnsureAdmin(ctx context.Context, in RegisterInput) error {
	const op = "users.EnsureAdmin"

	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateRegister(op, in); err != nil {
		return err
	}

	_, err := s.create(ctx, op, in, auth.RoleAdmin)
	if errors.Is(err, apperr.ErrConflict) {
		return nil
	}
	return err
}

func (s *Service) create(ctx context.Context, op string, in RegisterInput, role string) (Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return Session{}, apperr.Persistence(op, err)
	}

	u := User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return Session{}, apperr.Conflict(op, "user already exists")
		}
		return Session{}, apperr.Persistence(op, err)
	}

	token, err := s.issue(ctx, op, u)
	if err != nil {
		return Session{}, err
	}

	s.log.Info("user registered", map[string]any{"email": u.Email, "role": u.Role})
	return Session{User: u, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	const op = "users.Login"

	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Session{}, apperr.Unauthorized(op, "invalid credentials")
		}
		return Session{}, apperr.Persistence(op, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, apperr.Unauthorized(op, "invalid credentials")
	}

	token, err := s.issue(ctx, op, u)
	if err != nil {
		return Session{}, err
	}
	return Session{User: u, Token: token}, nil
}

// Me devuelve la identidad verificada tal cual.
func (s *Service) Me(caller auth.Claims) (auth.Claims, error) {
	if !caller.IsAuthenticated() {
		return auth.Claims{}, apperr.Unauthorized("users.Me", "authentication required")
	}
	return caller, nil
}

// ListUsers es solo admin; el hash nunca sale del servicio.
func (s *Service) ListUsers(ctx context.Context, caller auth.Claims) ([]User, error) {
	const op = "users.ListUsers"

	if !caller.IsAdmin() {
		return nil, apperr.Unauthorized(op, "admin role required")
	}
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	for i := range items {
		items[i].PasswordHash = ""
	}
	return items, nil
}

func (s *Service) issue(ctx context.Context, op string, u User) (string, error) {
	if s.issuer == nil {
		return "", nil
	}
	token, err := s.issuer.Issue(ctx, auth.Claims{Email: u.Email, Role: u.Role, Name: u.Name})
	if err != nil {
		return "", apperr.Persistence(op, err)
	}
	return token, nil
}

func validateRegister(op string, in RegisterInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(op, map[string]string{"_": err.Error()})
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = name + " is required"
		case "email":
			fields[name] = "email is invalid"
		case "min":
			fields[name] = "password must be at least 8 characters"
		default:
			fields[name] = name + " is invalid"
		}
	}
	return apperr.Validation(op, fields)
}

func normalizeEmail(s string) string {
	return auth.NormalizeEmail(s)
}
