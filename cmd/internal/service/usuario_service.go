package service

import (
	"time"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/utils"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type UsuarioRepository interface {
	FindByID(id string) (*entity.Usuario, error)
	FindByEmail(email string) (*entity.Usuario, error)
	ExistsByEmail(email string) (bool, error)
	Save(usuario *entity.Usuario) error
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=40"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72,hasupper,haslower,hasdigit,hasspecial"`
	IsAdmin  bool   `json:"is_admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UsuarioResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

type LoginResponse struct {
	Token   string           `json:"token"`
	Usuario *UsuarioResponse `json:"usuario"`
}

type DefaultUsuarioService struct {
	UsuarioRepo UsuarioRepository
	Validate    *validator.Validate
	jwtSecret   []byte
}

func NewUsuarioService(usuarioRepo UsuarioRepository, validate *validator.Validate, jwtSecret string) *DefaultUsuarioService {
	return &DefaultUsuarioService{
		UsuarioRepo: usuarioRepo,
		Validate:    validate,
		jwtSecret:   []byte(jwtSecret),
	}
}

func (s *DefaultUsuarioService) Register(req *RegisterRequest) (*UsuarioResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	exists, err := s.UsuarioRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check email %s: %v", req.Email, err)
		return nil, apierror.NewSimple(500, "Error al registrar el usuario")
	}
	if exists {
		return nil, apierror.UserAlreadyExistsError
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	usuario := &entity.Usuario{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsAdmin:      req.IsAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.UsuarioRepo.Save(usuario); err != nil {
		log.Errorf("failed to create usuario: %v", err)
		return nil, apierror.NewSimple(500, "Error al registrar el usuario")
	}
	return toUsuarioResponse(usuario), nil
}

func (s *DefaultUsuarioService) Login(req *LoginRequest) (*LoginResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	usuario, err := s.UsuarioRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch usuario %s: %v", req.Email, err)
		return nil, apierror.NewSimple(500, "Error al iniciar sesión")
	}
	if usuario == nil {
		return nil, apierror.CredentialsError
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.CredentialsError
	}

	token, err := s.signToken(usuario)
	if err != nil {
		log.Errorf("failed to sign token for %s: %v", usuario.ID, err)
		return nil, apierror.InternalServerError
	}

	return &LoginResponse{Token: token, Usuario: toUsuarioResponse(usuario)}, nil
}

func (s *DefaultUsuarioService) GetMe(data *utils.TokenData) (*UsuarioResponse, apierror.ErrorResponse) {
	usuario, err := s.UsuarioRepo.FindByID(data.Sub)
	if err != nil {
		log.Errorf("failed to fetch usuario %s: %v", data.Sub, err)
		return nil, apierror.NewSimple(500, "Error al obtener el usuario")
	}
	if usuario == nil {
		return nil, apierror.NotFoundError
	}
	return toUsuarioResponse(usuario), nil
}

func (s *DefaultUsuarioService) signToken(usuario *entity.Usuario) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":      usuario.ID,
		"username": usuario.Username,
		"is_admin": usuario.IsAdmin,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func toUsuarioResponse(usuario *entity.Usuario) *UsuarioResponse {
	return &UsuarioResponse{
		ID:        usuario.ID,
		Username:  usuario.Username,
		Email:     usuario.Email,
		IsAdmin:   usuario.IsAdmin,
		CreatedAt: utils.FormatEpoch(usuario.CreatedAt),
	}
}
