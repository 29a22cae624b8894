// Package auth implementa el almacén de identidad (registro, login, refresh)
// y el resolver de rol que se ejecuta en cada transición de sesión.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Carnet-api/internal/application/audit"
	"github.com/jhoicas/Carnet-api/internal/application/dto"
	"github.com/jhoicas/Carnet-api/internal/domain"
	"github.com/jhoicas/Carnet-api/internal/domain/entity"
	"github.com/jhoicas/Carnet-api/internal/domain/repository"
	pkgjwt "github.com/jhoicas/Carnet-api/pkg/jwt"
	"github.com/jhoicas/Carnet-api/pkg/logger"
)

// JWTConfig configuración para la emisión de tokens de claims.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación y resolución de sesión.
type AuthUseCase struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	audit    *audit.Logger
	cache    SessionCache // puede ser nil: el resolver consulta siempre la DB
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth. cache puede ser nil.
func NewAuthUseCase(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	auditLog *audit.Logger,
	cache SessionCache,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		users:    users,
		profiles: profiles,
		audit:    auditLog,
		cache:    cache,
		jwtCfg:   jwtCfg,
		log:      log,
	}
}

// Register crea un principal nuevo: hashea el password con bcrypt, persiste
// el usuario y su perfil inicial (sin rol), emite la entrada única de
// registro en el log de actividad y establece la primera sesión.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest, ip string) (*dto.SessionResponse, error) {
	existing, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, wrapInternal("buscar email", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, wrapInternal("hash password", err)
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		DisplayName:  in.DisplayName,
		ClaimRole:    "", // el rol lo asigna un admin después
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, wrapInternal("crear usuario", err)
	}
	if err := uc.profiles.Upsert(ctx, &entity.Profile{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		// El perfil se recrea en el primer login; no abortamos el registro.
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("crear perfil inicial")
	}

	// Entrada única de registro, distinta de los logins ordinarios.
	uc.audit.Go(audit.Entry{
		Action:    entity.ActionLogin,
		UserID:    user.ID,
		UserEmail: user.Email,
		Details:   "User registered",
		IPAddress: ip,
	})

	return uc.establish(ctx, user)
}

// Login autentica contra el almacén de identidad y ejecuta la resolución de
// sesión: claim firmado primero, perfil como respaldo, bloqueo por encima de
// todo.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest, ip string) (*dto.SessionResponse, error) {
	user, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, wrapInternal("buscar usuario", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthenticated
	}
	return uc.establish(ctx, user)
}

// Refresh fuerza la reemisión del token de claims leyendo el claim_role
// actual del almacén de identidad, saltándose el cache. Es el mecanismo para
// que un cambio de rol alcance a una sesión viva sin cerrar sesión.
func (uc *AuthUseCase) Refresh(ctx context.Context, userID string) (*dto.SessionResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if uc.cache != nil {
		uc.cache.Evict(ctx, userID)
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, wrapInternal("buscar usuario", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return uc.establish(ctx, user)
}

// Logout registra el cierre de sesión y evicta el snapshot. El token en sí
// expira por TTL; el registro es el evento de ciclo de vida que interesa.
func (uc *AuthUseCase) Logout(ctx context.Context, userID, email, ip string) {
	if uc.cache != nil {
		uc.cache.Evict(ctx, userID)
	}
	uc.audit.Go(audit.Entry{
		Action:    entity.ActionLogout,
		UserID:    userID,
		UserEmail: email,
		IPAddress: ip,
	})
}

// establish ejecuta los pasos 2-5 del resolver sobre un usuario ya
// autenticado y emite el token. El orden importa: el chequeo de bloqueo corre
// después de leer el perfil y antes de exponer rol alguno.
//
// Ausencia definitiva y lectura fallida se tratan distinto: solo la ausencia
// crea el perfil inicial (y con CreateIfAbsent, que nunca pisa una fila
// existente). Un fallo de lectura degrada a "sin datos de perfil" sin
// escribir nada: el bloqueo y el rol de respaldo de un perfil real no deben
// destruirse por un problema transitorio del backend.
func (uc *AuthUseCase) establish(ctx context.Context, user *entity.User) (*dto.SessionResponse, error) {
	profile, err := uc.profiles.GetByID(ctx, user.ID)
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("lectura de perfil fallida, se continúa sin perfil")
		profile = nil
	} else if profile == nil {
		// Primer login sin perfil: crearlo vacío.
		now := time.Now()
		created := &entity.Profile{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := uc.profiles.CreateIfAbsent(ctx, created); err != nil {
			uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("crear perfil en login")
		} else if current, err := uc.profiles.GetByID(ctx, user.ID); err == nil && current != nil {
			// Releer: si un admin escribió el perfil entre la lectura y el
			// insert, su versión es la que vale.
			profile = current
		} else {
			profile = created
		}
	}

	profileRole := ""
	blocked := false
	if profile != nil {
		profileRole = profile.Role
		blocked = profile.Blocked
	}

	effective, ok := ResolveRole(user.ClaimRole, profileRole, blocked)
	if !ok {
		// Cuenta bloqueada: la sesión termina aquí y ningún rol se expone.
		if uc.cache != nil {
			uc.cache.Evict(ctx, user.ID)
		}
		return nil, domain.ErrBlocked
	}

	token, err := pkgjwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.ClaimRole, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, wrapInternal("emitir token", err)
	}

	if uc.cache != nil {
		uc.cache.Set(ctx, user.ID, &Snapshot{
			UserID:        user.ID,
			Email:         user.Email,
			DisplayName:   user.DisplayName,
			ClaimRole:     user.ClaimRole,
			ProfileRole:   profileRole,
			EffectiveRole: effective,
		})
	}

	return &dto.SessionResponse{
		Token:         token,
		UserID:        user.ID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		EffectiveRole: effective,
	}, nil
}

// Resolve calcula el rol efectivo para un request ya autenticado por token.
// El claim del token (no el claim_role actual de la DB) es la fuente firmada:
// un cambio de rol no se observa hasta el refresh, igual que en el login. El
// perfil se lee del cache cuando hay snapshot vigente.
func (uc *AuthUseCase) Resolve(ctx context.Context, claims *pkgjwt.Claims) (*Snapshot, error) {
	if claims == nil || claims.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if uc.cache != nil {
		if snap, hit := uc.cache.Get(ctx, claims.UserID); hit {
			return snap, nil
		}
	}

	profile := uc.fetchProfile(ctx, claims.UserID)
	profileRole := ""
	blocked := false
	if profile != nil {
		profileRole = profile.Role
		blocked = profile.Blocked
	}

	effective, ok := ResolveRole(claims.Role, profileRole, blocked)
	if !ok {
		if uc.cache != nil {
			uc.cache.Evict(ctx, claims.UserID)
		}
		return nil, domain.ErrBlocked
	}

	snap := &Snapshot{
		UserID:        claims.UserID,
		Email:         claims.Email,
		ClaimRole:     claims.Role,
		ProfileRole:   profileRole,
		EffectiveRole: effective,
	}
	if uc.cache != nil {
		uc.cache.Set(ctx, claims.UserID, snap)
	}
	return snap, nil
}

// fetchProfile lee el perfil con tolerancia a fallos: un error de lectura se
// degrada a "sin datos de perfil" para no dejar usuarios fuera durante un
// problema transitorio del backend. El claim firmado sigue siendo
// autoritativo cuando está presente.
func (uc *AuthUseCase) fetchProfile(ctx context.Context, userID string) *entity.Profile {
	profile, err := uc.profiles.GetByID(ctx, userID)
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("lectura de perfil fallida, se continúa sin perfil")
		return nil
	}
	return profile
}
