package usecase

import (
	"context"
	"errors"
	"slices"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
	"github.com/jhoicas/Retail-api/pkg/logger"
)

// UserRegistrar publica un usuario nuevo en el directorio de tenants (implementado por tenancy.Resolver).
type UserRegistrar interface {
	Register(ctx context.Context, binding entity.TenantBinding) error
}

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	registrar UserRegistrar
	log       *logger.Logger
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(registrar UserRegistrar, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{registrar: registrar, log: log}
}

// List lista los usuarios de la empresa con sus ubicaciones asignadas.
func (uc *UserUseCase) List(ctx context.Context, sess *tenancy.Session) ([]dto.UserResponse, error) {
	users, err := sess.Store.Users().ListByCompany(ctx, sess.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		locs, err := sess.Store.Users().ListLocationIDs(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.ToUserResponse(u, locs))
	}
	return out, nil
}

// Create crea un usuario en la empresa de quien llama y lo registra en el directorio.
// Cada rechazo por regla de negocio queda en el log de auditoría.
func (uc *UserUseCase) Create(ctx context.Context, sess *tenancy.Session, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := tenancy.NormalizeEmail(in.Email)
	companyID := in.CompanyID
	if companyID == 0 {
		companyID = sess.CompanyID
	}
	uc.log.Info().
		Str("event", "user.create").
		Int64("company_id", companyID).
		Int64("actor_id", sess.UserID).
		Str("email", email).
		Msg("alta de usuario solicitada")

	role := entity.Role(in.Role)
	if !role.Valid() || email == "" {
		return nil, uc.reject(sess, companyID, email, domain.ErrInvalidInput)
	}
	// Una empresa distinta a la de la sesión no existe dentro de este almacén.
	if companyID != sess.CompanyID {
		return nil, uc.reject(sess, companyID, email, domain.NewBadReference(domain.MsgCompanyNotFound))
	}

	var created *entity.User
	err := sess.Store.RunInTx(ctx, func(tx repository.Store) error {
		company, err := tx.Companies().GetByID(ctx, companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.NewBadReference(domain.MsgCompanyNotFound)
		}
		existing, err := tx.Users().GetByEmailAndCompany(ctx, email, companyID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.NewConflict(domain.MsgUserExists)
		}
		user := &entity.User{CompanyID: companyID, Name: in.Name, Email: email, Role: role}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		created = user
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrBadReference) {
			return nil, uc.reject(sess, companyID, email, err)
		}
		return nil, err
	}

	// El directorio vive en otra base: se registra tras el commit y, si falla, se deshace el alta.
	if err := uc.registrar.Register(ctx, entity.TenantBinding{
		Email:     email,
		UserID:    created.ID,
		CompanyID: companyID,
		Role:      role,
	}); err != nil {
		if derr := sess.Store.Users().Delete(ctx, created.ID, companyID); derr != nil {
			uc.log.Error().Err(derr).
				Int64("company_id", companyID).
				Int64("user_id", created.ID).
				Msg("no se pudo deshacer el alta tras fallar el directorio")
		}
		if errors.Is(err, domain.ErrConflict) {
			return nil, uc.reject(sess, companyID, email, err)
		}
		return nil, err
	}

	uc.log.Info().
		Str("event", "user.created").
		Int64("company_id", companyID).
		Int64("user_id", created.ID).
		Msg("usuario creado")
	resp := dto.ToUserResponse(created, nil)
	return &resp, nil
}

func (uc *UserUseCase) reject(sess *tenancy.Session, companyID int64, email string, err error) error {
	reason := domain.Reason(err)
	if reason == "" {
		reason = err.Error()
	}
	uc.log.Info().
		Str("event", "user.create.rejected").
		Int64("company_id", companyID).
		Int64("actor_id", sess.UserID).
		Str("email", email).
		Str("reason", reason).
		Msg("alta de usuario rechazada")
	return err
}

// AssignLocations reemplaza las ubicaciones del usuario. Todas deben pertenecer a la empresa.
func (uc *UserUseCase) AssignLocations(ctx context.Context, sess *tenancy.Session, userID int64, in dto.AssignLocationsRequest) (*dto.UserResponse, error) {
	ids := slices.Clone(in.LocationIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	var user *entity.User
	err := sess.Store.RunInTx(ctx, func(tx repository.Store) error {
		u, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil || u.CompanyID != sess.CompanyID {
			return domain.ErrNotFound
		}
		for _, id := range ids {
			loc, err := tx.Locations().GetByIDAndCompany(ctx, id, sess.CompanyID)
			if err != nil {
				return err
			}
			if loc == nil {
				return domain.NewBadReference(domain.MsgLocationNotFound)
			}
		}
		user = u
		return tx.Users().ReplaceLocations(ctx, userID, ids)
	})
	if err != nil {
		return nil, err
	}
	resp := dto.ToUserResponse(user, ids)
	return &resp, nil
}
