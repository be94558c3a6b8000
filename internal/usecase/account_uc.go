package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"servihub/internal/domain"
	"servihub/internal/domain/model"
	"servihub/internal/domain/ports/adapter"
	"servihub/internal/domain/ports/repository"
	"servihub/internal/infra/logging"
)

// Compile-time check
var _ AccountUseCase = (*accountUC)(nil)

// AccountUseCase covers registration, credential checks and the admin-side
// account flag flips. Token minting lives in the access gate, not here.
type AccountUseCase interface {
	Register(ctx context.Context, name, email, phone, password, address string) (*model.Account, error)
	// VerifyEmail redeems a single-use verification token.
	VerifyEmail(ctx context.Context, token string) (*model.Account, error)
	Login(ctx context.Context, email, password string) (*model.Account, error)
	AdminLogin(ctx context.Context, email, password string) (*model.Admin, error)
	Get(ctx context.Context, id string) (*model.Account, error)
	List(ctx context.Context, offset, limit int) ([]*model.Account, int, error)
	// ToggleActivation flips the admin-controlled active flag.
	ToggleActivation(ctx context.Context, id string) (*model.Account, error)
	// MarkVerified sets both verified and email_verified, the manual admin path.
	MarkVerified(ctx context.Context, id string) (*model.Account, error)
}

type accountUC struct {
	accounts repository.AccountRepository
	admins   repository.AdminRepository
	mailer   adapter.Mailer
	log      *zerolog.Logger
}

func NewAccountUseCase(
	accounts repository.AccountRepository,
	admins repository.AdminRepository,
	mailer adapter.Mailer,
	logger *zerolog.Logger,
) *accountUC {
	return &accountUC{accounts: accounts, admins: admins, mailer: mailer, log: logger}
}

func (u *accountUC) Register(ctx context.Context, name, email, phone, password, address string) (*model.Account, error) {
	defer logging.TraceDuration(u.log, "AccountUC.Register")()

	email = strings.ToLower(email)
	existing, err := u.accounts.FindByEmail(ctx, repository.NoTX, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}
	if password == "" {
		return nil, domain.ErrInvalidArgument
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	acc, err := model.NewAccount("", name, email, phone, string(hash))
	if err != nil {
		return nil, err
	}
	acc.CurrentAddress = address
	token := ulid.Make().String()
	acc.VerificationToken = &token

	if err := u.accounts.Save(ctx, repository.NoTX, acc); err != nil {
		return nil, err
	}

	// Delivery failures must not lose the registration; the token can be
	// redeemed later through the admin manual-verify path.
	if err := u.mailer.SendVerificationEmail(ctx, acc.Email, token); err != nil {
		u.log.Warn().Err(err).Str("account_id", acc.ID).Msg("verification email not sent")
	}

	u.log.Info().Str("account_id", acc.ID).Msg("account registered")
	return acc, nil
}

func (u *accountUC) VerifyEmail(ctx context.Context, token string) (*model.Account, error) {
	defer logging.TraceDuration(u.log, "AccountUC.VerifyEmail")()

	acc, err := u.accounts.FindByVerificationToken(ctx, repository.NoTX, token)
	if err != nil {
		return nil, err
	}
	acc.EmailVerified = true
	acc.VerificationToken = nil
	acc.Touch()
	if err := u.accounts.Save(ctx, repository.NoTX, acc); err != nil {
		return nil, err
	}
	u.log.Info().Str("account_id", acc.ID).Msg("email verified")
	return acc, nil
}

func (u *accountUC) Login(ctx context.Context, email, password string) (*model.Account, error) {
	defer logging.TraceDuration(u.log, "AccountUC.Login")()

	acc, err := u.accounts.FindByEmail(ctx, repository.NoTX, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	return acc, nil
}

func (u *accountUC) AdminLogin(ctx context.Context, email, password string) (*model.Admin, error) {
	defer logging.TraceDuration(u.log, "AccountUC.AdminLogin")()

	adm, err := u.admins.FindByEmail(ctx, repository.NoTX, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(adm.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	if !adm.Active {
		return nil, domain.ErrForbidden
	}
	return adm, nil
}

func (u *accountUC) Get(ctx context.Context, id string) (*model.Account, error) {
	return u.accounts.FindByID(ctx, repository.NoTX, id)
}

func (u *accountUC) List(ctx context.Context, offset, limit int) ([]*model.Account, int, error) {
	accs, err := u.accounts.List(ctx, repository.NoTX, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := u.accounts.Count(ctx, repository.NoTX)
	if err != nil {
		return nil, 0, err
	}
	return accs, total, nil
}

func (u *accountUC) ToggleActivation(ctx context.Context, id string) (*model.Account, error) {
	acc, err := u.accounts.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	acc.Active = !acc.Active
	acc.Touch()
	if err := u.accounts.Save(ctx, repository.NoTX, acc); err != nil {
		return nil, err
	}
	u.log.Info().Str("account_id", id).Bool("active", acc.Active).Msg("account activation toggled")
	return acc, nil
}

func (u *accountUC) MarkVerified(ctx context.Context, id string) (*model.Account, error) {
	acc, err := u.accounts.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	acc.Verified = true
	acc.EmailVerified = true
	acc.Touch()
	if err := u.accounts.Save(ctx, repository.NoTX, acc); err != nil {
		return nil, err
	}
	u.log.Info().Str("account_id", id).Msg("account manually verified")
	return acc, nil
}
