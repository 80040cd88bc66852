package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/notify"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/service/auth"
	"github.com/phrazzld/accounts-api/internal/store"
)

// Field names a profile attribute that can be changed without confirmation.
type Field string

// Changeable profile fields.
const (
	FieldFirstName   Field = "first_name"
	FieldLastName    Field = "last_name"
	FieldUsername    Field = "username"
	FieldPhoneNumber Field = "phone_number"
)

// TokenPair is the session issued on login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterInput holds the registration form.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// AccountService manages the account lifecycle.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	Activate(ctx context.Context, token string) error
	ResendActivation(ctx context.Context, email string) error
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, uid, token, password, passwordConfirm string) error
	RequestEmailChange(ctx context.Context, accountID uuid.UUID, newEmail string) error
	ConfirmEmailChange(ctx context.Context, accountID uuid.UUID, uid, token string) error
	ChangeField(ctx context.Context, accountID uuid.UUID, field Field, value string) error
	ChangePassword(ctx context.Context, accountID uuid.UUID, current, newPassword, newPasswordConfirm string) error
	GetAccount(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)
}

// LifecycleObserver is told the outcome of every lifecycle operation.
type LifecycleObserver interface {
	ObserveLifecycle(event, outcome string)
}

// Lifecycle outcomes reported to the observer.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// AccountServiceDeps are the collaborators of the account service.
// Observer and Logger are optional.
type AccountServiceDeps struct {
	Accounts      store.AccountStore
	PendingEmails store.PendingEmailStore
	Tx            store.TxRunner
	Hasher        auth.PasswordHasher
	Policy        auth.PasswordPolicy
	Tokens        auth.JWTService
	Notifier      notify.Dispatcher
	Observer      LifecycleObserver
	Logger        *slog.Logger
}

type accountService struct {
	accounts      store.AccountStore
	pendingEmails store.PendingEmailStore
	tx            store.TxRunner
	hasher        auth.PasswordHasher
	policy        auth.PasswordPolicy
	tokens        auth.JWTService
	notifier      notify.Dispatcher
	observer      LifecycleObserver
	logger        *slog.Logger
}

var _ AccountService = (*accountService)(nil)

// NewAccountService creates an AccountService. It returns an error if a
// required dependency is missing.
func NewAccountService(deps AccountServiceDeps) (AccountService, error) {
	switch {
	case deps.Accounts == nil:
		return nil, errors.New("account store cannot be nil")
	case deps.PendingEmails == nil:
		return nil, errors.New("pending email store cannot be nil")
	case deps.Tx == nil:
		return nil, errors.New("transaction runner cannot be nil")
	case deps.Hasher == nil:
		return nil, errors.New("password hasher cannot be nil")
	case deps.Policy == nil:
		return nil, errors.New("password policy cannot be nil")
	case deps.Tokens == nil:
		return nil, errors.New("jwt service cannot be nil")
	case deps.Notifier == nil:
		return nil, errors.New("notification dispatcher cannot be nil")
	}

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	return &accountService{
		accounts:      deps.Accounts,
		pendingEmails: deps.PendingEmails,
		tx:            deps.Tx,
		hasher:        deps.Hasher,
		policy:        deps.Policy,
		tokens:        deps.Tokens,
		notifier:      deps.Notifier,
		observer:      deps.Observer,
		logger:        log.With("component", "account_service"),
	}, nil
}

// Register creates an unconfirmed account and emails its activation link.
func (s *accountService) Register(ctx context.Context, in RegisterInput) (account *domain.Account, err error) {
	defer func() { s.observe("register", err) }()
	log := logger.FromContextOrDefault(ctx, s.logger)

	fe := domain.NewFieldError(domain.ErrValidation)
	usernameOK := domain.UsernameRules.CheckInto(fe, "username", in.Username)
	emailOK := domain.EmailRules.CheckInto(fe, "email", in.Email)
	s.checkNewPassword(fe, "password", "password_confirm", in.Password, in.PasswordConfirm,
		auth.UserAttributes{Username: in.Username, Email: in.Email})

	if usernameOK {
		taken, err := s.usernameTaken(ctx, in.Username, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if taken {
			fe.Kind = ErrAlreadyExists
			fe.Add("username", MsgUsernameTaken)
		}
	}
	if emailOK {
		taken, err := s.emailTaken(ctx, in.Email, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if taken {
			fe.Kind = ErrAlreadyExists
			fe.Add("email", MsgEmailTaken)
		}
	}
	if fe.HasErrors() {
		return nil, fe
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err = domain.NewAccount(in.Username, in.Email, hash)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.accounts.WithTx(tx).Create(ctx, account)
	})
	if err != nil {
		if dup := duplicateFieldError(err); dup != nil {
			return nil, dup
		}
		log.Error("failed to create account", "error", err, "username", in.Username)
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	log.Info("account registered", "account_id", account.ID)

	if err := s.sendActivation(ctx, account); err != nil {
		log.Error("failed to issue activation token", "error", err, "account_id", account.ID)
	}

	return account, nil
}

// Activate confirms the account named by an activation token. Confirming an
// already confirmed account succeeds without writing.
func (s *accountService) Activate(ctx context.Context, token string) (err error) {
	defer func() { s.observe("activate", err) }()

	claims, err := s.tokens.VerifyActionToken(ctx, token, auth.PurposeActivate, "")
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return domain.FieldErrorOf(auth.ErrExpiredToken, "link", MsgLinkExpired)
		}
		return domain.FieldErrorOf(auth.ErrInvalidToken, "link", MsgLinkInvalid)
	}

	return s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		accounts := s.accounts.WithTx(tx)

		account, err := accounts.GetByID(ctx, claims.UserID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return domain.FieldErrorOf(auth.ErrInvalidToken, "link", MsgLinkInvalid)
			}
			return fmt.Errorf("failed to load account: %w", err)
		}

		if !account.Confirm() {
			return nil
		}
		if err := accounts.Update(ctx, account); err != nil {
			return fmt.Errorf("failed to confirm account: %w", err)
		}

		logger.FromContextOrDefault(ctx, s.logger).Info("account confirmed", "account_id", account.ID)
		return nil
	})
}

// ResendActivation issues a fresh activation link. Earlier links stay valid
// until they expire.
func (s *accountService) ResendActivation(ctx context.Context, email string) (err error) {
	defer func() { s.observe("resend_activation", err) }()

	if msgs := domain.EmailRules.Check(email); len(msgs) > 0 {
		fe := domain.NewFieldError(domain.ErrValidation)
		fe.Add("email", msgs...)
		return fe
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return domain.FieldErrorOf(ErrAccountNotFound, "email", MsgEmailNotFound)
		}
		return fmt.Errorf("failed to load account: %w", err)
	}

	if account.IsConfirm {
		return domain.FieldErrorOf(ErrAlreadyConfirmed, "user", MsgAlreadyConfirmed)
	}

	return s.sendActivation(ctx, account)
}

// Login verifies credentials and issues a session token pair. An unconfirmed
// account is reported as such whether or not the password is right.
func (s *accountService) Login(ctx context.Context, username, password string) (pair *TokenPair, err error) {
	defer func() { s.observe("login", err) }()
	log := logger.FromContextOrDefault(ctx, s.logger)

	invalid := domain.FieldErrorOf(ErrInvalidCredential, "password", MsgInvalidCredential)

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, invalid
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if !account.IsConfirm {
		return nil, domain.FieldErrorOf(ErrNotConfirmed, "account", MsgNotConfirmed)
	}

	if err := s.hasher.Compare(account.HashedPassword, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			log.Warn("stored password hash could not be verified", "error", err, "account_id", account.ID)
		}
		return nil, invalid
	}

	if !account.CanLogin() {
		return nil, invalid
	}

	return s.issuePair(ctx, account.ID)
}

// RefreshTokens exchanges a refresh token for a new pair.
func (s *accountService) RefreshTokens(ctx context.Context, refreshToken string) (pair *TokenPair, err error) {
	defer func() { s.observe("refresh", err) }()

	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, tokenFieldError("refresh", err)
	}

	account, err := s.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, domain.FieldErrorOf(auth.ErrInvalidToken, "refresh", MsgTokenInvalid)
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if !account.IsConfirm {
		return nil, domain.FieldErrorOf(ErrNotConfirmed, "account", MsgNotConfirmed)
	}
	if !account.CanLogin() {
		return nil, domain.FieldErrorOf(auth.ErrInvalidToken, "refresh", MsgTokenInvalid)
	}

	return s.issuePair(ctx, account.ID)
}

// RequestPasswordReset emails a reset link bound to the current password
// hash and email, so it stops working once either changes.
func (s *accountService) RequestPasswordReset(ctx context.Context, email string) (err error) {
	defer func() { s.observe("request_password_reset", err) }()

	if msgs := domain.EmailRules.Check(email); len(msgs) > 0 {
		fe := domain.NewFieldError(domain.ErrValidation)
		fe.Add("email", msgs...)
		return fe
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return domain.FieldErrorOf(ErrAccountNotFound, "email", MsgEmailNotFound)
		}
		return fmt.Errorf("failed to load account: %w", err)
	}

	token, err := s.tokens.IssueActionToken(ctx, account.ID, auth.PurposeResetPassword, resetState(account))
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	s.dispatch(ctx, account.Email, notify.KindPasswordReset, notify.Payload{
		Username: account.Username,
		UID:      auth.EncodeUID(account.ID),
		Token:    token,
	})
	return nil
}

// ConfirmPasswordReset sets a new password using an emailed reset link.
func (s *accountService) ConfirmPasswordReset(
	ctx context.Context,
	uid, token, password, passwordConfirm string,
) (err error) {
	defer func() { s.observe("confirm_password_reset", err) }()

	account, err := s.accountFromUID(ctx, uid)
	if err != nil {
		return err
	}

	state := resetState(account)
	claims, err := s.tokens.VerifyActionToken(ctx, token, auth.PurposeResetPassword, state)
	if err != nil {
		return tokenFieldError("token", err)
	}
	if claims.UserID != account.ID {
		return domain.FieldErrorOf(auth.ErrInvalidToken, "token", MsgTokenInvalid)
	}

	fe := domain.NewFieldError(domain.ErrValidation)
	s.checkNewPassword(fe, "password", "password_confirm", password, passwordConfirm,
		auth.UserAttributes{
			Username:  account.Username,
			FirstName: account.FirstName,
			LastName:  account.LastName,
			Email:     account.Email,
		})
	if fe.HasErrors() {
		return fe
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		accounts := s.accounts.WithTx(tx)
		current, err := accounts.GetByID(ctx, account.ID)
		if err != nil {
			return fmt.Errorf("failed to reload account: %w", err)
		}
		if resetState(current) != state {
			return domain.FieldErrorOf(auth.ErrInvalidToken, "token", MsgTokenInvalid)
		}

		current.HashedPassword = hash
		current.Touch()
		if err := accounts.Update(ctx, current); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}

		logger.FromContextOrDefault(ctx, s.logger).Info("password reset", "account_id", current.ID)
		return nil
	})
}

// RequestEmailChange stages newEmail and sends a confirmation link to it.
// The account's email is not changed until ConfirmEmailChange.
func (s *accountService) RequestEmailChange(ctx context.Context, accountID uuid.UUID, newEmail string) (err error) {
	defer func() { s.observe("request_email_change", err) }()

	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return err
	}

	if msgs := domain.EmailRules.Check(newEmail); len(msgs) > 0 {
		fe := domain.NewFieldError(domain.ErrValidation)
		fe.Add("email", msgs...)
		return fe
	}

	taken, err := s.emailTaken(ctx, newEmail, uuid.Nil)
	if err != nil {
		return err
	}
	if taken {
		return domain.FieldErrorOf(ErrAlreadyExists, "email", MsgEmailExists)
	}

	pending, err := domain.NewPendingEmailChange(account.ID, newEmail)
	if err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.pendingEmails.WithTx(tx).Upsert(ctx, pending)
	})
	if err != nil {
		return fmt.Errorf("failed to store pending email change: %w", err)
	}

	token, err := s.tokens.IssueActionToken(ctx, account.ID, auth.PurposeConfirmEmail,
		emailChangeState(account.Email, pending.NewEmail))
	if err != nil {
		return fmt.Errorf("failed to issue email change token: %w", err)
	}

	s.dispatch(ctx, pending.NewEmail, notify.KindEmailChange, notify.Payload{
		Username: account.Username,
		UID:      auth.EncodeUID(account.ID),
		Token:    token,
	})
	return nil
}

// ConfirmEmailChange applies the pending email change of the authenticated
// account and discards the pending record.
func (s *accountService) ConfirmEmailChange(ctx context.Context, accountID uuid.UUID, uid, token string) (err error) {
	defer func() { s.observe("confirm_email_change", err) }()

	decoded, err := auth.DecodeUID(uid)
	if err != nil || decoded != accountID {
		return domain.FieldErrorOf(auth.ErrInvalidToken, "uuid", MsgUUIDInvalid)
	}

	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return err
	}

	pending, err := s.pendingEmails.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrPendingEmailNotFound) {
			return domain.FieldErrorOf(auth.ErrInvalidToken, "token", MsgTokenInvalid)
		}
		return fmt.Errorf("failed to load pending email change: %w", err)
	}

	claims, err := s.tokens.VerifyActionToken(ctx, token, auth.PurposeConfirmEmail,
		emailChangeState(account.Email, pending.NewEmail))
	if err != nil {
		return tokenFieldError("token", err)
	}
	if claims.UserID != account.ID {
		return domain.FieldErrorOf(auth.ErrInvalidToken, "token", MsgTokenInvalid)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		accounts := s.accounts.WithTx(tx)

		other, err := accounts.GetByEmail(ctx, pending.NewEmail)
		switch {
		case err == nil && other.ID != account.ID:
			return domain.FieldErrorOf(ErrAlreadyExists, "email", MsgEmailExists)
		case err != nil && !store.IsNotFoundError(err):
			return fmt.Errorf("failed to check email: %w", err)
		}

		current, err := accounts.GetByID(ctx, account.ID)
		if err != nil {
			return fmt.Errorf("failed to reload account: %w", err)
		}
		current.Email = pending.NewEmail
		current.Touch()
		if err := accounts.Update(ctx, current); err != nil {
			return err
		}

		return s.pendingEmails.WithTx(tx).DeleteByAccountID(ctx, account.ID)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return domain.FieldErrorOf(ErrAlreadyExists, "email", MsgEmailExists)
		}
		var fe *domain.FieldError
		if errors.As(err, &fe) {
			return fe
		}
		return fmt.Errorf("failed to apply email change: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("email changed", "account_id", account.ID)
	return nil
}

// ChangeField updates a profile field immediately.
func (s *accountService) ChangeField(ctx context.Context, accountID uuid.UUID, field Field, value string) (err error) {
	defer func() { s.observe("change_"+string(field), err) }()

	var rules domain.FieldRules
	switch field {
	case FieldFirstName, FieldLastName:
		rules = domain.NameRules
	case FieldUsername:
		rules = domain.UsernameRules
	case FieldPhoneNumber:
		rules = domain.PhoneRules
	default:
		return fmt.Errorf("%w: unknown field %q", domain.ErrValidation, field)
	}

	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return err
	}

	fe := domain.NewFieldError(domain.ErrValidation)
	if rules.CheckInto(fe, string(field), value) {
		switch field {
		case FieldUsername:
			taken, err := s.usernameTaken(ctx, value, account.ID)
			if err != nil {
				return err
			}
			if taken {
				fe.Kind = ErrAlreadyExists
				fe.Add(string(field), MsgUsernameTaken)
			}
		case FieldPhoneNumber:
			taken, err := s.phoneTaken(ctx, value, account.ID)
			if err != nil {
				return err
			}
			if taken {
				fe.Kind = ErrAlreadyExists
				fe.Add(string(field), MsgPhoneTaken)
			}
		}
	}
	if fe.HasErrors() {
		return fe
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		accounts := s.accounts.WithTx(tx)
		current, err := accounts.GetByID(ctx, account.ID)
		if err != nil {
			return fmt.Errorf("failed to reload account: %w", err)
		}

		switch field {
		case FieldFirstName:
			current.FirstName = value
		case FieldLastName:
			current.LastName = value
		case FieldUsername:
			current.Username = value
		case FieldPhoneNumber:
			current.PhoneNumber = value
		}
		current.Touch()
		return accounts.Update(ctx, current)
	})
	if err != nil {
		if dup := duplicateFieldError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to update %s: %w", field, err)
	}

	return nil
}

// ChangePassword replaces the password after checking the current one. The
// stored hash is untouched on any failure.
func (s *accountService) ChangePassword(
	ctx context.Context,
	accountID uuid.UUID,
	current, newPassword, newPasswordConfirm string,
) (err error) {
	defer func() { s.observe("change_password", err) }()

	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(account.HashedPassword, current); err != nil {
		return domain.FieldErrorOf(ErrInvalidCredential, "current_password", MsgCurrentPasswordWrong)
	}

	fe := domain.NewFieldError(domain.ErrValidation)
	s.checkNewPassword(fe, "new_password", "new_password_confirm", newPassword, newPasswordConfirm,
		auth.UserAttributes{
			Username:  account.Username,
			FirstName: account.FirstName,
			LastName:  account.LastName,
			Email:     account.Email,
		})
	if fe.HasErrors() {
		return fe
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		accounts := s.accounts.WithTx(tx)
		a, err := accounts.GetByID(ctx, account.ID)
		if err != nil {
			return fmt.Errorf("failed to reload account: %w", err)
		}
		a.HashedPassword = hash
		a.Touch()
		if err := accounts.Update(ctx, a); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		return nil
	})
}

// GetAccount returns the account profile.
func (s *accountService) GetAccount(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	return s.loadAccount(ctx, accountID)
}

func (s *accountService) loadAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}

// accountFromUID resolves a link uid to an account.
func (s *accountService) accountFromUID(ctx context.Context, uid string) (*domain.Account, error) {
	id, err := auth.DecodeUID(uid)
	if err != nil {
		return nil, domain.FieldErrorOf(auth.ErrInvalidToken, "uuid", MsgUUIDInvalid)
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, domain.FieldErrorOf(auth.ErrInvalidToken, "uuid", MsgUUIDInvalid)
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}

// checkNewPassword records a confirmation mismatch on both fields, or the
// policy violations on the password field.
func (s *accountService) checkNewPassword(
	fe *domain.FieldError,
	field, confirmField, password, confirm string,
	attrs auth.UserAttributes,
) {
	if password != confirm {
		fe.Add(field, MsgPasswordsMismatch)
		fe.Add(confirmField, MsgPasswordsMismatch)
		return
	}
	fe.Add(field, s.policy.Validate(password, attrs)...)
}

func (s *accountService) usernameTaken(ctx context.Context, username string, self uuid.UUID) (bool, error) {
	other, err := s.accounts.GetByUsername(ctx, username)
	return takenBy(other, err, self)
}

func (s *accountService) emailTaken(ctx context.Context, email string, self uuid.UUID) (bool, error) {
	other, err := s.accounts.GetByEmail(ctx, email)
	return takenBy(other, err, self)
}

func (s *accountService) phoneTaken(ctx context.Context, phone string, self uuid.UUID) (bool, error) {
	other, err := s.accounts.GetByPhoneNumber(ctx, phone)
	return takenBy(other, err, self)
}

// takenBy interprets a uniqueness lookup. An account matching self does not
// count as taken.
func takenBy(other *domain.Account, err error, self uuid.UUID) (bool, error) {
	if err != nil {
		if store.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check uniqueness: %w", err)
	}
	return other.ID != self, nil
}

func (s *accountService) sendActivation(ctx context.Context, account *domain.Account) error {
	token, err := s.tokens.IssueActionToken(ctx, account.ID, auth.PurposeActivate, "")
	if err != nil {
		return fmt.Errorf("failed to issue activation token: %w", err)
	}

	s.dispatch(ctx, account.Email, notify.KindActivation, notify.Payload{
		Username: account.Username,
		UID:      auth.EncodeUID(account.ID),
		Token:    token,
	})
	return nil
}

// dispatch hands a notification to the dispatcher. Delivery problems never
// fail the calling operation.
func (s *accountService) dispatch(ctx context.Context, to string, kind notify.Kind, payload notify.Payload) {
	if err := s.notifier.Send(ctx, to, kind, payload); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to dispatch notification",
			"error", err,
			"kind", kind)
	}
}

func (s *accountService) issuePair(ctx context.Context, id uuid.UUID) (*TokenPair, error) {
	access, err := s.tokens.GenerateToken(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *accountService) observe(event string, err error) {
	if s.observer == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
		var fe *domain.FieldError
		if errors.As(err, &fe) || errors.Is(err, ErrAccountNotFound) {
			outcome = OutcomeRejected
		}
	}
	s.observer.ObserveLifecycle(event, outcome)
}

// resetState is the account state a reset token is bound to.
func resetState(a *domain.Account) string {
	return a.HashedPassword + "|" + a.Email
}

// emailChangeState binds a confirm_email token to one specific request.
func emailChangeState(currentEmail, newEmail string) string {
	return currentEmail + "|" + newEmail
}

// tokenFieldError converts a token verification failure for field.
func tokenFieldError(field string, err error) *domain.FieldError {
	if errors.Is(err, auth.ErrExpiredToken) {
		return domain.FieldErrorOf(auth.ErrExpiredToken, field, MsgTokenExpired)
	}
	return domain.FieldErrorOf(auth.ErrInvalidToken, field, MsgTokenInvalid)
}

// duplicateFieldError maps a store uniqueness error to the field it concerns.
func duplicateFieldError(err error) *domain.FieldError {
	switch {
	case errors.Is(err, store.ErrUsernameExists):
		return domain.FieldErrorOf(ErrAlreadyExists, "username", MsgUsernameTaken)
	case errors.Is(err, store.ErrEmailExists):
		return domain.FieldErrorOf(ErrAlreadyExists, "email", MsgEmailTaken)
	case errors.Is(err, store.ErrPhoneExists):
		return domain.FieldErrorOf(ErrAlreadyExists, "phone_number", MsgPhoneTaken)
	}
	return nil
}
