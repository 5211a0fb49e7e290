package services

import (
	"context"
	"strings"
	"time"

	"socialgram-backend/application/ports"
	"socialgram-backend/domain/core/entities"
	"socialgram-backend/domain/core/valueobjects"
	"socialgram-backend/domain/events"
	"socialgram-backend/pkg/auth"
	pkgerrors "socialgram-backend/pkg/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AccountService handles registration, login, profile reads and edits.
// Services talk to ports directly; every operation here is a single
// store call plus projection work.
type AccountService struct {
	accounts ports.AccountRepository
	tokens   *auth.TokenService
	eventBus ports.EventBus
	logger   *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	accounts ports.AccountRepository,
	tokens *auth.TokenService,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		accounts: accounts,
		tokens:   tokens,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Register creates an account and returns a signed token for it.
// Duplicate username or email fails with Conflict.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return "", pkgerrors.NewValidationError("please provide username, email, and password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", pkgerrors.NewInternalError("failed to hash password").WithCause(err)
	}

	account, err := entities.NewAccount(username, email, string(hash))
	if err != nil {
		return "", err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return "", err
	}

	s.publish(ctx, events.NewAccountRegistered(account.ID().String(), account.Username(), time.Now()))

	token, err := s.tokens.Issue(account.ID().String(), account.Username())
	if err != nil {
		return "", pkgerrors.NewInternalError("failed to issue token").WithCause(err)
	}

	s.logger.Info("Account registered",
		zap.String("accountID", account.ID().String()),
		zap.String("username", account.Username()),
	)

	return token, nil
}

// Login verifies credentials and returns a token plus the account view
func (s *AccountService) Login(ctx context.Context, username, password string) (string, AccountView, error) {
	if username == "" || password == "" {
		return "", AccountView{}, pkgerrors.NewValidationError("please provide username and password")
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return "", AccountView{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash()), []byte(password)); err != nil {
		return "", AccountView{}, pkgerrors.NewUnauthorizedError("invalid credentials")
	}

	token, err := s.tokens.Issue(account.ID().String(), account.Username())
	if err != nil {
		return "", AccountView{}, pkgerrors.NewInternalError("failed to issue token").WithCause(err)
	}

	return token, NewAccountView(account), nil
}

// Get returns the public projection of an account
func (s *AccountService) Get(ctx context.Context, accountID string) (AccountView, error) {
	id, err := valueobjects.NewAccountIDFromString(accountID)
	if err != nil {
		return AccountView{}, pkgerrors.NewValidationError("invalid account ID")
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return AccountView{}, err
	}

	view := NewAccountView(account)
	view.Email = "" // public projection hides the email
	return view, nil
}

// GetProfile returns the profile projection with follower/following lists,
// each entry annotated with whether the viewer already follows it
func (s *AccountService) GetProfile(ctx context.Context, viewerID, profileID string) (ProfileView, error) {
	id, err := valueobjects.NewAccountIDFromString(profileID)
	if err != nil {
		return ProfileView{}, pkgerrors.NewValidationError("invalid account ID")
	}

	profile, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return ProfileView{}, err
	}

	viewer := profile
	if viewerID != profileID {
		vid, err := valueobjects.NewAccountIDFromString(viewerID)
		if err != nil {
			return ProfileView{}, pkgerrors.NewValidationError("invalid viewer ID")
		}
		viewer, err = s.accounts.GetByID(ctx, vid)
		if err != nil {
			return ProfileView{}, err
		}
	}

	connectionIDs := append(profile.Followers(), profile.Following()...)
	joined, err := s.accounts.GetMany(ctx, connectionIDs)
	if err != nil {
		return ProfileView{}, err
	}

	return ProfileView{
		ID:         profile.ID().String(),
		Username:   profile.Username(),
		Bio:        profile.Bio(),
		ProfilePic: profile.ProfilePic(),
		Followers:  s.connectionViews(profile.Followers(), joined, viewer),
		Following:  s.connectionViews(profile.Following(), joined, viewer),
	}, nil
}

// UpdateProfile applies partial profile edits for the authenticated account
func (s *AccountService) UpdateProfile(ctx context.Context, accountID, bio, profilePicURL string) (AccountView, error) {
	id, err := valueobjects.NewAccountIDFromString(accountID)
	if err != nil {
		return AccountView{}, pkgerrors.NewValidationError("invalid account ID")
	}

	account, err := s.accounts.UpdateProfile(ctx, id, bio, profilePicURL)
	if err != nil {
		return AccountView{}, err
	}

	return NewAccountView(account), nil
}

// Search finds accounts by username substring, bounded to searchLimit
func (s *AccountService) Search(ctx context.Context, query string) ([]AccountSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.NewValidationError("search query is required")
	}

	matches, err := s.accounts.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}

	results := make([]AccountSummary, 0, len(matches))
	for _, a := range matches {
		results = append(results, NewAccountSummary(a))
	}
	return results, nil
}

func (s *AccountService) connectionViews(ids []string, joined map[string]*entities.Account, viewer *entities.Account) []ConnectionView {
	views := make([]ConnectionView, 0, len(ids))
	for _, id := range ids {
		summary := summaryFor(id, joined)
		views = append(views, ConnectionView{
			ID:         summary.ID,
			Username:   summary.Username,
			ProfilePic: summary.ProfilePic,
			Following:  viewer.IsFollowing(id),
		})
	}
	return views
}

func (s *AccountService) publish(ctx context.Context, event events.DomainEvent) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, event); err != nil {
		// Events are informational; never fail the operation over them
		s.logger.Warn("Failed to publish event",
			zap.String("eventType", event.GetEventType()),
			zap.Error(err),
		)
	}
}

// searchLimit bounds username search results
const searchLimit = 10
