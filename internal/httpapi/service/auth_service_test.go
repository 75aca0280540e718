package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/confirmation"
	"reviewhub/internal/httpapi/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthServiceForTest(repo *MockUserRepository, codes *fakeCodeStore, mail *fakeMailer) AuthService {
	return NewAuthService(repo, codes, mail, testSecret, time.Hour)
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a new user and mails a code", func(t *testing.T) {
		repo := new(MockUserRepository)
		codes := newFakeCodeStore()
		mail := &fakeMailer{}
		svc := newAuthServiceForTest(repo, codes, mail)

		repo.On("FindByUsername", ctx, "reader").Return(nil, gorm.ErrRecordNotFound)
		repo.On("FindByEmail", ctx, "reader@example.com").Return(nil, gorm.ErrRecordNotFound)
		repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = "u1"
		})

		user, err := svc.Signup(ctx, "reader", "reader@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "reader", user.Username)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.Equal(t, []string{"reader@example.com"}, mail.sentTo)
		assert.Equal(t, 1, codes.issueCalls)
	})

	t.Run("same pair again re-issues a code without creating", func(t *testing.T) {
		repo := new(MockUserRepository)
		codes := newFakeCodeStore()
		mail := &fakeMailer{}
		svc := newAuthServiceForTest(repo, codes, mail)

		existing := &models.User{ID: "u1", Username: "reader", Email: "reader@example.com"}
		repo.On("FindByUsername", ctx, "reader").Return(existing, nil)
		repo.On("FindByEmail", ctx, "reader@example.com").Return(existing, nil)

		user, err := svc.Signup(ctx, "reader", "reader@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, 1, codes.issueCalls)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("username held by another account", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAuthServiceForTest(repo, newFakeCodeStore(), &fakeMailer{})

		repo.On("FindByUsername", ctx, "reader").Return(&models.User{ID: "u1", Username: "reader"}, nil)
		repo.On("FindByEmail", ctx, "other@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Signup(ctx, "reader", "other@example.com")
		assert.ErrorIs(t, err, ErrUsernameInUse)
	})

	t.Run("email held by another account", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAuthServiceForTest(repo, newFakeCodeStore(), &fakeMailer{})

		repo.On("FindByUsername", ctx, "newname").Return(nil, gorm.ErrRecordNotFound)
		repo.On("FindByEmail", ctx, "reader@example.com").Return(&models.User{ID: "u1"}, nil)

		_, err := svc.Signup(ctx, "newname", "reader@example.com")
		assert.ErrorIs(t, err, ErrEmailInUse)
	})
}

func TestIssueToken(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: "u1", Username: "reader", Role: models.RoleUser}

	t.Run("valid code yields a parsable token", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAuthServiceForTest(repo, newFakeCodeStore(), &fakeMailer{})

		repo.On("FindByUsername", ctx, "reader").Return(user, nil)

		token, err := svc.IssueToken(ctx, "reader", "whatever")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := svc.ValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, "reader", claims.Username)
		assert.Equal(t, models.RoleUser, claims.Role)
	})

	t.Run("unknown username", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAuthServiceForTest(repo, newFakeCodeStore(), &fakeMailer{})

		repo.On("FindByUsername", ctx, "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.IssueToken(ctx, "ghost", "code")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("bad code", func(t *testing.T) {
		repo := new(MockUserRepository)
		codes := newFakeCodeStore()
		codes.verifyErr = confirmation.ErrCodeInvalid
		svc := newAuthServiceForTest(repo, codes, &fakeMailer{})

		repo.On("FindByUsername", ctx, "reader").Return(user, nil)

		_, err := svc.IssueToken(ctx, "reader", "wrong")
		assert.ErrorIs(t, err, confirmation.ErrCodeInvalid)
	})
}

func TestValidateToken(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newAuthServiceForTest(repo, newFakeCodeStore(), &fakeMailer{})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		other := NewAuthService(repo, newFakeCodeStore(), &fakeMailer{}, "another-secret-another-secret-xx", time.Hour)
		ctx := context.Background()
		repo.On("FindByUsername", ctx, "reader").Return(&models.User{ID: "u1", Username: "reader"}, nil)

		token, err := other.IssueToken(ctx, "reader", "code")
		assert.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
