package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AyanAlikhan11/connext-Alumni/internal/domain"
	"github.com/AyanAlikhan11/connext-Alumni/internal/repository"
	"github.com/AyanAlikhan11/connext-Alumni/pkg/database"
)

type convFixture struct {
	svc   ConversationService
	users repository.UserRepository
	alice *domain.User
	bob   *domain.User
}

func newConvFixture(t *testing.T) *convFixture {
	t.Helper()
	req := require.New(t)

	db, err := database.New(&database.Config{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	req.NoError(err)
	req.NoError(database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.ConversationModel{},
		&domain.ParticipantModel{},
		&domain.MessageModel{},
	))

	users := repository.NewGormUserRepository(db)
	conversations := repository.NewGormConversationRepository(db)

	alice := &domain.User{Email: "alice@example.com", Username: "alice", PasswordHash: "h"}
	bob := &domain.User{Email: "bob@example.com", Username: "bob", PasswordHash: "h"}
	req.NoError(users.Create(context.Background(), alice))
	req.NoError(users.Create(context.Background(), bob))

	return &convFixture{
		svc:   NewConversationService(conversations, users),
		users: users,
		alice: alice,
		bob:   bob,
	}
}

func TestConversationService_AppendRejectsEmptyBody(t *testing.T) {
	req := require.New(t)
	f := newConvFixture(t)
	ctx := context.Background()

	conv, err := f.svc.CreateConversation(ctx, f.alice.ID, f.bob.ID)
	req.NoError(err)

	_, err = f.svc.AppendMessage(ctx, conv.ID, f.alice.ID, "")
	req.ErrorIs(err, ErrEmptyBody)

	_, err = f.svc.AppendMessage(ctx, conv.ID, f.alice.ID, "   ")
	req.ErrorIs(err, ErrEmptyBody)
}

func TestConversationService_AppendAndListRoundTrip(t *testing.T) {
	req := require.New(t)
	f := newConvFixture(t)
	ctx := context.Background()

	conv, err := f.svc.CreateConversation(ctx, f.alice.ID, f.bob.ID)
	req.NoError(err)

	first, err := f.svc.AppendMessage(ctx, conv.ID, f.alice.ID, "hello")
	req.NoError(err)
	second, err := f.svc.AppendMessage(ctx, conv.ID, f.bob.ID, "hi back")
	req.NoError(err)

	msgs, err := f.svc.ListMessages(ctx, conv.ID, f.alice.ID)
	req.NoError(err)
	req.Len(msgs, 2)
	req.Equal(first.ID, msgs[0].ID)
	req.Equal("hello", msgs[0].Body)
	req.Equal(second.ID, msgs[1].ID)
	req.Equal("hi back", msgs[1].Body)
}

func TestConversationService_NonParticipantRejected(t *testing.T) {
	req := require.New(t)
	f := newConvFixture(t)
	ctx := context.Background()

	mallory := &domain.User{Email: "mallory@example.com", Username: "mallory", PasswordHash: "h"}
	req.NoError(f.users.Create(ctx, mallory))

	conv, err := f.svc.CreateConversation(ctx, f.alice.ID, f.bob.ID)
	req.NoError(err)

	_, err = f.svc.AppendMessage(ctx, conv.ID, mallory.ID, "let me in")
	req.ErrorIs(err, ErrNotParticipant)

	_, err = f.svc.ListMessages(ctx, conv.ID, mallory.ID)
	req.ErrorIs(err, ErrNotParticipant)
}

func TestConversationService_AppendToMissingConversation(t *testing.T) {
	req := require.New(t)
	f := newConvFixture(t)

	_, err := f.svc.AppendMessage(context.Background(), "missing", f.alice.ID, "hello")
	req.ErrorIs(err, repository.ErrConversationNotFound)
}

func TestConversationService_CreateIsIdempotentPerPair(t *testing.T) {
	req := require.New(t)
	f := newConvFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateConversation(ctx, f.alice.ID, f.bob.ID)
	req.NoError(err)

	again, err := f.svc.CreateConversation(ctx, f.alice.ID, f.bob.ID)
	req.NoError(err)
	req.Equal(first.ID, again.ID)

	// Starting it from the other side also finds the existing record.
	mirrored, err := f.svc.CreateConversation(ctx, f.bob.ID, f.alice.ID)
	req.NoError(err)
	req.Equal(first.ID, mirrored.ID)
}

func TestConversationService_CreateRejectsSelfAndUnknown(t *testing.T) {
	req := require.New(t)
	f := newConvFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateConversation(ctx, f.alice.ID, f.alice.ID)
	req.ErrorIs(err, ErrNotParticipant)

	_, err = f.svc.CreateConversation(ctx, f.alice.ID, "nobody")
	req.ErrorIs(err, repository.ErrUserNotFound)
}

func TestConversationService_SummariesMostRecentFirst(t *testing.T) {
	req := require.New(t)
	f := newConvFixture(t)
	ctx := context.Background()

	carol := &domain.User{Email: "carol@example.com", Username: "carol", PasswordHash: "h"}
	req.NoError(f.users.Create(ctx, carol))

	withBob, err := f.svc.CreateConversation(ctx, f.alice.ID, f.bob.ID)
	req.NoError(err)
	withCarol, err := f.svc.CreateConversation(ctx, f.alice.ID, carol.ID)
	req.NoError(err)

	_, err = f.svc.AppendMessage(ctx, withBob.ID, f.alice.ID, "latest activity")
	req.NoError(err)

	summaries, err := f.svc.ListConversations(ctx, f.alice.ID)
	req.NoError(err)
	req.Len(summaries, 2)
	req.Equal(withBob.ID, summaries[0].ID)
	req.Equal("latest activity", summaries[0].LastMessage.Body)
	req.Equal(withCarol.ID, summaries[1].ID)
	req.Nil(summaries[1].LastMessage)
}
