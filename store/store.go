package store

import (
	"context"
	"errors"

	"moviematch-bot/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a username does not resolve to a
// registered user.
var ErrNotFound = errors.New("user not found")

// Store owns all reads and writes for users, connections and likes.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// UpsertUser registers a user on first contact. A user that already
// exists is left untouched, including the username recorded back then.
func (s *Store) UpsertUser(ctx context.Context, id int64, username string) error {
	user := model.User{ID: id, Username: username}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&user).Error
}

// ResolveHandle maps a username to the user identifier. Every operation
// that accepts a partner handle goes through here. The empty handle is
// never resolvable, even though users registered without a Telegram
// username are stored with one.
func (s *Store) ResolveHandle(ctx context.Context, handle string) (int64, error) {
	if handle == "" {
		return 0, ErrNotFound
	}
	user := new(model.User)
	err := s.db.WithContext(ctx).
		Where("username = ?", handle).
		First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// AddConnection links userID to the user behind handle. Inserting the
// same edge twice is a no-op.
func (s *Store) AddConnection(ctx context.Context, userID int64, handle string) error {
	partnerID, err := s.ResolveHandle(ctx, handle)
	if err != nil {
		return err
	}
	conn := model.Connection{UserID: userID, PartnerID: partnerID}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&conn).Error
}

// ListConnections returns the usernames linked from userID, sorted so
// menu rendering is stable between calls.
func (s *Store) ListConnections(ctx context.Context, userID int64) ([]string, error) {
	var handles []string
	err := s.db.WithContext(ctx).
		Table("connections").
		Joins("JOIN users ON users.id = connections.partner_id").
		Where("connections.user_id = ?", userID).
		Order("users.username").
		Pluck("users.username", &handles).Error
	return handles, err
}

// DeleteConnection removes the edge to the user behind handle. A missing
// edge is not an error; an unknown handle is.
func (s *Store) DeleteConnection(ctx context.Context, userID int64, handle string) error {
	partnerID, err := s.ResolveHandle(ctx, handle)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("user_id = ? AND partner_id = ?", userID, partnerID).
		Delete(&model.Connection{}).Error
}

// AddLike records that a user liked a movie. Liking the same movie
// again is a no-op.
func (s *Store) AddLike(ctx context.Context, userID int64, movieID int64) error {
	like := model.Like{UserID: userID, MovieID: movieID}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
}

// MutualLikes returns the movie identifiers liked by both userID and
// the user behind handle. The like table's composite key keeps the
// result a set; ordering is fixed for stable rendering.
func (s *Store) MutualLikes(ctx context.Context, userID int64, handle string) ([]int64, error) {
	partnerID, err := s.ResolveHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	var movieIDs []int64
	err = s.db.WithContext(ctx).Raw(`
		SELECT movie_id FROM likes WHERE user_id = ?
		INTERSECT
		SELECT movie_id FROM likes WHERE user_id = ?
		ORDER BY movie_id`,
		userID, partnerID,
	).Scan(&movieIDs).Error
	return movieIDs, err
}

// ListUserIDs returns every registered user identifier. Used by the
// broadcast listener to fan an announcement out.
func (s *Store) ListUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}
