package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/picture-gallery/internal/model"
)

var (
	ErrPictureNotFound = errors.New("picture not found")
)

type PictureRepository interface {
	Create(ctx context.Context, picture *model.Picture) error
	ByID(ctx context.Context, id int64) (*model.Picture, error)
	All(ctx context.Context) ([]*model.Picture, error)
	ByUser(ctx context.Context, userID int64) ([]*model.Picture, error)
	Delete(ctx context.Context, id int64) error
	ImagePaths(ctx context.Context) ([]string, error)
}

type pictureRepository struct {
	db *sqlx.DB
}

func NewPictureRepository(db *sqlx.DB) PictureRepository {
	return &pictureRepository{db: db}
}

const pictureColumns = `id, user_id, user_name, title, contents, image_path, created_at`

// Newest first; ties keep insertion order.
const pictureOrder = `ORDER BY created_at DESC, id ASC`

func (r *pictureRepository) Create(ctx context.Context, picture *model.Picture) error {
	query := `INSERT INTO picture (user_id, user_name, title, contents, image_path, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	return r.db.QueryRowxContext(ctx, query,
		picture.UserID,
		picture.UserName,
		picture.Title,
		picture.Contents,
		picture.ImagePath,
		picture.CreatedAt.UTC(),
	).Scan(&picture.ID)
}

func (r *pictureRepository) ByID(ctx context.Context, id int64) (*model.Picture, error) {
	picture := &model.Picture{}
	query := `SELECT ` + pictureColumns + ` FROM picture WHERE id = $1`

	err := r.db.GetContext(ctx, picture, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPictureNotFound
	}
	if err != nil {
		return nil, err
	}

	return picture, nil
}

func (r *pictureRepository) All(ctx context.Context) ([]*model.Picture, error) {
	pictures := []*model.Picture{}
	query := `SELECT ` + pictureColumns + ` FROM picture ` + pictureOrder

	err := r.db.SelectContext(ctx, &pictures, query)
	if err != nil {
		return nil, err
	}

	return pictures, nil
}

func (r *pictureRepository) ByUser(ctx context.Context, userID int64) ([]*model.Picture, error) {
	pictures := []*model.Picture{}
	query := `SELECT ` + pictureColumns + ` FROM picture WHERE user_id = $1 ` + pictureOrder

	err := r.db.SelectContext(ctx, &pictures, query, userID)
	if err != nil {
		return nil, err
	}

	return pictures, nil
}

func (r *pictureRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM picture WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPictureNotFound
	}

	return nil
}

// ImagePaths returns every object key still referenced by a picture row.
func (r *pictureRepository) ImagePaths(ctx context.Context) ([]string, error) {
	var paths []string
	query := `SELECT image_path FROM picture`

	err := r.db.SelectContext(ctx, &paths, query)
	if err != nil {
		return nil, err
	}

	return paths, nil
}
