package adminpanel

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) ListFilmworks(ctx context.Context, page, size int) ([]Filmwork, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Filmwork{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var films []Filmwork
	tx := r.db.WithContext(ctx).
		Preload("Genres").
		Order("title").
		Offset((page - 1) * size).
		Limit(size).
		Find(&films)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return films, total, nil
}

func (r *ContentRepository) GetFilmwork(ctx context.Context, id string) (*Filmwork, error) {
	var film Filmwork
	tx := r.db.WithContext(ctx).Preload("Genres").First(&film, "id = ?", id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &film, nil
}

func (r *ContentRepository) CreateFilmwork(ctx context.Context, film *Filmwork) error {
	if film.ID == "" {
		film.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(film).Error
}

func (r *ContentRepository) UpdateFilmwork(ctx context.Context, film *Filmwork) error {
	return r.db.WithContext(ctx).Save(film).Error
}

func (r *ContentRepository) DeleteFilmwork(ctx context.Context, id string) error {
	film, err := r.GetFilmwork(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Model(film).Association("Genres").Clear(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(film).Error
}

func (r *ContentRepository) ListGenres(ctx context.Context) ([]Genre, error) {
	var genres []Genre
	tx := r.db.WithContext(ctx).Order("name").Find(&genres)
	return genres, tx.Error
}

func (r *ContentRepository) CreateGenre(ctx context.Context, genre *Genre) error {
	if genre.ID == "" {
		genre.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(genre).Error
}

func (r *ContentRepository) DeleteGenre(ctx context.Context, id string) error {
	var genre Genre
	if err := r.db.WithContext(ctx).First(&genre, "id = ?", id).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&genre).Error
}
