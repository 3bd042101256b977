package persistent

import (
	"errors"

	"collabnet/internal/entity"
	"collabnet/internal/model"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(post *entity.Post) error
	GetByID(id string) (*entity.Post, error)
	ListByAuthor(author entity.ActorRef, limit, offset int) ([]*entity.Post, error)
	Delete(id string) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *entity.Post) error {
	postModel := ToPostModel(post)

	return r.db.Transaction(func(tx *gorm.DB) error {
		images := postModel.Images
		postModel.Images = nil

		if err := tx.Create(postModel).Error; err != nil {
			return err
		}

		for i := range images {
			images[i].PostID = postModel.ID
			if err := tx.Create(&images[i]).Error; err != nil {
				return err
			}
		}
		postModel.Images = images

		*post = *ToPostEntity(postModel)
		return nil
	})
}

func (r *postRepository) GetByID(id string) (*entity.Post, error) {
	var m model.PostModel
	err := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("post_images.position ASC")
	}).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToPostEntity(&m), nil
}

func (r *postRepository) ListByAuthor(author entity.ActorRef, limit, offset int) ([]*entity.Post, error) {
	var items []model.PostModel
	query := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("post_images.position ASC")
	}).Where("author_id = ? AND author_kind = ?", author.ID, author.Kind).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(items))
	for i := range items {
		posts[i] = ToPostEntity(&items[i])
	}
	return posts, nil
}

func (r *postRepository) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&model.PostModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}
