package usecase

import (
	"fmt"
	"io"
	"path/filepath"

	"collabnet/internal/entity"
	"collabnet/internal/repo/persistent"
	"collabnet/pkg/logger"
	"collabnet/pkg/s3"

	"github.com/google/uuid"
)

// MediaUpload is one file attached to a post at creation time.
type MediaUpload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

type CreatePostInput struct {
	GroupID        string
	OrganizationID string
	Tier           entity.Tier
	Title          string
	Body           string
	Pinned         bool
	Media          *MediaUpload
	Images         []MediaUpload
}

type ContentUseCase interface {
	CreatePost(author entity.ActorRef, input CreatePostInput) (*entity.Post, error)
	GetPost(id string) (*entity.Post, error)
	ListByAuthor(author entity.ActorRef, limit, offset int) ([]*entity.Post, error)
	DeletePost(id string, caller entity.ActorRef) error
}

type contentUseCase struct {
	postRepo       persistent.PostRepository
	membershipRepo persistent.MembershipRepository
	s3Client       *s3.Client
	logger         *logger.Logger
}

func NewContentUseCase(
	postRepo persistent.PostRepository,
	membershipRepo persistent.MembershipRepository,
	s3Client *s3.Client,
	logger *logger.Logger,
) ContentUseCase {
	return &contentUseCase{
		postRepo:       postRepo,
		membershipRepo: membershipRepo,
		s3Client:       s3Client,
		logger:         logger,
	}
}

// CreatePost validates the channel the author writes into, uploads any media,
// and persists the post with its images in one transaction. Personal posts
// (no group, no organization) are always public; a requested tier on them is
// ignored.
func (uc *contentUseCase) CreatePost(author entity.ActorRef, input CreatePostInput) (*entity.Post, error) {
	if input.GroupID != "" && input.OrganizationID != "" {
		return nil, entity.ErrInvalidState
	}

	tier := input.Tier
	if tier == "" {
		tier = entity.TierPublic
	}
	if !tier.Valid() {
		return nil, entity.ErrInvalidState
	}

	switch {
	case input.GroupID != "":
		groups, err := uc.membershipRepo.GroupMembershipsOf(author)
		if err != nil {
			return nil, fmt.Errorf("failed to load group memberships: %w", err)
		}
		if !contains(groups.MemberOf, input.GroupID) {
			return nil, entity.ErrNotAddressedToCaller
		}
		if tier == entity.TierAdminsOnly && !contains(groups.AdminOf, input.GroupID) {
			return nil, entity.ErrNotAddressedToCaller
		}
	case input.OrganizationID != "":
		if author.Kind == entity.ActorOrganization {
			if author.ID != input.OrganizationID {
				return nil, entity.ErrNotAddressedToCaller
			}
		} else {
			orgs, err := uc.membershipRepo.OrganizationMembershipsOf(author)
			if err != nil {
				return nil, fmt.Errorf("failed to load organization memberships: %w", err)
			}
			if !contains(orgs, input.OrganizationID) {
				return nil, entity.ErrNotAddressedToCaller
			}
		}
	}

	post := &entity.Post{
		Author:         author,
		GroupID:        input.GroupID,
		OrganizationID: input.OrganizationID,
		Tier:           tier,
		Title:          input.Title,
		Body:           input.Body,
		Pinned:         input.Pinned && input.GroupID != "",
	}
	if post.IsPersonal() {
		post.Tier = entity.TierPublic
	}

	if input.Media != nil {
		url, err := uc.upload("posts", *input.Media)
		if err != nil {
			return nil, err
		}
		post.MediaURL = url
	}

	for i, img := range input.Images {
		url, err := uc.upload("post-images", img)
		if err != nil {
			return nil, err
		}
		post.Images = append(post.Images, entity.PostImage{
			ImageURL: url,
			Position: i,
		})
	}

	if err := uc.postRepo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (uc *contentUseCase) GetPost(id string) (*entity.Post, error) {
	return uc.postRepo.GetByID(id)
}

func (uc *contentUseCase) ListByAuthor(author entity.ActorRef, limit, offset int) ([]*entity.Post, error) {
	return uc.postRepo.ListByAuthor(author, limit, offset)
}

func (uc *contentUseCase) DeletePost(id string, caller entity.ActorRef) error {
	post, err := uc.postRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !post.Author.Equal(caller) {
		return entity.ErrNotAddressedToCaller
	}
	return uc.postRepo.Delete(id)
}

func (uc *contentUseCase) upload(prefix string, media MediaUpload) (string, error) {
	if uc.s3Client == nil {
		return "", fmt.Errorf("media storage is not configured")
	}

	key := fmt.Sprintf("%s/%s%s", prefix, uuid.New().String(), filepath.Ext(media.FileName))
	url, err := uc.s3Client.UploadObject(key, media.Body, media.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload media: %w", err)
	}
	return url, nil
}

func contains(items []string, target string) bool {
	for _, it := range items {
		if it == target {
			return true
		}
	}
	return false
}
