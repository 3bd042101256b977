package http

import (
	"mime/multipart"
	"net/http"

	"collabnet/internal/entity"
	"collabnet/internal/usecase"
	"collabnet/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	contentUseCase usecase.ContentUseCase
	logger         *logger.Logger
}

func NewContentHandler(contentUseCase usecase.ContentUseCase, logger *logger.Logger) *ContentHandler {
	return &ContentHandler{
		contentUseCase: contentUseCase,
		logger:         logger,
	}
}

type CreatePostRequest struct {
	Title          string `form:"title" binding:"required"`
	Body           string `form:"body"`
	GroupID        string `form:"group_id"`
	OrganizationID string `form:"organization_id"`
	Tier           string `form:"tier" binding:"omitempty,oneof=public members_only admins_only"`
	Pinned         bool   `form:"pinned"`
}

// CreatePost godoc
// @Summary      Create a post
// @Description  Create a post in the caller's personal feed, a group or an organization. Personal posts are always public.
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string true "Post title"
// @Param        body formData string false "Post body"
// @Param        group_id formData string false "Group to post into"
// @Param        organization_id formData string false "Organization to post into"
// @Param        tier formData string false "Visibility tier" Enums(public, members_only, admins_only)
// @Param        pinned formData bool false "Pin inside the group"
// @Param        media formData file false "Single media file"
// @Param        images formData file false "Image files, multiple allowed"
// @Success      201  {object}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts [post]
func (h *ContentHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := usecase.CreatePostInput{
		GroupID:        req.GroupID,
		OrganizationID: req.OrganizationID,
		Tier:           entity.Tier(req.Tier),
		Title:          req.Title,
		Body:           req.Body,
		Pinned:         req.Pinned,
	}

	if file, err := c.FormFile("media"); err == nil {
		upload, openErr := openUpload(file)
		if openErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read media file"})
			return
		}
		input.Media = upload
	}

	if form, err := c.MultipartForm(); err == nil {
		for _, file := range form.File["images"] {
			upload, openErr := openUpload(file)
			if openErr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image file"})
				return
			}
			input.Images = append(input.Images, *upload)
		}
	}

	post, err := h.contentUseCase.CreatePost(callerRef(c), input)
	if err != nil {
		h.logger.Error("Failed to create post: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func openUpload(file *multipart.FileHeader) (*usecase.MediaUpload, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	return &usecase.MediaUpload{
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Body:        f,
	}, nil
}

// GetPost godoc
// @Summary      Get post by ID
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.Post
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *ContentHandler) GetPost(c *gin.Context) {
	post, err := h.contentUseCase.GetPost(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// ListAuthorPosts godoc
// @Summary      List posts by author
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        kind path string true "Author kind" Enums(individual, organization)
// @Param        id path string true "Author ID"
// @Param        limit query int false "Number of posts to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Router       /posts/author/{kind}/{id} [get]
func (h *ContentHandler) ListAuthorPosts(c *gin.Context) {
	limit, offset := pagination(c)
	author := entity.ActorRef{
		ID:   c.Param("id"),
		Kind: entity.ActorKind(c.Param("kind")),
	}

	posts, err := h.contentUseCase.ListByAuthor(author, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list author posts: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts), "offset": offset})
}

// DeletePost godoc
// @Summary      Delete a post
// @Description  Only the author can delete their own posts.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *ContentHandler) DeletePost(c *gin.Context) {
	if err := h.contentUseCase.DeletePost(c.Param("id"), callerRef(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
