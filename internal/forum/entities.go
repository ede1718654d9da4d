package forum

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matheusmosca/bookstore-api/internal/auth"
)

// Categorias reconhecidas de posts do fórum
const (
	CategoryGeneral    = "general"
	CategoryQuestion   = "question"
	CategoryReview     = "review"
	CategoryDiscussion = "discussion"
)

var (
	// ErrPostNotFound indica que o post não existe
	ErrPostNotFound = errors.New("post not found")
	// ErrInvalidCategory indica categoria fora do conjunto reconhecido
	ErrInvalidCategory = errors.New("invalid post category")
	// ErrNotAuthor indica edição/remoção por quem não tem permissão
	ErrNotAuthor = errors.New("not the post author")
)

// ValidCategory indica se a categoria pertence ao conjunto reconhecido
func ValidCategory(category string) bool {
	switch category {
	case CategoryGeneral, CategoryQuestion, CategoryReview, CategoryDiscussion:
		return true
	}
	return false
}

// Comment representa um comentário em um post
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Post representa um tópico de discussão do fórum
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	Likes      int       `json:"likes"`
	Comments   []Comment `json:"comments"`
	Views      int       `json:"views"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// EditableBy indica se a identidade pode editar o post (somente autor)
func (p *Post) EditableBy(claims auth.Claims) bool {
	return claims.UserID == p.AuthorID
}

// DeletableBy indica se a identidade pode remover o post (autor ou admin)
func (p *Post) DeletableBy(claims auth.Claims) bool {
	return claims.IsAdmin() || claims.UserID == p.AuthorID
}

// PostRequest representa criação e edição de posts
type PostRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Category string   `json:"category" binding:"required"`
	Tags     []string `json:"tags"`
}

// NewPost cria um novo post a partir da requisição
func NewPost(req PostRequest, author auth.Claims) *Post {
	now := time.Now()
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	return &Post{
		ID:         uuid.New().String(),
		Title:      req.Title,
		Content:    req.Content,
		AuthorID:   author.UserID,
		AuthorName: author.Username,
		Category:   req.Category,
		Tags:       tags,
		Comments:   []Comment{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewComment cria um novo comentário
func NewComment(postID, content string, author auth.Claims) *Comment {
	return &Comment{
		ID:         uuid.New().String(),
		PostID:     postID,
		AuthorID:   author.UserID,
		AuthorName: author.Username,
		Content:    content,
		CreatedAt:  time.Now(),
	}
}

// ListFilter restringe e pagina a listagem de posts
type ListFilter struct {
	Page     int
	Limit    int
	Category string
	Tag      string
	Search   string
}

// PostPage é a resposta paginada da listagem
type PostPage struct {
	Posts       []Post `json:"posts"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
}
