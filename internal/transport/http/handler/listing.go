package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/transport/http/middleware"
	"github.com/ErlanBelekov/art-marketplace/internal/usecase"
	"github.com/gin-gonic/gin"
)

type listingUsecaser interface {
	Create(ctx context.Context, owner *domain.Identity, input usecase.CreateListingInput) (*domain.Listing, error)
	Update(ctx context.Context, id string, requester *domain.Identity, patch domain.ListingPatch) (*domain.Listing, error)
	Delete(ctx context.Context, id string, requester *domain.Identity) (*domain.Listing, error)
	CheckOwner(ctx context.Context, id string, requester *domain.Identity) error
	Show(ctx context.Context, id string) (*usecase.ListingDetail, error)
	List(ctx context.Context, input usecase.ListListingsInput) ([]*domain.Listing, error)
	Save(ctx context.Context, identity *domain.Identity, listingID string) ([]string, error)
	Unsave(ctx context.Context, identity *domain.Identity, listingID string) ([]string, error)
}

type ListingHandler struct {
	listingUsecase listingUsecaser
	logger         *slog.Logger
}

func NewListingHandler(listingUsecase listingUsecaser, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{listingUsecase: listingUsecase, logger: logger.With("component", "listing_handler")}
}

type createListingRequest struct {
	Title       string `json:"title"       binding:"required,min=3"`
	Description string `json:"description" binding:"required,min=5"`
	Image       string `json:"image"       binding:"required"`
	Location    string `json:"location"`
	Country     string `json:"country"`
	TypeOfArt   string `json:"typeOfArt"   binding:"required,min=2"`
	Price       price  `json:"price"`
}

// Absent fields are left untouched; present ones follow the create rules.
type updateListingRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=3"`
	Description *string `json:"description" binding:"omitempty,min=5"`
	Image       *string `json:"image"       binding:"omitempty,min=1"`
	Location    *string `json:"location"`
	Country     *string `json:"country"`
	TypeOfArt   *string `json:"typeOfArt"   binding:"omitempty,min=2"`
	Price       *price  `json:"price"`
}

func (r updateListingRequest) patch() domain.ListingPatch {
	p := domain.ListingPatch{
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.Image,
		Location:    r.Location,
		Country:     r.Country,
		TypeOfArt:   r.TypeOfArt,
	}
	if r.Price != nil {
		v := float64(*r.Price)
		p.Price = &v
	}
	return p
}

// requester returns the identity set by middleware.Auth, writing 401 when absent.
func (h *ListingHandler) requester(c *gin.Context) (*domain.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, h.logger, "requester", domain.ErrUnauthorized)
	}
	return identity, ok
}

// POST /artist/create
func (h *ListingHandler) Create(c *gin.Context) {
	owner, ok := h.requester(c)
	if !ok {
		return
	}
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	listing, err := h.listingUsecase.Create(c.Request.Context(), owner, usecase.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.Image,
		Location:    req.Location,
		Country:     req.Country,
		TypeOfArt:   req.TypeOfArt,
		Price:       float64(req.Price),
	})
	if err != nil {
		writeError(c, h.logger, "create listing", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"listing": newListingResponse(listing)})
}

// PUT /artist/update/:id
func (h *ListingHandler) Update(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}
	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	listing, err := h.listingUsecase.Update(c.Request.Context(), c.Param("id"), requester, req.patch())
	if err != nil {
		writeError(c, h.logger, "update listing", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listing": newListingResponse(listing)})
}

// DELETE /artist/delete/:id
func (h *ListingHandler) Delete(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	listing, err := h.listingUsecase.Delete(c.Request.Context(), c.Param("id"), requester)
	if err != nil {
		writeError(c, h.logger, "delete listing", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listing": newListingResponse(listing)})
}

// GET /artist/artOwner/:id
func (h *ListingHandler) ArtOwner(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	if err := h.listingUsecase.CheckOwner(c.Request.Context(), c.Param("id"), requester); err != nil {
		writeError(c, h.logger, "check owner", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"owner": true})
}

// GET /artist/show?typeOfArt=
func (h *ListingHandler) List(c *gin.Context) {
	listings, err := h.listingUsecase.List(c.Request.Context(), usecase.ListListingsInput{
		TypeOfArt: c.Query("typeOfArt"),
	})
	if err != nil {
		writeError(c, h.logger, "list listings", err)
		return
	}

	c.JSON(http.StatusOK, newListingResponses(listings))
}

// GET /artist/show/:id
func (h *ListingHandler) Show(c *gin.Context) {
	detail, err := h.listingUsecase.Show(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "show listing", err)
		return
	}

	resp := listingDetailResponse{listingResponse: newListingResponse(detail.Listing), Owner: detail.Listing.OwnerID}
	if detail.Owner != nil {
		resp.Owner = newIdentityResponse(detail.Owner)
	}
	c.JSON(http.StatusOK, resp)
}

// POST /user/save/:id
func (h *ListingHandler) Save(c *gin.Context) {
	identity, ok := h.requester(c)
	if !ok {
		return
	}

	saved, err := h.listingUsecase.Save(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "save listing", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

// DELETE /user/save/:id
func (h *ListingHandler) Unsave(c *gin.Context) {
	identity, ok := h.requester(c)
	if !ok {
		return
	}

	saved, err := h.listingUsecase.Unsave(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "unsave listing", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": saved})
}
