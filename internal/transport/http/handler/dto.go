package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
)

// price is accepted as a JSON number or a numeric string: the SPA posts form values as text.
type price float64

func (p *price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*p = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || !finite(f) {
			return fmt.Errorf("price %q is not a number", s)
		}
		*p = price(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.New("price is not a number")
	}
	*p = price(f)
	return nil
}

// finite rejects NaN and ±Inf, which encoding/json cannot write back out.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

type fullname struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

type identityResponse struct {
	ID         string      `json:"_id"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	Fullname   fullname    `json:"fullname"`
	Phone      string      `json:"phone,omitempty"`
	City       string      `json:"city,omitempty"`
	ProfilePic string      `json:"profilePic,omitempty"`
	Arts       []string    `json:"arts,omitempty"`
	Saved      []string    `json:"saved,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func newIdentityResponse(i *domain.Identity) identityResponse {
	return identityResponse{
		ID:         i.ID,
		Email:      i.Email,
		Role:       i.Role,
		Fullname:   fullname{FirstName: i.FirstName, LastName: i.LastName},
		Phone:      i.Phone,
		City:       i.City,
		ProfilePic: i.ProfilePic,
		Arts:       i.OwnedListingIDs,
		Saved:      i.SavedListingIDs,
		CreatedAt:  i.CreatedAt,
	}
}

// populatedIdentityResponse replaces the id sets with the listings they reference.
type populatedIdentityResponse struct {
	identityResponse
	Arts  []listingResponse `json:"arts,omitempty"`
	Saved []listingResponse `json:"saved,omitempty"`
}

type listingResponse struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Location    string    `json:"location"`
	Country     string    `json:"country"`
	TypeOfArt   string    `json:"typeOfArt"`
	Price       float64   `json:"price"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newListingResponse(l *domain.Listing) listingResponse {
	return listingResponse{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Image:       l.ImageURL,
		Location:    l.Location,
		Country:     l.Country,
		TypeOfArt:   l.TypeOfArt,
		Price:       l.Price,
		Owner:       l.OwnerID,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func newListingResponses(ls []*domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, newListingResponse(l))
	}
	return out
}

// listingDetailResponse carries the owner's profile in place of the owner id.
type listingDetailResponse struct {
	listingResponse
	Owner any `json:"owner"`
}
