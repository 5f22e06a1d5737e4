package usecase_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/repository"
)

// memStore is an in-memory IdentityRepository + ListingRepository with the
// same observable semantics as the database-backed ones.
type memStore struct {
	mu         sync.Mutex
	seq        int
	identities map[string]*domain.Identity
	listings   map[string]*domain.Listing
	order      []string // listing ids, oldest first
}

func newMemStore() *memStore {
	return &memStore{identities: map[string]*domain.Identity{}, listings: map[string]*domain.Listing{}}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func cloneIdentity(i *domain.Identity) *domain.Identity {
	c := *i
	c.OwnedListingIDs = slices.Clone(i.OwnedListingIDs)
	c.SavedListingIDs = slices.Clone(i.SavedListingIDs)
	return &c
}

func cloneListing(l *domain.Listing) *domain.Listing {
	c := *l
	return &c
}

var (
	_ repository.IdentityRepository = (*memStore)(nil)
	_ repository.ListingRepository  = (*memListings)(nil)
)

func (s *memStore) Create(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.identities {
		if existing.Email == identity.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	c := cloneIdentity(identity)
	c.ID = s.nextID("id")
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.identities[c.ID] = c
	return cloneIdentity(c), nil
}

func (s *memStore) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, i := range s.identities {
		if i.Email == email {
			return cloneIdentity(i), nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (s *memStore) FindByID(_ context.Context, id string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.identities[id]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return cloneIdentity(i), nil
}

func (s *memStore) SaveListing(_ context.Context, identityID, listingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.identities[identityID]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	if _, ok := s.listings[listingID]; !ok {
		return domain.ErrListingNotFound
	}
	if !slices.Contains(i.SavedListingIDs, listingID) {
		i.SavedListingIDs = append(i.SavedListingIDs, listingID)
	}
	return nil
}

func (s *memStore) UnsaveListing(_ context.Context, identityID, listingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.identities[identityID]; ok {
		i.SavedListingIDs = slices.DeleteFunc(i.SavedListingIDs, func(id string) bool { return id == listingID })
	}
	return nil
}

// memListings shares the store but exposes the ListingRepository method set,
// whose Create signature differs from the identity one.
type memListings struct{ *memStore }

func (s memListings) Create(_ context.Context, listing *domain.Listing) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cloneListing(listing)
	c.ID = s.nextID("listing")
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.listings[c.ID] = c
	s.order = append(s.order, c.ID)
	if owner, ok := s.identities[c.OwnerID]; ok {
		owner.OwnedListingIDs = append(owner.OwnedListingIDs, c.ID)
	}
	return cloneListing(c), nil
}

func (s memListings) GetByID(_ context.Context, id string) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return cloneListing(l), nil
}

func (s memListings) List(_ context.Context, input repository.ListListingsInput) ([]*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*domain.Listing{}
	for i := len(s.order) - 1; i >= 0; i-- {
		l, ok := s.listings[s.order[i]]
		if !ok {
			continue
		}
		if input.TypeOfArt != "" && l.TypeOfArt != input.TypeOfArt {
			continue
		}
		if input.IDs != nil && !slices.Contains(input.IDs, l.ID) {
			continue
		}
		out = append(out, cloneListing(l))
	}
	return out, nil
}

func (s memListings) Update(_ context.Context, id, ownerID string, p domain.ListingPatch) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok || l.OwnerID != ownerID {
		return nil, domain.ErrListingNotFound
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&l.Title, p.Title)
	set(&l.Description, p.Description)
	set(&l.ImageURL, p.ImageURL)
	set(&l.Location, p.Location)
	set(&l.Country, p.Country)
	set(&l.TypeOfArt, p.TypeOfArt)
	if p.Price != nil {
		l.Price = *p.Price
	}
	l.UpdatedAt = time.Now()
	return cloneListing(l), nil
}

func (s memListings) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok || l.OwnerID != ownerID {
		return domain.ErrListingNotFound
	}
	delete(s.listings, id)
	drop := func(ids []string) []string {
		return slices.DeleteFunc(ids, func(v string) bool { return v == id })
	}
	for _, i := range s.identities {
		i.OwnedListingIDs = drop(i.OwnedListingIDs)
		i.SavedListingIDs = drop(i.SavedListingIDs)
	}
	return nil
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeEmailSender) Send(_ context.Context, to, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return f.err
}
