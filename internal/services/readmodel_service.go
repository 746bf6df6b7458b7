package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"rental-backend/internal/cache"
	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
	"rental-backend/internal/views"
)

// ReadModelService fetches the raw collections, hands them to the
// aggregator and caches the hot composites in redis. Caching is best
// effort; a cold or absent redis just means recomputing.
type ReadModelService struct {
	Apartments *repositories.ApartmentRepository
	Payments   *repositories.PaymentRepository
	Contracts  *repositories.ContractRepository
	Users      *repositories.UserRepository
	Relations  *repositories.RelationRepository
	Aggregator *AggregationService
}

func NewReadModelService(
	apartments *repositories.ApartmentRepository,
	payments *repositories.PaymentRepository,
	contracts *repositories.ContractRepository,
	users *repositories.UserRepository,
	relations *repositories.RelationRepository,
	aggregator *AggregationService,
) *ReadModelService {
	return &ReadModelService{
		Apartments: apartments,
		Payments:   payments,
		Contracts:  contracts,
		Users:      users,
		Relations:  relations,
		Aggregator: aggregator,
	}
}

// Listings returns the public board for every apartment.
func (s *ReadModelService) Listings(ctx context.Context) ([]views.ApartmentListing, error) {
	if data, ok := cache.GetCachedListings(ctx); ok {
		var cached []views.ApartmentListing
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		log.Printf("[ReadModel] discarding corrupt cached listings")
	}

	apartments, err := s.Apartments.List(ctx)
	if err != nil {
		return nil, err
	}
	listings := make([]views.ApartmentListing, 0, len(apartments))
	for _, a := range apartments {
		listing, err := s.Aggregator.AggregateApartmentListing(a)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}

	if data, err := json.Marshal(listings); err == nil {
		cache.CacheListings(ctx, data)
	}
	return listings, nil
}

// ApartmentWithPaymentInfo is the per-unit dashboard row.
func (s *ReadModelService) ApartmentWithPaymentInfo(ctx context.Context, unitCode string) (views.ApartmentWithPaymentInfo, error) {
	key := fmt.Sprintf(cache.PaymentInfoKeyFmt, unitCode)
	if data, ok := cache.GetCached(ctx, key); ok {
		var cached views.ApartmentWithPaymentInfo
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		log.Printf("[ReadModel] discarding corrupt cached payment info for %s", unitCode)
	}

	apartment, err := s.Apartments.Get(ctx, unitCode)
	if err != nil {
		return views.ApartmentWithPaymentInfo{}, err
	}
	payments, err := s.Payments.GetByUnitCode(ctx, unitCode)
	if err != nil {
		return views.ApartmentWithPaymentInfo{}, err
	}
	info, err := s.Aggregator.AggregateApartmentWithPaymentInfo(apartment, payments)
	if err != nil {
		return views.ApartmentWithPaymentInfo{}, err
	}
	if data, err := json.Marshal(info); err == nil {
		cache.Cache(ctx, key, data, 2*time.Minute)
	}
	return info, nil
}

// ApartmentsWithPaymentInfo is the dashboard over every apartment, sorted
// by unit code.
func (s *ReadModelService) ApartmentsWithPaymentInfo(ctx context.Context) ([]views.ApartmentWithPaymentInfo, error) {
	apartments, err := s.Apartments.List(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.Payments.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.Aggregator.AggregateApartmentsWithPaymentInfo(apartments, payments)
}

// ApartmentDetails is the consolidated single-apartment page.
func (s *ReadModelService) ApartmentDetails(ctx context.Context, unitCode string) (views.ApartmentDetails, error) {
	if data, ok := cache.GetCachedDetails(ctx, unitCode); ok {
		var cached views.ApartmentDetails
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		log.Printf("[ReadModel] discarding corrupt cached details for %s", unitCode)
	}

	apartment, err := s.Apartments.Get(ctx, unitCode)
	if err != nil {
		return views.ApartmentDetails{}, err
	}
	relations, err := s.Relations.GetByUnitCode(ctx, unitCode)
	if err != nil {
		return views.ApartmentDetails{}, err
	}
	users, err := s.usersForRelations(ctx, relations)
	if err != nil {
		return views.ApartmentDetails{}, err
	}
	contracts, err := s.Contracts.GetByUnitCode(ctx, unitCode)
	if err != nil {
		return views.ApartmentDetails{}, err
	}
	payments, err := s.Payments.GetByUnitCode(ctx, unitCode)
	if err != nil {
		return views.ApartmentDetails{}, err
	}

	details, err := s.Aggregator.AggregateApartmentDetails(apartment, users, relations, contracts, payments)
	if err != nil {
		return views.ApartmentDetails{}, err
	}
	if data, err := json.Marshal(details); err == nil {
		cache.CacheDetails(ctx, unitCode, data)
	}
	return details, nil
}

// ApartmentLog is the audit timeline plus occupancy and revenue statistics.
func (s *ReadModelService) ApartmentLog(ctx context.Context, unitCode string) (views.ApartmentLog, error) {
	apartment, err := s.Apartments.Get(ctx, unitCode)
	if err != nil {
		return views.ApartmentLog{}, err
	}
	contracts, err := s.Contracts.GetByUnitCode(ctx, unitCode)
	if err != nil {
		return views.ApartmentLog{}, err
	}
	payments, err := s.Payments.GetByUnitCode(ctx, unitCode)
	if err != nil {
		return views.ApartmentLog{}, err
	}
	relations, err := s.Relations.GetByUnitCode(ctx, unitCode)
	if err != nil {
		return views.ApartmentLog{}, err
	}
	return s.Aggregator.AggregateApartmentLog(apartment, contracts, payments, relations)
}

func (s *ReadModelService) usersForRelations(ctx context.Context, relations []*models.UserApartmentRelation) ([]*models.User, error) {
	if len(relations) == 0 {
		return nil, nil
	}
	seen := make(map[models.Phone]bool, len(relations))
	phones := make([]string, 0, len(relations))
	for _, rel := range relations {
		if !seen[rel.Phone()] {
			seen[rel.Phone()] = true
			phones = append(phones, string(rel.Phone()))
		}
	}
	return s.Users.GetByPhones(ctx, phones)
}
