package services

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils"
	"parking-marketplace-backend/utils/apperr"
	"parking-marketplace-backend/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultNearbyRadiusKm = 5.0
	MaxNearbyRadiusKm     = 50.0
	NearbyCacheTTL        = time.Minute
)

type SpaceStore interface {
	CreateSpace(ctx context.Context, space *models.ParkingSpace) error
	GetSpace(ctx context.Context, id uuid.UUID) (*models.ParkingSpace, error)
	SaveSpace(ctx context.Context, space *models.ParkingSpace) error
	// ListSpacesInBox returns available spaces inside the lat/lng rectangle.
	ListSpacesInBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64) ([]models.ParkingSpace, error)
	ListSpacesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ParkingSpace, error)
	ListAllSpaces(ctx context.Context) ([]models.ParkingSpace, error)
}

type SpaceIndexer interface {
	IndexSpace(space models.ParkingSpace) error
	IndexSpaces(spaces []models.ParkingSpace) error
	SearchSpaces(text, city string, limit, offset int) ([]uuid.UUID, uint64, error)
}

type CreateSpaceInput struct {
	Title       string             `json:"title" validate:"required,max=200"`
	Description *string            `json:"description" validate:"omitempty,max=2000"`
	SpaceType   models.SpaceType   `json:"space_type" validate:"omitempty,oneof=driveway garage lot street"`
	Address     string             `json:"address" validate:"required,max=300"`
	City        string             `json:"city" validate:"required,max=100"`
	Latitude    *float64           `json:"latitude" validate:"required,latitude"`
	Longitude   *float64           `json:"longitude" validate:"required,longitude"`
	HourlyRate  decimal.Decimal    `json:"hourly_rate"`
	DailyRate   decimal.Decimal    `json:"daily_rate"`
	MonthlyRate decimal.Decimal    `json:"monthly_rate"`
	Currency    string             `json:"currency" validate:"omitempty,len=3,alpha"`
	BookingMode models.BookingMode `json:"booking_mode" validate:"omitempty,oneof=instant request"`
}

type UpdateRatesInput struct {
	HourlyRate  *decimal.Decimal   `json:"hourly_rate"`
	DailyRate   *decimal.Decimal   `json:"daily_rate"`
	MonthlyRate *decimal.Decimal   `json:"monthly_rate"`
	BookingMode models.BookingMode `json:"booking_mode" validate:"omitempty,oneof=instant request"`
	IsAvailable *bool              `json:"is_available"`
}

type NearbySpace struct {
	models.ParkingSpace
	DistanceKm float64 `json:"distance_km"`
}

func checkRate(field string, rate decimal.Decimal) error {
	if rate.IsNegative() {
		return apperr.Validation(field + " must not be negative")
	}
	return nil
}

type SpaceService struct {
	store  SpaceStore
	index  SpaceIndexer
	cache  NearbyCache
	logger *zap.Logger
}

// NewSpaceService wires the store with optional search index and nearby cache.
func NewSpaceService(store SpaceStore, index SpaceIndexer, cache NearbyCache, logger *zap.Logger) *SpaceService {
	return &SpaceService{store: store, index: index, cache: cache, logger: logger}
}

func (s *SpaceService) GetSpace(ctx context.Context, id uuid.UUID) (*models.ParkingSpace, error) {
	return s.store.GetSpace(ctx, id)
}

func (s *SpaceService) Create(ctx context.Context, principal models.Principal, in CreateSpaceInput) (*models.ParkingSpace, error) {
	if principal.Role != models.OwnerRole && !principal.IsAdmin() {
		return nil, apperr.Forbidden("only space owners can list a space")
	}
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	for field, rate := range map[string]decimal.Decimal{"hourly_rate": in.HourlyRate, "daily_rate": in.DailyRate, "monthly_rate": in.MonthlyRate} {
		if err := checkRate(field, rate); err != nil {
			return nil, err
		}
	}

	space := &models.ParkingSpace{
		OwnerID:     principal.UserID,
		Title:       in.Title,
		Description: in.Description,
		SpaceType:   in.SpaceType,
		Address:     in.Address,
		City:        in.City,
		Latitude:    *in.Latitude,
		Longitude:   *in.Longitude,
		HourlyRate:  in.HourlyRate.Round(2),
		DailyRate:   in.DailyRate.Round(2),
		MonthlyRate: in.MonthlyRate.Round(2),
		Currency:    in.Currency,
		BookingMode: in.BookingMode,
		IsAvailable: true,
	}
	if space.SpaceType == "" {
		space.SpaceType = models.DrivewaySpaceType
	}
	if err := s.store.CreateSpace(ctx, space); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, space)
	s.logger.Info("parking space created",
		zap.String("space_id", space.ID.String()),
		zap.String("owner_id", space.OwnerID.String()))
	return space, nil
}

// UpdateRates changes the rate card. Existing reservations keep the price they were booked at.
func (s *SpaceService) UpdateRates(ctx context.Context, principal models.Principal, id uuid.UUID, in UpdateRatesInput) (*models.ParkingSpace, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}

	space, err := s.store.GetSpace(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() && space.OwnerID != principal.UserID {
		return nil, apperr.Forbidden("only the space owner can change its rates")
	}

	rates := []struct {
		field string
		value *decimal.Decimal
		dst   *decimal.Decimal
	}{
		{"hourly_rate", in.HourlyRate, &space.HourlyRate},
		{"daily_rate", in.DailyRate, &space.DailyRate},
		{"monthly_rate", in.MonthlyRate, &space.MonthlyRate},
	}
	for _, r := range rates {
		if r.value == nil {
			continue
		}
		if err := checkRate(r.field, *r.value); err != nil {
			return nil, err
		}
		*r.dst = r.value.Round(2)
	}
	if in.BookingMode != "" {
		space.BookingMode = in.BookingMode
	}
	if in.IsAvailable != nil {
		space.IsAvailable = *in.IsAvailable
	}

	if err := s.store.SaveSpace(ctx, space); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, space)
	s.logger.Info("rate card updated",
		zap.String("space_id", space.ID.String()),
		zap.String("hourly_rate", space.HourlyRate.String()),
		zap.String("daily_rate", space.DailyRate.String()),
		zap.String("monthly_rate", space.MonthlyRate.String()))
	return space, nil
}

// afterWrite refreshes the search document and drops cached nearby results. Both are
// best-effort; the database row is the source of truth.
func (s *SpaceService) afterWrite(ctx context.Context, space *models.ParkingSpace) {
	if s.index != nil {
		if err := s.index.IndexSpace(*space); err != nil {
			s.logger.Warn("failed to index space", zap.String("space_id", space.ID.String()), zap.Error(err))
		}
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("failed to invalidate nearby cache", zap.Error(err))
		}
	}
}

// Nearby scans available spaces within radiusKm of (lat, lng), closest first.
func (s *SpaceService) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]NearbySpace, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, apperr.Validation("lat must be within [-90, 90] and lng within [-180, 180]")
	}
	if radiusKm <= 0 {
		radiusKm = DefaultNearbyRadiusKm
	}
	if radiusKm > MaxNearbyRadiusKm {
		return nil, apperr.Validation("radius_km must not exceed " + strconv.FormatFloat(MaxNearbyRadiusKm, 'f', -1, 64))
	}

	key := utils.GenerateCacheKey(nearbyCacheResource, map[string]string{
		"lat":    strconv.FormatFloat(lat, 'f', 5, 64),
		"lng":    strconv.FormatFloat(lng, 'f', 5, 64),
		"radius": strconv.FormatFloat(radiusKm, 'f', 2, 64),
		"limit":  strconv.Itoa(limit),
	})
	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("nearby cache read failed", zap.Error(err))
		} else if ok {
			var cached []NearbySpace
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	minLat, maxLat, minLng, maxLng := boundingBox(lat, lng, radiusKm)
	candidates, err := s.store.ListSpacesInBox(ctx, minLat, maxLat, minLng, maxLng)
	if err != nil {
		return nil, err
	}

	results := make([]NearbySpace, 0, len(candidates))
	for _, space := range candidates {
		d := HaversineKm(lat, lng, space.Latitude, space.Longitude)
		if d <= radiusKm {
			results = append(results, NearbySpace{ParkingSpace: space, DistanceKm: float64(int(d*1000+0.5)) / 1000})
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].DistanceKm < results[j].DistanceKm })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	if s.cache != nil {
		if raw, err := json.Marshal(results); err == nil {
			if err := s.cache.Set(ctx, key, raw, NearbyCacheTTL); err != nil {
				s.logger.Warn("nearby cache write failed", zap.Error(err))
			}
		}
	}
	return results, nil
}

// Search runs a text query against the space index and loads the matching rows in rank order.
func (s *SpaceService) Search(ctx context.Context, text, city string, limit, offset int) ([]models.ParkingSpace, int64, error) {
	if s.index == nil {
		return nil, 0, apperr.NotAllowed("search is not enabled")
	}
	ids, total, err := s.index.SearchSpaces(text, city, limit, offset)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}
	if len(ids) == 0 {
		return []models.ParkingSpace{}, int64(total), nil
	}

	rows, err := s.store.ListSpacesByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[uuid.UUID]models.ParkingSpace, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	ordered := make([]models.ParkingSpace, 0, len(ids))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered, int64(total), nil
}

// Reindex rebuilds the search documents from the database.
func (s *SpaceService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, nil
	}
	spaces, err := s.store.ListAllSpaces(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.index.IndexSpaces(spaces); err != nil {
		return 0, apperr.Storage(err)
	}
	return len(spaces), nil
}
