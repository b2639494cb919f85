package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"luminapos/internal/config"
	"luminapos/internal/dto"
	"luminapos/internal/model"
	"luminapos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	settingsCacheKey = "cache:settings"
	settingsCacheTTL = 60 * time.Second
)

// SettingsService serves the store configuration. Reads go through a short
// Redis cache because every settlement needs the tax config.
type SettingsService interface {
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
	// TaxConfig is what the settlement coordinator consumes.
	TaxConfig(ctx context.Context) (TaxConfig, error)
}

type settingsService struct {
	repo repository.SettingsRepository
	rdb  *redis.Client
	cfg  *config.Config
}

func NewSettingsService(repo repository.SettingsRepository, rdb *redis.Client, cfg *config.Config) SettingsService {
	return &settingsService{repo: repo, rdb: rdb, cfg: cfg}
}

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

func (s *settingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	settings := &model.Settings{
		StoreName:        req.StoreName,
		Currency:         req.Currency,
		TaxRate:          req.TaxRate,
		PricesIncludeTax: req.PricesIncludeTax,
		Address:          req.Address,
		Phone:            req.Phone,
	}
	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, settingsCacheKey).Err(); err != nil {
			log.Warn().Err(err).Msg("settings cache invalidation failed")
		}
	}
	return toSettingsResponse(settings), nil
}

func (s *settingsService) TaxConfig(ctx context.Context) (TaxConfig, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return TaxConfig{}, err
	}
	return TaxConfig{Rate: settings.TaxRate, PricesIncludeTax: settings.PricesIncludeTax}, nil
}

// load reads through the cache, falling back to the DB row and finally to the
// configured defaults when nothing has been seeded yet.
func (s *settingsService) load(ctx context.Context) (*model.Settings, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, settingsCacheKey).Result(); err == nil {
			var cached model.Settings
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	settings, err := s.repo.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		settings = s.defaults()
	} else if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(settings); err == nil {
			if err := s.rdb.Set(ctx, settingsCacheKey, data, settingsCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("settings cache write failed")
			}
		}
	}
	return settings, nil
}

func (s *settingsService) defaults() *model.Settings {
	rate := decimal.NewFromFloat(0.18)
	includeTax := true
	currency := "S/"
	if s.cfg != nil {
		rate = decimal.NewFromFloat(s.cfg.DefaultTaxRate)
		includeTax = s.cfg.PricesIncludeTax
		currency = s.cfg.Currency
	}
	return &model.Settings{
		StoreName:        "Lumina Store",
		Currency:         currency,
		TaxRate:          rate,
		PricesIncludeTax: includeTax,
	}
}

func toSettingsResponse(s *model.Settings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		StoreName:        s.StoreName,
		Currency:         s.Currency,
		TaxRate:          s.TaxRate,
		PricesIncludeTax: s.PricesIncludeTax,
		Address:          s.Address,
		Phone:            s.Phone,
	}
}
