package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"homely/models"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	offeringsCacheKey = "catalog:offerings"
	offeringsCacheTTL = 5 * time.Minute
)

// ServiceOption is one configurable option of a catalog offering.
type ServiceOption struct {
	OptionID string         `bson:"optionId" json:"optionId"`
	Label    string         `bson:"label" json:"label"`
	Choices  []OptionChoice `bson:"choices" json:"choices"`
}

// OptionChoice is one selectable choice with its price adjustment.
type OptionChoice struct {
	ChoiceID        string  `bson:"choiceId" json:"choiceId"`
	Label           string  `bson:"label" json:"label"`
	PriceAdjustment float64 `bson:"priceAdjustment" json:"priceAdjustment"`
}

// Offering is a catalog entry as stored in Mongo.
type Offering struct {
	models.ServiceOffering `bson:",inline"`
	Category               string          `bson:"category" json:"category"`
	Options                []ServiceOption `bson:"options" json:"options,omitempty"`
	Active                 bool            `bson:"active" json:"-"`
}

// CatalogService is the opaque read source feeding the draft's service step.
type CatalogService interface {
	ListOfferings(ctx context.Context) ([]Offering, error)
	GetOffering(ctx context.Context, serviceID string) (*Offering, error)
}

// OfferingCache is the slice of the Redis client catalog list reads go
// through. A nil cache means every read hits Mongo.
type OfferingCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// MongoCatalogService reads offerings from the catalog collection, with the
// full active list cached in Redis.
type MongoCatalogService struct {
	Col   *mongo.Collection
	Cache OfferingCache
}

func NewMongoCatalogService(col *mongo.Collection, cache OfferingCache) *MongoCatalogService {
	return &MongoCatalogService{Col: col, Cache: cache}
}

// ListOfferings returns the active catalog entries, served from the cache
// when a recent copy exists.
func (s *MongoCatalogService) ListOfferings(ctx context.Context) ([]Offering, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if s.Cache != nil {
		if data, err := s.Cache.Get(ctx, offeringsCacheKey).Result(); err == nil {
			var cached []Offering
			if err := json.Unmarshal([]byte(data), &cached); err == nil {
				return cached, nil
			}
		}
	}

	cursor, err := s.Col.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to list offerings: %w", err)
	}
	defer cursor.Close(ctx)

	var offerings []Offering
	if err := cursor.All(ctx, &offerings); err != nil {
		return nil, fmt.Errorf("catalog: failed to decode offerings: %w", err)
	}

	if s.Cache != nil {
		if data, err := json.Marshal(offerings); err == nil {
			// Best-effort; a cache write failure never fails the read.
			s.Cache.Set(ctx, offeringsCacheKey, data, offeringsCacheTTL)
		}
	}
	return offerings, nil
}

// GetOffering returns one catalog entry by service ID.
func (s *MongoCatalogService) GetOffering(ctx context.Context, serviceID string) (*Offering, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var offering Offering
	err := s.Col.FindOne(ctx, bson.M{"id": serviceID, "active": true}).Decode(&offering)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("catalog: offering %s not found", serviceID)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to fetch offering: %w", err)
	}
	return &offering, nil
}
