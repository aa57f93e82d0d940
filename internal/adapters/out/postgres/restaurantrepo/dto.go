// Package restaurantrepo persists restaurant aggregates with GORM. The
// preferred-courier pool is stored as a native Postgres uuid array so that
// pool membership checks stay a single indexed query.
package restaurantrepo

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/restaurant"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RestaurantDTO is the database representation of a restaurant aggregate.
type RestaurantDTO struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Location          GeoPointDTO    `gorm:"embedded;embeddedPrefix:location_"`
	DeliveryZoneKm    float64        `gorm:"type:double precision"`
	PreferredCouriers pq.StringArray `gorm:"type:uuid[]"`
}

// TableName overrides GORM's default naming to use "restaurants".
func (RestaurantDTO) TableName() string {
	return "restaurants"
}

// GeoPointDTO is the embedded coordinate pair of the restaurant's location.
type GeoPointDTO struct {
	Lat float64 `gorm:"type:double precision"`
	Lon float64 `gorm:"type:double precision"`
}

func fromDomain(r *restaurant.Restaurant) RestaurantDTO {
	couriers := r.PreferredCouriers()
	pool := make(pq.StringArray, 0, len(couriers))
	for _, id := range couriers {
		pool = append(pool, id.String())
	}

	return RestaurantDTO{
		ID: r.ID().Bytes(),
		Location: GeoPointDTO{
			Lat: r.Location().Lat(),
			Lon: r.Location().Lon(),
		},
		DeliveryZoneKm:    r.DeliveryZoneKm(),
		PreferredCouriers: pool,
	}
}

func toDomain(dto RestaurantDTO) (*restaurant.Restaurant, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Location.Lat, dto.Location.Lon)
	if err != nil {
		return nil, err
	}

	pool := make([]kernel.UUID, 0, len(dto.PreferredCouriers))
	for _, raw := range dto.PreferredCouriers {
		courierID, poolErr := kernel.UUIDFromString(raw)
		if poolErr != nil {
			return nil, poolErr
		}
		pool = append(pool, courierID)
	}

	return restaurant.RestoreRestaurant(id, location, dto.DeliveryZoneKm, pool)
}
