// Package orderrepo persists order aggregates with GORM. The incident rides
// along as nullable columns on the order row: the 1:1 ownership makes a
// separate table pointless, and the replace-on-write semantics fall out of a
// plain row update.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the database representation of an order aggregate.
type OrderDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Status       int        `gorm:"index"`
	CustomerID   *uuid.UUID `gorm:"type:uuid;index"`
	CourierID    *uuid.UUID `gorm:"type:uuid;index"`
	RestaurantID *uuid.UUID `gorm:"type:uuid;index"`

	Address  GeoPointDTO `gorm:"embedded;embeddedPrefix:address_"`
	Location *GeoPointDTO `gorm:"embedded;embeddedPrefix:location_"`

	OrderTime     time.Time
	PickupTime    *time.Time
	DeliveredTime *time.Time
	PrepMinutes   int

	RatingCourier    *int
	RatingRestaurant *int

	IncidentKind   *int
	IncidentReason *string
	IncidentValue  *int
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// GeoPointDTO is the embedded coordinate pair for addresses and positions.
type GeoPointDTO struct {
	Lat float64 `gorm:"type:double precision"`
	Lon float64 `gorm:"type:double precision"`
}

func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:           o.ID().Bytes(),
		Status:       int(o.Status()),
		CustomerID:   optionalID(o.CustomerID()),
		CourierID:    optionalID(o.CourierID()),
		RestaurantID: optionalID(o.RestaurantID()),
		Address: GeoPointDTO{
			Lat: o.DeliveryAddress().Lat(),
			Lon: o.DeliveryAddress().Lon(),
		},
		OrderTime:        o.OrderTime(),
		PickupTime:       o.PickupTime(),
		DeliveredTime:    o.DeliveredTime(),
		PrepMinutes:      o.PrepMinutes(),
		RatingCourier:    o.RatingCourier(),
		RatingRestaurant: o.RatingRestaurant(),
	}

	if loc := o.CurrentLocation(); loc != nil {
		dto.Location = &GeoPointDTO{Lat: loc.Lat(), Lon: loc.Lon()}
	}

	if incident := o.Incident(); incident != nil {
		kind := int(incident.Kind())
		reason := incident.Reason()
		dto.IncidentKind = &kind
		dto.IncidentReason = &reason
		dto.IncidentValue = incident.Value()
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := optionalUUID(dto.CustomerID)
	if err != nil {
		return nil, err
	}
	courierID, err := optionalUUID(dto.CourierID)
	if err != nil {
		return nil, err
	}
	restaurantID, err := optionalUUID(dto.RestaurantID)
	if err != nil {
		return nil, err
	}

	address, err := kernel.NewGeoPoint(dto.Address.Lat, dto.Address.Lon)
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Location != nil {
		loc, locErr := kernel.NewGeoPoint(dto.Location.Lat, dto.Location.Lon)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	var incident *order.Incident
	if dto.IncidentKind != nil {
		reason := ""
		if dto.IncidentReason != nil {
			reason = *dto.IncidentReason
		}
		incident, err = order.RestoreIncident(
			id, order.IncidentKind(*dto.IncidentKind), reason, dto.IncidentValue)
		if err != nil {
			return nil, err
		}
	}

	return order.RestoreOrder(
		id,
		order.Status(dto.Status),
		customerID,
		courierID,
		restaurantID,
		address,
		location,
		dto.OrderTime,
		dto.PickupTime,
		dto.DeliveredTime,
		dto.PrepMinutes,
		dto.RatingCourier,
		dto.RatingRestaurant,
		incident,
	)
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
