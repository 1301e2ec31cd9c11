package rest

import (
	"time"

	"github.com/push-name-service/pns-indexer/internal/domain"
	"github.com/push-name-service/pns-indexer/internal/ownerindex"
	"github.com/push-name-service/pns-indexer/internal/resolver"
)

// availabilityDTO is the wire shape for GET /names/:name
type availabilityDTO struct {
	Name      string         `json:"name"`
	NameHash  string         `json:"name_hash"`
	Status    string         `json:"status"`
	Fee       string         `json:"fee,omitempty"` // wei, decimal string
	IsPremium bool           `json:"is_premium"`
	Record    *nameRecordDTO `json:"record,omitempty"`
}

// nameRecordDTO is the wire shape of a cached or live name record
type nameRecordDTO struct {
	Name         string            `json:"name"`
	NameHash     string            `json:"name_hash"`
	Owner        string            `json:"owner"`
	RegisteredAt time.Time         `json:"registered_at"`
	ExpiresAt    time.Time         `json:"expires_at"`
	IsPremium    bool              `json:"is_premium"`
	OriginChain  string            `json:"origin_chain,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// primaryNameDTO is the wire shape for GET /addresses/:address/name
type primaryNameDTO struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// ownedNamesDTO is the wire shape for GET /owners/:address/names
type ownedNamesDTO struct {
	Owner   string          `json:"owner"`
	Names   []nameRecordDTO `json:"names"`
	Source  string          `json:"source"`
	Partial bool            `json:"partial"`
}

func availabilityFromDomain(a *resolver.Availability) availabilityDTO {
	dto := availabilityDTO{
		Name:      a.Name,
		NameHash:  a.NameHash.Hex(),
		Status:    string(a.Status),
		IsPremium: a.IsPremium,
	}
	if a.Fee != nil {
		dto.Fee = a.Fee.String()
	}
	if a.Record != nil {
		rec := recordFromDomain(a.Record)
		dto.Record = &rec
	}
	return dto
}

func recordFromDomain(r *domain.NameRecord) nameRecordDTO {
	return nameRecordDTO{
		Name:         r.Name,
		NameHash:     r.NameHash.Hex(),
		Owner:        r.Owner,
		RegisteredAt: r.RegisteredAt,
		ExpiresAt:    r.ExpiresAt,
		IsPremium:    r.IsPremium,
		OriginChain:  r.Origin.String(),
		Metadata:     r.Metadata,
	}
}

func ownedNamesFromDomain(o *ownerindex.OwnedNames) ownedNamesDTO {
	names := make([]nameRecordDTO, 0, len(o.Names))
	for i := range o.Names {
		names = append(names, recordFromDomain(&o.Names[i]))
	}
	return ownedNamesDTO{
		Owner:   o.Owner,
		Names:   names,
		Source:  string(o.Source),
		Partial: o.Partial,
	}
}
