package mapper

import (
	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/model"
)

type PropertyMapper struct{}

func NewPropertyMapper() *PropertyMapper {
	return &PropertyMapper{}
}

func (m *PropertyMapper) ToEntity(p *model.Property) *entity.Property {
	if p == nil {
		return nil
	}
	return &entity.Property{
		Id:                p.Id,
		Address:           p.Address,
		Floor:             p.Floor,
		Suite:             p.Suite,
		SizeSf:            p.SizeSf,
		RentPerSfYear:     p.RentPerSfYear,
		MonthlyRent:       p.MonthlyRent,
		AnnualRent:        p.AnnualRent,
		AssignedAssociate: p.AssignedAssociate,
		Description:       p.Description,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (m *PropertyMapper) ToModel(p *entity.Property) *model.Property {
	if p == nil {
		return nil
	}
	return &model.Property{
		Id:                p.Id,
		Address:           p.Address,
		Floor:             p.Floor,
		Suite:             p.Suite,
		SizeSf:            p.SizeSf,
		RentPerSfYear:     p.RentPerSfYear,
		MonthlyRent:       p.MonthlyRent,
		AnnualRent:        p.AnnualRent,
		AssignedAssociate: p.AssignedAssociate,
		Description:       p.Description,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (m *PropertyMapper) ToEntities(props []*model.Property) []*entity.Property {
	entities := make([]*entity.Property, len(props))
	for i, p := range props {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
