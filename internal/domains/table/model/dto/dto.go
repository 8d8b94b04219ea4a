package dto

import (
	"github.com/google/uuid"

	"mesa/internal/domains/table/model"
	gModel "mesa/shared/model"
	"mesa/shared/timezone"
)

type CreateTableRequest struct {
	Number   string `json:"number"   validate:"required,max=10"`
	Capacity int    `json:"capacity" validate:"required,gte=1,lte=50"`
	Area     string `json:"area"     validate:"required,oneof=salon_principal terraza salon_privado barra"`
}

func (c *CreateTableRequest) ToModel(user string) model.Table {
	return model.Table{
		ID:       uuid.NewString(),
		Number:   c.Number,
		Capacity: c.Capacity,
		Area:     c.Area,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateTableRequest struct {
	Capacity int    `db:"capacity" json:"capacity" validate:"omitempty,gte=1,lte=50"`
	Area     string `db:"area"     json:"area"     validate:"omitempty,oneof=salon_principal terraza salon_privado barra"`
	Active   *bool  `db:"active"   json:"active"   validate:"omitempty"`
}

type TableResponse struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
	Area     string `json:"area"`
	Active   bool   `json:"active"`
}

func (r *TableResponse) FromModel(model model.Table) {
	r.ID = model.ID
	r.Number = model.Number
	r.Capacity = model.Capacity
	r.Area = model.Area
	r.Active = model.Active
}

type GetTablesResponse struct {
	Tables []TableResponse `json:"tables"`
	Total  int             `json:"total"`
}

func (r *GetTablesResponse) FromModels(models []model.Table) {
	r.Total = len(models)

	r.Tables = make([]TableResponse, len(models))
	for i, mod := range models {
		r.Tables[i].FromModel(mod)
	}
}
