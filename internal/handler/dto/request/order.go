package request

import (
	"strings"

	"marketplace-checkout/internal/usecase/commands"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note,omitempty" binding:"max=500"`
}

func (r UpdateOrderStatusRequest) ToInput() commands.UpdateOrderStatusInput {
	return commands.UpdateOrderStatusInput{
		Status: strings.TrimSpace(r.Status),
		Note:   strings.TrimSpace(r.Note),
	}
}
