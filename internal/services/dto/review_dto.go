package dto

type CreateReviewRequest struct {
	Dimension1 int    `json:"dimension_1" validate:"required,min=1,max=5"`
	Dimension2 int    `json:"dimension_2" validate:"required,min=1,max=5"`
	Dimension3 int    `json:"dimension_3" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"max=2000"`
}
