package domain

// Brand is a printer manufacturer.
type Brand struct {
	ID   int64  `json:"id"   bson:"_id"`
	Name string `json:"name" bson:"name" validate:"required"`
}

func (b Brand) EntityID() int64 { return b.ID }

// PrinterModel is a model of a given brand.
type PrinterModel struct {
	ID      int64  `json:"id"             bson:"_id"`
	Name    string `json:"name"           bson:"name"     validate:"required"`
	BrandID int64  `json:"brand_id"       bson:"brand_id" validate:"required,gt=0"`
	Type    string `json:"type,omitempty" bson:"type,omitempty"`
}

func (m PrinterModel) EntityID() int64 { return m.ID }
