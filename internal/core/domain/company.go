package domain

// Company is a customer organisation owning departments and printers.
type Company struct {
	ID                int64  `json:"id"                  bson:"_id"`
	Name              string `json:"name"                bson:"name"                validate:"required"`
	Address           string `json:"address,omitempty"   bson:"address,omitempty"`
	Country           string `json:"country,omitempty"   bson:"country,omitempty"`
	Phone             string `json:"phone,omitempty"     bson:"phone,omitempty"`
	Email             string `json:"email,omitempty"     bson:"email,omitempty"     validate:"omitempty,email"`
	ContactPerson     string `json:"contact_person,omitempty" bson:"contact_person,omitempty"`
	Status            string `json:"status"              bson:"status"              validate:"omitempty,oneof=active inactive"`
	QuotaMonthlyBW    int    `json:"quota_monthly_bw"    bson:"quota_monthly_bw"    validate:"gte=0"`
	QuotaMonthlyColor int    `json:"quota_monthly_color" bson:"quota_monthly_color" validate:"gte=0"`
}

func (c Company) EntityID() int64 { return c.ID }

// Department belongs to exactly one company.
type Department struct {
	ID           int64  `json:"id"            bson:"_id"`
	Name         string `json:"name"          bson:"name"          validate:"required"`
	CompanyID    int64  `json:"company_id"    bson:"company_id"    validate:"required,gt=0"`
	QuotaMonthly int    `json:"quota_monthly" bson:"quota_monthly" validate:"gte=0"`
}

func (d Department) EntityID() int64 { return d.ID }
