package domain

import "time"

// Inventory movement directions.
const (
	MovementIn  = "entree"
	MovementOut = "sortie"
)

// Materiel is a stock item (toner, drum, spare part).
type Materiel struct {
	ID          int64               `json:"id"             bson:"_id"`
	Name        string              `json:"name"           bson:"name"      validate:"required"`
	Reference   string              `json:"reference"      bson:"reference" validate:"required"`
	Type        string              `json:"type,omitempty" bson:"type,omitempty"`
	Quantite    int                 `json:"quantite"       bson:"quantite"  validate:"gte=0"`
	Sortie      int                 `json:"sortie"         bson:"sortie"    validate:"gte=0"`
	Inventaires []InventoryMovement `json:"inventaires"    bson:"inventaires"`
}

func (m Materiel) EntityID() int64 { return m.ID }

// Available is the stock left once issued items are subtracted.
func (m Materiel) Available() int { return m.Quantite - m.Sortie }

// InventoryMovement records a stock entry or exit.
type InventoryMovement struct {
	ID         int64     `json:"id"              bson:"id"`
	MaterielID int64     `json:"materiel_id"     bson:"materiel_id"`
	Type       string    `json:"type"            bson:"type"`
	Quantite   int       `json:"quantite"        bson:"quantite"`
	Date       time.Time `json:"date"            bson:"date"`
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty"`
}
