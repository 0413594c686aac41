package delivery

import (
	"strings"

	"delivery-backend/models"
)

// ComposeAddress joins the non-empty parts with ", ". Parts are trimmed of
// blanks and stray commas so no empty segment survives.
func ComposeAddress(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), ", ")
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// ClientAddress is the structured address a customer types in.
type ClientAddress struct {
	Street       string `json:"rua" binding:"required"`
	Number       string `json:"numero" binding:"required"`
	Neighborhood string `json:"bairro"`
	Complement   string `json:"complemento"`
	City         string `json:"cidade"`
	State        string `json:"estado"`
}

// String renders the address for geocoding. The complement rides with the
// number, as in "12 apto 3".
func (a ClientAddress) String() string {
	return ComposeAddress(
		a.Street,
		strings.TrimSpace(a.Number+" "+a.Complement),
		a.Neighborhood,
		a.City,
		a.State,
		"Brasil",
	)
}

// EstablishmentAddress renders the establishment's own address fields.
func EstablishmentAddress(e *models.Establishment) string {
	cityState := strings.TrimSpace(e.City)
	if st := strings.TrimSpace(e.State); st != "" {
		if cityState != "" {
			cityState += " - " + st
		} else {
			cityState = st
		}
	}
	return ComposeAddress(e.Street, e.Number, e.Neighborhood, cityState, "Brasil")
}
