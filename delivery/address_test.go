package delivery

import (
	"testing"

	"delivery-backend/models"
)

func TestComposeAddress(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"Rua X", "12", "", "Centro"}, "Rua X, 12, Centro"},
		{[]string{"", " Rua X ", ",", "Centro,"}, "Rua X, Centro"},
		{[]string{"", ""}, ""},
	}
	for _, tt := range tests {
		if got := ComposeAddress(tt.parts...); got != tt.want {
			t.Errorf("ComposeAddress(%q) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestClientAddressString(t *testing.T) {
	a := ClientAddress{Street: "Rua X", Number: "12", Neighborhood: "Centro", City: "Campinas", State: "SP"}
	if got, want := a.String(), "Rua X, 12, Centro, Campinas, SP, Brasil"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	a.Complement = "apto 3"
	a.Neighborhood = ""
	if got, want := a.String(), "Rua X, 12 apto 3, Campinas, SP, Brasil"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEstablishmentAddress(t *testing.T) {
	e := &models.Establishment{Street: "Av. Brasil", Number: "100", Neighborhood: "Jardim", City: "Campinas", State: "SP"}
	if got, want := EstablishmentAddress(e), "Av. Brasil, 100, Jardim, Campinas - SP, Brasil"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	e.City = ""
	if got, want := EstablishmentAddress(e), "Av. Brasil, 100, Jardim, SP, Brasil"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
