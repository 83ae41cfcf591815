package entity

import "time"

// LoyaltyData is the issued wallet pass as the install pages consume it.
type LoyaltyData struct {
	ID           string              `json:"id"`
	FirstName    string              `json:"firstName"`
	LastName     string              `json:"lastName"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone"`
	Card         LoyaltyCard         `json:"card"`
	CustomFields LoyaltyCustomFields `json:"customFields"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

type LoyaltyCard struct {
	URL string `json:"url"`
}

// LoyaltyCustomFields mirrors the pass template's custom fields.
type LoyaltyCustomFields struct {
	Nivel         string `json:"Nivel"`
	IDCBB         string `json:"Id_CBB"`
	Ofertas       string `json:"Ofertas"`
	IDTarjeta     string `json:"Id_Tarjeta"`
	Descuento     string `json:"Descuento"`
	URLSubirNivel string `json:"UrlSubirNivel"`
	IDDeReferido  string `json:"Id_DeReferido"`
}
