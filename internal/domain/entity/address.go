// Package entity contains the core business objects of the project.
package entity

// Address is a shipping address owned by a user. It has no identity outside its owner.
type Address struct {
	ID         int64  `json:"id"`
	Street     string `json:"street"`
	Wilaya     string `json:"wilaya"`
	Commune    string `json:"commune"`
	CodePostal string `json:"codePostal"`
}

// AddressRequest is the payload for POST /users/me/address.
type AddressRequest struct {
	Street     string `json:"street" validate:"required" backend:"required"`
	Wilaya     string `json:"wilaya" validate:"required" backend:"required"`
	Commune    string `json:"commune" validate:"required" backend:"required"`
	CodePostal string `json:"codePostal" validate:"required" backend:"required"`
}
