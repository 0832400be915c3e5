// Package domain contains the core data types for the product registration service.
// This package has no dependencies on storage or transport and is imported by
// every other internal package (repo, local, gateway, service, handler).
package domain

import "time"

// Registration records one use of a physical item: who used what, where,
// why and when. Registrations are append-only; once created they are never
// updated or deleted.
//
// User, Product, Location and Purpose reference the reference-data lists by
// name, not by identifier.
type Registration struct {
	ID          string    `json:"id"`
	User        string    `json:"user"`
	Product     string    `json:"product"`
	Location    string    `json:"location"`
	Purpose     string    `json:"purpose"`
	CreatedAt   time.Time `json:"created_at"`
	DisplayDate string    `json:"display_date"`
	DisplayTime string    `json:"display_time"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	QRCode      string    `json:"qr_code,omitempty"`
}
