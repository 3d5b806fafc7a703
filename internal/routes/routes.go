// Package routes holds the pathnames the view layer navigates between.
package routes

const (
	Bills   = "/bills"
	NewBill = "/bills/new"
)
