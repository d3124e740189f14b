// Package models contains the GORM persistence models. Domain entities stay
// free of ORM tags; the mappers here convert in both directions.
package models
