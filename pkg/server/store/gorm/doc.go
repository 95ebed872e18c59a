// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// Model validation runs in the BeforeSave hooks of pkg/model, so a rejected
// record surfaces from Create and Save as a *model.ValidationError and the
// write is rolled back.
package gorm
