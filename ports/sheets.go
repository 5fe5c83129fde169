package ports

import (
	"context"

	"pspicdash/domain/sheet"
)

// SheetSource reads one published sheet tab into a table
type SheetSource interface {
	Fetch(ctx context.Context, ref sheet.Ref) (*sheet.Table, error)
}

// SheetSourceFunc adapts a function to SheetSource
type SheetSourceFunc func(ctx context.Context, ref sheet.Ref) (*sheet.Table, error)

func (f SheetSourceFunc) Fetch(ctx context.Context, ref sheet.Ref) (*sheet.Table, error) {
	return f(ctx, ref)
}
