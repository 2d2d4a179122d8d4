package repositories

import "context"

// DatasetResetter wipes every generated and reference table. Used only by the reset command.
type DatasetResetter interface {
	ResetDataset(ctx context.Context) error
}
