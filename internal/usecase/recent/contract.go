package recent

import (
	"context"

	domrecent "github.com/kailas-cloud/localdex/internal/domain/recent"
)

// Repository persists recent search buffers per session.
type Repository interface {
	Load(ctx context.Context, session string) (domrecent.Buffer, error)
	Save(ctx context.Context, session string, buf *domrecent.Buffer) error
	Delete(ctx context.Context, session string) error
}
