package storage

import (
	"context"
	"io"
)

// FrameArchive stores detection frames for provenance. The returned key is
// recorded on stock records as frame_ref; nothing in the core reads the frame
// back, it exists for audit only.
type FrameArchive interface {
	StoreFrame(ctx context.Context, r io.Reader, size int64, contentType string) (string, error)
}
