package station

import (
	"context"
	"errors"

	"weatherhat/internal/mqtt"
	"weatherhat/internal/upload"
)

var ErrStopped = errors.New("station stopped")

// IsFatal reports whether err must end the process. Upload and publish
// failures are retried at the next boundary; a cancelled context is a
// normal shutdown. Anything else (sensor, display, config) is fatal.
func IsFatal(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var upErr *upload.UploadError
	if errors.As(err, &upErr) {
		return false
	}
	var pubErr *mqtt.PublishError
	if errors.As(err, &pubErr) {
		return false
	}
	return true
}
